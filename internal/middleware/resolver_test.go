package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renohub/core/internal/domain"
)

func TestResolvePrivateChat_Rules(t *testing.T) {
	r := Resolver{}

	res, err := r.ResolvePrivateChat(nil, [16]byte{}, [16]byte{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, ResolvedNeedsCreate, res.Kind)

	one := []domain.Project{{Name: "only one"}}
	res, err = r.ResolvePrivateChat(nil, [16]byte{}, [16]byte{}, one)
	assert.NoError(t, err)
	assert.Equal(t, ResolvedDirect, res.Kind)
	assert.Equal(t, "only one", res.Project.Name)

	many := []domain.Project{{Name: "a"}, {Name: "b"}}
	res, err = r.ResolvePrivateChat(nil, [16]byte{}, [16]byte{}, many)
	assert.NoError(t, err)
	assert.Equal(t, ResolvedNeedsPicker, res.Kind)
	assert.Len(t, res.Projects, 2)
}
