package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCallback(t *testing.T) {
	raw, err := EncodeCallback("bpysts", "verified", "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "bpysts:verified:a1b2c3", raw)

	cb := DecodeCallback(raw)
	assert.Equal(t, "bpysts", cb.Action)
	assert.Equal(t, []string{"verified", "a1b2c3"}, cb.Args)
}

func TestEncodeCallback_TooLong(t *testing.T) {
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	_, err := EncodeCallback("stg", string(long))
	assert.Error(t, err)
}
