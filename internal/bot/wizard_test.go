package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/fsm"
)

func newSession(state fsm.State) fsm.Session {
	return fsm.Session{State: state, Data: fsm.NewData()}
}

func TestWizardProjectName(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	next, data, reply, err := p.wizardProjectName(ctx, newSession(fsm.StateProjectName), "  Apartment on Lenina  ")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectAddress, next)
	assert.Equal(t, "Apartment on Lenina", data.Fields[fieldName])
	assert.NotEmpty(t, reply)

	_, _, _, err = p.wizardProjectName(ctx, newSession(fsm.StateProjectName), "   ")
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.CodeValidation))
}

func TestWizardProjectAddress_Skip(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	sess := newSession(fsm.StateProjectAddress)
	next, data, _, err := p.wizardProjectAddress(ctx, sess, "-")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectArea, next)
	_, ok := data.Fields[fieldAddress]
	assert.False(t, ok, "skipped address must not be stored")

	sess = newSession(fsm.StateProjectAddress)
	next, data, _, err = p.wizardProjectAddress(ctx, sess, "ul. Lenina 5")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectArea, next)
	assert.Equal(t, "ul. Lenina 5", data.Fields[fieldAddress])
}

func TestWizardProjectArea(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	next, data, _, err := p.wizardProjectArea(ctx, newSession(fsm.StateProjectArea), "54,5")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectType, next)
	assert.Equal(t, "54.5", data.Fields[fieldArea])

	_, _, _, err = p.wizardProjectArea(ctx, newSession(fsm.StateProjectArea), "not a number")
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.CodeValidation))

	_, _, _, err = p.wizardProjectArea(ctx, newSession(fsm.StateProjectArea), "-5")
	require.Error(t, err)
}

func TestWizardProjectType(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	next, data, _, err := p.wizardProjectType(ctx, newSession(fsm.StateProjectType), "Standard")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectBudget, next)
	assert.Equal(t, "standard", data.Fields[fieldType])

	_, _, _, err = p.wizardProjectType(ctx, newSession(fsm.StateProjectType), "luxury")
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.CodeValidation))
}

func TestWizardProjectBudget(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	next, data, _, err := p.wizardProjectBudget(ctx, newSession(fsm.StateProjectBudget), "1 500 000 ₽")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectCustomItems, next)
	assert.Equal(t, "1500000", data.Fields[fieldBudget])

	next, data, _, err = p.wizardProjectBudget(ctx, newSession(fsm.StateProjectBudget), "skip")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectCustomItems, next)
	_, ok := data.Fields[fieldBudget]
	assert.False(t, ok)
}

func TestWizardProjectCustomItems(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	next, data, reply, err := p.wizardProjectCustomItems(ctx, newSession(fsm.StateProjectCustomItems), "kitchen, doors")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateProjectConfirm, next)
	assert.Equal(t, "kitchen,doors", data.Fields[fieldCustomItems])
	assert.Equal(t, intentCreateProject, data.Intent)
	assert.Contains(t, reply, "Create this project?")

	_, _, _, err = p.wizardProjectCustomItems(ctx, newSession(fsm.StateProjectCustomItems), "sauna")
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.CodeValidation))
}

func TestWizardProjectConfirm_Cancel(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	sess := newSession(fsm.StateProjectConfirm)
	sess.Data.Intent = intentCreateProject
	next, _, reply, err := p.wizardProjectConfirm(ctx, sess, "no")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateNone, next)
	assert.Equal(t, "Cancelled.", reply)

	sess = newSession(fsm.StateProjectConfirm)
	sess.Data.Intent = intentDeleteProject
	sess.Data.Fields[fieldProjectID] = "not-a-uuid" // confirmDeleteProject must not reach this on "no"
	next, _, reply, err = p.wizardProjectConfirm(ctx, sess, "nope")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateNone, next)
	assert.Equal(t, "Cancelled.", reply)
}

func TestSummarizeNewProject(t *testing.T) {
	data := fsm.NewData()
	data.Fields[fieldName] = "Apartment"
	data.Fields[fieldType] = "standard"
	data.Fields[fieldArea] = "54.5"

	summary := summarizeNewProject(data)
	assert.Contains(t, summary, "Name: Apartment")
	assert.Contains(t, summary, "Type: standard")
	assert.Contains(t, summary, "Area: 54.5 m²")
	assert.NotContains(t, summary, "Address:")
}

func TestWizardRolePickRole(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	next, data, reply, err := p.wizardRolePickRole(ctx, newSession(fsm.StateRolePickRole), "foreman")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateRoleConfirm, next)
	assert.Equal(t, "foreman", data.Fields[fieldRole])
	assert.Contains(t, reply, "foreman")

	_, _, _, err = p.wizardRolePickRole(ctx, newSession(fsm.StateRolePickRole), "owner")
	require.Error(t, err, "owner must not be assignable through invitation")
	assert.True(t, domain.Is(err, domain.CodeValidation))
}

func TestWizardRoleConfirm_Cancel(t *testing.T) {
	var p Pipeline
	ctx := context.Background()

	sess := newSession(fsm.StateRoleConfirm)
	next, _, reply, err := p.wizardRoleConfirm(ctx, sess, "no")
	require.NoError(t, err)
	assert.Equal(t, fsm.StateNone, next)
	assert.Equal(t, "Cancelled.", reply)
}

func TestIsSkipIsYes(t *testing.T) {
	assert.True(t, isSkip("-"))
	assert.True(t, isSkip("Skip"))
	assert.True(t, isSkip("пропустить"))
	assert.False(t, isSkip("ul. Lenina"))

	assert.True(t, isYes("Yes"))
	assert.True(t, isYes("y"))
	assert.True(t, isYes("да"))
	assert.False(t, isYes("no"))
}
