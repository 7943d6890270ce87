package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renohub/core/internal/domain"
)

func TestParseWizardCommand(t *testing.T) {
	cmd, ok := parseWizardCommand("/newproject")
	assert.True(t, ok)
	assert.Equal(t, cmdNewProject, cmd)

	cmd, ok = parseWizardCommand("/MyProjects")
	assert.True(t, ok)
	assert.Equal(t, cmdMyProjects, cmd)

	cmd, ok = parseWizardCommand("/launch now")
	assert.True(t, ok)
	assert.Equal(t, cmdLaunch, cmd)

	_, ok = parseWizardCommand("/budget")
	assert.False(t, ok, "quick commands aren't wizard commands")

	_, ok = parseWizardCommand("")
	assert.False(t, ok)

	_, ok = parseWizardCommand("hello bot")
	assert.False(t, ok)
}

func TestErrToReply(t *testing.T) {
	assert.Equal(t, domain.HumanMessages[domain.CodeValidation], errToReply(domain.Validation("some internal detail")))
	assert.NotContains(t, errToReply(domain.Validation("some internal detail")), "some internal detail")
}
