package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
}

func TestLoad_OverridesByNameAcrossDirectories(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()

	writeSkill(t, base, "ask.md", "---\nname: ask-answer\ndescription: base\npriority: 1\n---\nbase instructions")
	writeSkill(t, override, "ask.md", "---\nname: ask-answer\ndescription: override\npriority: 1\n---\noverride instructions")

	reg, err := Load([]string{base, override})
	require.NoError(t, err)

	sk, ok := reg.Get("ask-answer")
	require.True(t, ok)
	assert.Equal(t, "override instructions", sk.Instructions)
}

func TestLoad_HigherPriorityWinsWithinDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "a.md", "---\nname: x\ndescription: low\npriority: 1\n---\nlow")
	writeSkill(t, dir, "b.md", "---\nname: x\ndescription: high\npriority: 5\n---\nhigh")

	reg, err := Load([]string{dir})
	require.NoError(t, err)

	sk, ok := reg.Get("x")
	require.True(t, ok)
	assert.Equal(t, "high", sk.Instructions)
}

func TestLoad_MissingDirectorySkipped(t *testing.T) {
	reg, err := Load([]string{"/does/not/exist"})
	require.NoError(t, err)
	_, ok := reg.Get("anything")
	assert.False(t, ok)
}

func TestLoad_RejectsMissingFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "bad.md", "just a markdown body, no frontmatter")

	_, err := Load([]string{dir})
	assert.Error(t, err)
}

func TestRegistry_PromptFallback(t *testing.T) {
	var reg Registry
	assert.Equal(t, "fallback text", reg.Prompt("missing", "fallback text"))
}

func TestRegistry_ComposeAndEnumerate(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "a.md", "---\nname: one\ndescription: first skill\n---\nbody one")
	writeSkill(t, dir, "b.md", "---\nname: two\ndescription: second skill\n---\nbody two")

	reg, err := Load([]string{dir})
	require.NoError(t, err)

	composed := reg.Compose("one", "two")
	assert.Contains(t, composed, "body one")
	assert.Contains(t, composed, "body two")

	enumerated := reg.EnumerateXML()
	assert.Contains(t, enumerated, `name="one"`)
	assert.Contains(t, enumerated, `name="two"`)
}
