// Package skills loads markdown-with-frontmatter prompt definitions from a
// precedence-ordered set of directories, grounded on the config layer's
// preference for yaml.v3-based structured parsing and goldmark for body
// validation.
package skills

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/renohub/core/internal/domain"
)

// Skill is an in-memory prompt record loaded from disk.
type Skill struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	Priority     int            `yaml:"priority"`
	Metadata     map[string]any `yaml:"metadata"`
	Instructions string         `yaml:"-"`
	SourcePath   string         `yaml:"-"`
}

// Registry holds every loaded skill, keyed by name.
type Registry struct {
	skills map[string]Skill
}

// Load reads every *.md file under each directory in dirs, in order.
// Later directories override earlier ones by name; within one directory,
// the higher-priority file wins a name collision. Missing directories are
// skipped rather than erroring, since the built-in directory is the only
// one guaranteed to exist.
func Load(dirs []string) (Registry, error) {
	reg := Registry{skills: make(map[string]Skill)}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Registry{}, domain.Unexpected(fmt.Sprintf("skills: reading %s", dir), err)
		}

		dirSkills := make(map[string]Skill)
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			raw, err := os.ReadFile(path)
			if err != nil {
				return Registry{}, domain.Unexpected(fmt.Sprintf("skills: reading %s", path), err)
			}

			sk, err := parseSkill(raw, path)
			if err != nil {
				return Registry{}, err
			}

			if existing, ok := dirSkills[sk.Name]; !ok || sk.Priority > existing.Priority {
				dirSkills[sk.Name] = sk
			}
		}

		for name, sk := range dirSkills {
			reg.skills[name] = sk
		}
	}

	return reg, nil
}

func parseSkill(raw []byte, path string) (Skill, error) {
	frontmatter, body, err := splitFrontmatter(raw)
	if err != nil {
		return Skill{}, domain.Validation(fmt.Sprintf("skills: %s: %s", path, err.Error()))
	}

	var sk Skill
	if err := yaml.Unmarshal(frontmatter, &sk); err != nil {
		return Skill{}, domain.Validation(fmt.Sprintf("skills: %s: invalid frontmatter: %v", path, err))
	}
	if strings.TrimSpace(sk.Name) == "" {
		return Skill{}, domain.Validation(fmt.Sprintf("skills: %s: missing name", path))
	}

	var rendered bytes.Buffer
	if err := goldmark.Convert(body, &rendered); err != nil {
		return Skill{}, domain.Validation(fmt.Sprintf("skills: %s: invalid markdown body: %v", path, err))
	}

	sk.Instructions = strings.TrimSpace(string(body))
	sk.SourcePath = path
	return sk, nil
}

// splitFrontmatter separates a leading "---\n...\n---\n" YAML block from
// the rest of the document.
func splitFrontmatter(raw []byte) (frontmatter, body []byte, err error) {
	const delim = "---"
	text := string(raw)
	if !strings.HasPrefix(strings.TrimLeft(text, "\r\n"), delim) {
		return nil, nil, fmt.Errorf("missing frontmatter delimiter")
	}
	text = strings.TrimLeft(text, "\r\n")
	text = strings.TrimPrefix(text, delim)
	text = strings.TrimPrefix(text, "\n")

	idx := strings.Index(text, "\n"+delim)
	if idx < 0 {
		return nil, nil, fmt.Errorf("unterminated frontmatter block")
	}

	frontmatter = []byte(text[:idx])
	rest := text[idx+len("\n"+delim):]
	rest = strings.TrimPrefix(rest, "\n")
	return frontmatter, []byte(rest), nil
}

// Get returns the skill with the given name.
func (r Registry) Get(name string) (Skill, bool) {
	sk, ok := r.skills[name]
	return sk, ok
}

// Prompt returns just the instruction body for name, or fallback if the
// skill isn't loaded.
func (r Registry) Prompt(name, fallback string) string {
	if sk, ok := r.skills[name]; ok {
		return sk.Instructions
	}
	return fallback
}

// Compose concatenates the named skills' instructions into one system
// prompt, separated by a header per section.
func (r Registry) Compose(names ...string) string {
	var b strings.Builder
	for i, name := range names {
		sk, ok := r.skills[name]
		if !ok {
			continue
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## %s\n%s", sk.Name, sk.Instructions)
	}
	return b.String()
}

// EnumerateXML renders every loaded skill as a compact XML list (name +
// description only, no instructions) for inclusion in a routing prompt
// without spending tokens on bodies the router doesn't need yet.
func (r Registry) EnumerateXML() string {
	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<skills>\n")
	for _, name := range names {
		sk := r.skills[name]
		fmt.Fprintf(&b, "  <skill name=%q description=%q/>\n", sk.Name, sk.Description)
	}
	b.WriteString("</skills>")
	return b.String()
}
