// Package skill implements the progressive-disclosure skill loader (spec
// §4.7): SKILL.md frontmatter parsing, directory discovery, an activation
// set state machine, and a four-tool mcp-go surface for driving it.
//
// Grounded on kadirpekel-hector's pkg/plugins/discovery.go (manifest
// discovery over a directory tree, gopkg.in/yaml.v3 frontmatter decode,
// validate-then-collect-errors shape) and the teacher's pkg/logging for the
// warning-not-failure pattern used on soft length limits.
package skill

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lumenforge/a2a-go/pkg/logging"
	"gopkg.in/yaml.v3"
)

const (
	maxNameLength          = 64
	descriptionWarnLength  = 1024
	compatibilityWarnLen   = 500
	frontmatterOpenDelim   = "---\n"
	frontmatterCloseMarker = "\n---"
)

var nameRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Frontmatter is the literal YAML shape between the two "---" delimiters.
type Frontmatter struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	License       string         `yaml:"license"`
	Compatibility string         `yaml:"compatibility"`
	Metadata      map[string]any `yaml:"metadata"`
	AllowedTools  string         `yaml:"allowed-tools"`
}

// Skill is a fully parsed, directory-anchored skill.
type Skill struct {
	Name          string
	Description   string
	License       string
	Compatibility string
	Metadata      map[string]any
	AllowedTools  []string
	Body          string
	DirPath       string
}

// url resolves relativePath against the skill's directory, rejecting any
// result that escapes the directory root (spec §4.7 "Path safety").
func (s Skill) url(relativePath string) (string, error) {
	base, err := filepath.Abs(s.DirPath)
	if err != nil {
		return "", err
	}
	joined := filepath.Join(base, relativePath)
	resolved, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(base, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("skill: path %q escapes skill directory %q", relativePath, s.DirPath)
	}
	return resolved, nil
}

// SkillParser reads and validates a single SKILL.md anchored to a directory.
type SkillParser struct{}

// NewSkillParser constructs a SkillParser. It carries no state; the type
// exists so parsing can be mocked/extended the way the teacher's service
// constructors are, rather than being a bag of package-level functions.
func NewSkillParser() *SkillParser {
	return &SkillParser{}
}

// Parse reads dirPath/SKILL.md and returns the validated Skill.
func (p *SkillParser) Parse(dirPath string) (*Skill, error) {
	skillPath := filepath.Join(dirPath, "SKILL.md")

	raw, err := os.ReadFile(skillPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(ErrFileNotFound, "%s", skillPath)
		}
		return nil, fmt.Errorf("skill: read %s: %w", skillPath, err)
	}

	content := string(raw)
	if !strings.HasPrefix(content, frontmatterOpenDelim) {
		return nil, newError(ErrNoFrontmatterDelimiter, "%s must begin with %q", skillPath, frontmatterOpenDelim)
	}

	rest := content[len(frontmatterOpenDelim):]
	closeIdx := strings.Index(rest, frontmatterCloseMarker)
	if closeIdx < 0 {
		return nil, newError(ErrNoFrontmatterDelimiter, "%s has no closing frontmatter delimiter", skillPath)
	}

	yamlDoc := rest[:closeIdx]
	body := strings.TrimPrefix(rest[closeIdx+len(frontmatterCloseMarker):], "\n")

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(yamlDoc), &fm); err != nil {
		return nil, newError(ErrInvalidFrontmatterYAML, "%s: %v", skillPath, err)
	}

	dirName := filepath.Base(filepath.Clean(dirPath))
	if err := validateFrontmatter(fm, dirName, skillPath); err != nil {
		return nil, err
	}

	var allowedTools []string
	if strings.TrimSpace(fm.AllowedTools) != "" {
		allowedTools = strings.Fields(fm.AllowedTools)
	}

	return &Skill{
		Name:          fm.Name,
		Description:   fm.Description,
		License:       fm.License,
		Compatibility: fm.Compatibility,
		Metadata:      fm.Metadata,
		AllowedTools:  allowedTools,
		Body:          body,
		DirPath:       dirPath,
	}, nil
}

// SkillMetadata is the cheap listing projection of a skill (spec §4.7
// progressive disclosure: a caller can list name/description/dirURL/fileURL
// for every skill before committing to a full body read via Activate).
type SkillMetadata struct {
	Name        string
	Description string
	DirURL      string
	FileURL     string
}

// ParseMetadata reads only as far as the closing frontmatter delimiter of
// dirPath/SKILL.md, never parsing or retaining the Markdown body that
// follows it. Validation rules are identical to Parse.
func (p *SkillParser) ParseMetadata(dirPath string) (*SkillMetadata, error) {
	skillPath := filepath.Join(dirPath, "SKILL.md")

	f, err := os.Open(skillPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(ErrFileNotFound, "%s", skillPath)
		}
		return nil, fmt.Errorf("skill: open %s: %w", skillPath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() || scanner.Text() != strings.TrimSuffix(frontmatterOpenDelim, "\n") {
		return nil, newError(ErrNoFrontmatterDelimiter, "%s must begin with %q", skillPath, frontmatterOpenDelim)
	}

	var yamlLines []string
	closed := false
	for scanner.Scan() {
		if scanner.Text() == "---" {
			closed = true
			break
		}
		yamlLines = append(yamlLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("skill: read %s: %w", skillPath, err)
	}
	if !closed {
		return nil, newError(ErrNoFrontmatterDelimiter, "%s has no closing frontmatter delimiter", skillPath)
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &fm); err != nil {
		return nil, newError(ErrInvalidFrontmatterYAML, "%s: %v", skillPath, err)
	}

	dirName := filepath.Base(filepath.Clean(dirPath))
	if err := validateFrontmatter(fm, dirName, skillPath); err != nil {
		return nil, err
	}

	dirAbs, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, err
	}

	return &SkillMetadata{
		Name:        fm.Name,
		Description: fm.Description,
		DirURL:      dirAbs,
		FileURL:     filepath.Join(dirAbs, "SKILL.md"),
	}, nil
}

func validateFrontmatter(fm Frontmatter, dirName, skillPath string) error {
	if fm.Name == "" {
		return newError(ErrMissingRequiredField, "%s: frontmatter missing required field 'name'", skillPath)
	}
	if len(fm.Name) > maxNameLength || !nameRe.MatchString(fm.Name) {
		return newError(ErrInvalidName, "%s: name %q must be <=%d lowercase alphanumerics/hyphens, no leading/trailing/consecutive hyphens", skillPath, fm.Name, maxNameLength)
	}
	if fm.Name != dirName {
		return newError(ErrNameMismatch, "%s: frontmatter name %q does not match directory name %q", skillPath, fm.Name, dirName)
	}
	if fm.Description == "" {
		return newError(ErrMissingRequiredField, "%s: frontmatter missing required field 'description'", skillPath)
	}
	if len(fm.Description) > descriptionWarnLength {
		logging.L().Warn("skill description exceeds soft length limit", "file", skillPath, "length", len(fm.Description), "limit", descriptionWarnLength)
	}
	if len(fm.Compatibility) > compatibilityWarnLen {
		logging.L().Warn("skill compatibility exceeds soft length limit", "file", skillPath, "length", len(fm.Compatibility), "limit", compatibilityWarnLen)
	}
	return nil
}
