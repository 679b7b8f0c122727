// Package template loads bootstrap templates: small files describing how a
// fresh repository should be initialized.
//
// Templates are JSONC (JSON with comments, parsed with
// github.com/tidwall/jsonc) or YAML (gopkg.in/yaml.v3), chosen by file
// extension. Example:
//
//	// .gitrepo-template.jsonc
//	{
//	  "defaultBranch": "trunk",
//	  "userEmail": "dev@example.com",
//	  "config": { "pull.rebase": "true" }, // trailing commas are fine
//	}
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/gitrepo/internal/model"
)

// Template is the parsed content of a bootstrap template file.
type Template struct {
	// DefaultBranch is the initial branch name.
	DefaultBranch string `json:"defaultBranch,omitempty" yaml:"defaultBranch,omitempty"`

	// UserEmail is written to user.email when non-empty.
	UserEmail string `json:"userEmail,omitempty" yaml:"userEmail,omitempty"`

	// Config maps git config keys to values.
	Config map[string]string `json:"config,omitempty" yaml:"config,omitempty"`
}

// Load reads and validates the template at path.
//
// Files ending in .yaml or .yml are parsed as YAML; everything else is
// parsed as JSONC. A missing file is reported as a CLIError.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("template not found: %s", path), err)
		}
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	tmpl, err := Parse(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return tmpl, nil
}

// Parse decodes template data. yamlFormat selects YAML over JSONC.
func Parse(data []byte, yamlFormat bool) (*Template, error) {
	var tmpl Template
	if yamlFormat {
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return nil, err
		}
	} else {
		// Strip comments and trailing commas before handing off to encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), &tmpl); err != nil {
			return nil, err
		}
	}

	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Validate rejects blank config keys and branch names made only of
// whitespace.
func (t *Template) Validate() error {
	if t.DefaultBranch != "" && strings.TrimSpace(t.DefaultBranch) == "" {
		return fmt.Errorf("defaultBranch must not be blank")
	}
	for key := range t.Config {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("config keys must not be empty")
		}
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
