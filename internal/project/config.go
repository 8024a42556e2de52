package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/model"
	"github.com/pelletier/go-toml"
)

// ConfigFile is the name of the per-project configuration file.
const ConfigFile = "config.toml"

// DefaultVersion is written into newly created projects.
const DefaultVersion = "0.0.1"

var requiredKeys = []string{
	"basic.template",
	"basic.version",
	"basic.name",
	"basic.description",
	"basic.owner",
}

// Load reads and parses the config file at path.
func Load(path string) (*model.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", apperr.ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", apperr.ErrFileSystem, path, err)
	}
	return Parse(path, data)
}

// LoadDir reads config.toml from a project directory.
func LoadDir(dir string) (*model.ProjectConfig, error) {
	return Load(filepath.Join(dir, ConfigFile))
}

// Parse decodes config.toml content. Every key of the [basic] table must be
// present with a string value; description may be empty.
func Parse(name string, data []byte) (*model.ProjectConfig, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrParse, name, err)
	}

	var missing []string
	for _, key := range requiredKeys {
		if !tree.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: missing required keys %v", apperr.ErrParse, name, missing)
	}

	cfg := &model.ProjectConfig{}
	if err := tree.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrParse, name, err)
	}
	return cfg, nil
}

// SourceFile resolves the handler source path for a loaded config. An
// unknown template is rejected before anything is read from disk.
func SourceFile(dir string, cfg *model.ProjectConfig) (string, error) {
	tpl, err := model.ParseTemplate(cfg.Basic.Template)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", apperr.ErrValidation, ConfigFile, err)
	}
	return filepath.Join(dir, tpl.MainFile()), nil
}

// ReadSource returns the exact bytes of the project's handler source. The
// source must be valid UTF-8 so it survives the JSON upload unchanged.
func ReadSource(dir string, cfg *model.ProjectConfig) ([]byte, error) {
	path, err := SourceFile(dir, cfg)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", apperr.ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", apperr.ErrFileSystem, path, err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", apperr.ErrParse, path)
	}
	return content, nil
}

// renderConfig produces config.toml for a new project. An empty owner is
// written as an empty string with a prompt comment above it.
func renderConfig(name string, tpl model.Template, owner string) ([]byte, error) {
	tree, err := toml.TreeFromMap(map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	tree.Set("basic.template", string(tpl))
	tree.Set("basic.version", DefaultVersion)
	tree.SetWithComment("basic.name", "your function name, it's unique.", false, name)
	tree.Set("basic.description", "")
	if owner == "" {
		tree.SetWithComment("basic.owner", "set this to your Sui address before deploying", false, "")
	} else {
		tree.SetWithComment("basic.owner", "your Sui address", false, owner)
	}

	out, err := tree.ToTomlString()
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
