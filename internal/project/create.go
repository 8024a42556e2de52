package project

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/ctxlog"
	"github.com/faas3/faas3-cli/internal/model"
)

//go:embed templates
var templates embed.FS

// CreateOptions describes a project to scaffold.
type CreateOptions struct {
	// Parent is the directory the project directory is created in. Empty
	// means the working directory.
	Parent   string
	Name     string
	Template string
	// Owner is written to config.toml. Empty leaves a prompt comment.
	Owner string
}

// Created lists what Create wrote to disk.
type Created struct {
	Dir      string
	Files    []string
	Template model.Template
}

// Create scaffolds a new function project: a directory named after the
// function holding config.toml, the handler source and a test harness. The
// template is validated before the file system is touched. A directory left
// behind by a failed write is not removed.
func Create(ctx context.Context, opts CreateOptions) (*Created, error) {
	logger := ctxlog.FromContext(ctx)

	tpl, err := model.ParseTemplate(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}
	if err := validateName(opts.Name); err != nil {
		return nil, err
	}

	dir := filepath.Join(opts.Parent, opts.Name)
	logger.Debug("Creating project directory.", "dir", dir, "template", tpl)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: directory %s: %w", apperr.ErrAlreadyExists, dir, err)
		}
		return nil, fmt.Errorf("%w: creating %s: %w", apperr.ErrFileSystem, dir, err)
	}

	conf, err := renderConfig(opts.Name, tpl, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering %s: %w", apperr.ErrFileSystem, ConfigFile, err)
	}

	mainSrc, err := templates.ReadFile(path.Join("templates", string(tpl), tpl.MainFile()))
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %w", apperr.ErrFileSystem, tpl, err)
	}
	testSrc, err := templates.ReadFile(path.Join("templates", string(tpl), tpl.TestFile()))
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %w", apperr.ErrFileSystem, tpl, err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{ConfigFile, conf},
		{tpl.MainFile(), mainSrc},
		{tpl.TestFile(), testSrc},
	}

	created := &Created{Dir: dir, Template: tpl}
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if err := os.WriteFile(p, f.data, 0o644); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %w", apperr.ErrFileSystem, p, err)
		}
		created.Files = append(created.Files, p)
		logger.Debug("Wrote project file.", "path", p, "bytes", len(f.data))
	}

	logger.Info("Project created.", "dir", dir, "template", tpl, "owner_set", opts.Owner != "")
	return created, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: function name must not be empty", apperr.ErrValidation)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: function name %q must be a single directory name", apperr.ErrValidation, name)
	}
	return nil
}
