package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/ctxlog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// DirName is the per-user directory holding the settings file.
const DirName = ".faas3"

// FileName is the settings file inside DirName.
const FileName = "settings.hcl"

// fileRoot is the set of blocks accepted in a settings file.
type fileRoot struct {
	API   *apiBlock   `hcl:"api,block"`
	Chain *chainBlock `hcl:"chain,block"`
	Log   *logBlock   `hcl:"log,block"`
}

type apiBlock struct {
	BaseURL string `hcl:"base_url,optional"`
	Timeout string `hcl:"timeout,optional"`
}

type chainBlock struct {
	RPCURL    string  `hcl:"rpc_url,optional"`
	PackageID string  `hcl:"package_id,optional"`
	Module    string  `hcl:"module,optional"`
	Function  string  `hcl:"function,optional"`
	GasBudget *uint64 `hcl:"gas_budget,optional"`
	Keystore  string  `hcl:"keystore,optional"`
}

type logBlock struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// Loader resolves Settings from defaults, an HCL file and the environment.
type Loader struct {
	home   string
	lookup func(string) (string, bool)
}

// NewLoader creates a loader rooted at the given home directory. lookup
// defaults to os.LookupEnv when nil.
func NewLoader(home string, lookup func(string) (string, bool)) *Loader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Loader{home: home, lookup: lookup}
}

// DefaultPath is the settings file used when none is given explicitly.
func (l *Loader) DefaultPath() string {
	return filepath.Join(l.home, DirName, FileName)
}

// Load builds Settings. An empty path means DefaultPath, which may be
// absent; an explicitly named file must exist.
func (l *Loader) Load(ctx context.Context, path string) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)

	explicit := path != ""
	if !explicit {
		path = l.DefaultPath()
	}

	s := Default(l.home)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := l.decodeFile(path, s); err != nil {
			return nil, err
		}
		logger.Debug("Settings file loaded.", "path", path)
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logger.Debug("No settings file found, using defaults.", "path", path)
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: settings file %s: %w", apperr.ErrNotFound, path, err)
	default:
		return nil, fmt.Errorf("%w: settings file %s: %w", apperr.ErrFileSystem, path, err)
	}

	s.ApplyEnv(l.lookup)
	return s, nil
}

func (l *Loader) decodeFile(path string, s *Settings) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("%w: failed to parse settings file %s: %w", apperr.ErrParse, path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &root)
	if diags.HasErrors() {
		return fmt.Errorf("%w: failed to decode settings file %s: %w", apperr.ErrParse, path, diags)
	}

	return root.mergeInto(s)
}

// evalContext exposes the user's home directory and a few functions to
// settings expressions, e.g. keystore = "${home}/keys/sui.keystore".
func (l *Loader) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"home": cty.StringVal(l.home),
		},
		Functions: map[string]function.Function{
			"env":      l.envFunc(),
			"coalesce": stdlib.CoalesceFunc,
			"lower":    stdlib.LowerFunc,
		},
	}
}

// envFunc returns the value of an environment variable, or null when unset
// so that it composes with coalesce.
func (l *Loader) envFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			v, ok := l.lookup(args[0].AsString())
			if !ok {
				return cty.NullVal(cty.String), nil
			}
			return cty.StringVal(v), nil
		},
	})
}

func (r *fileRoot) mergeInto(s *Settings) error {
	if r.API != nil {
		setIf(&s.API.BaseURL, r.API.BaseURL)
		if r.API.Timeout != "" {
			d, err := time.ParseDuration(r.API.Timeout)
			if err != nil {
				return fmt.Errorf("%w: api.timeout: %w", apperr.ErrParse, err)
			}
			s.API.Timeout = d
		}
	}
	if r.Chain != nil {
		setIf(&s.Chain.RPCURL, r.Chain.RPCURL)
		setIf(&s.Chain.PackageID, r.Chain.PackageID)
		setIf(&s.Chain.Module, r.Chain.Module)
		setIf(&s.Chain.Function, r.Chain.Function)
		setIf(&s.Chain.Keystore, r.Chain.Keystore)
		if r.Chain.GasBudget != nil {
			s.Chain.GasBudget = *r.Chain.GasBudget
		}
	}
	if r.Log != nil {
		setIf(&s.Log.Level, r.Log.Level)
		setIf(&s.Log.Format, r.Log.Format)
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func defaultKeystore(home string) string {
	return filepath.Join(home, ".sui", "sui_config", "sui.keystore")
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("%w: %s: %w", apperr.ErrParse, p, err)
		}
	}
	return nil
}
