package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/model"
	"github.com/faas3/faas3-cli/internal/settings"
	"github.com/faas3/faas3-cli/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	Out   string
	Err   string
	Error error
}

// runCLI executes the command tree against env, with an empty home
// directory so no user settings leak in.
func runCLI(t *testing.T, env map[string]string, args ...string) cliResult {
	t.Helper()

	out, errOut := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	err := Execute(context.Background(), args, Options{
		Out:  out,
		Err:  errOut,
		Home: t.TempDir(),
		Lookup: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		Version: "1.2.3-test",
	})
	return cliResult{Out: out.String(), Err: errOut.String(), Error: err}
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T", err)
	return exitErr.Code
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"--this-is-not-a-valid-flag"}, wantMsg: "unknown flag"},
		{name: "unknown command", args: []string{"explode"}, wantMsg: "unknown command"},
		{name: "bad log level", args: []string{"--log-level", "trace", "run"}, wantMsg: "invalid log-level"},
		{name: "bad log format", args: []string{"--log-format", "xml", "run"}, wantMsg: "invalid log-format"},
		{name: "create without template", args: []string{"create", "foo"}, wantMsg: "required flag"},
		{name: "create with unknown template", args: []string{"create", "foo", "-t", "python", "--dir", os.TempDir()}, wantMsg: "unsupported template"},
		{name: "info without name", args: []string{"info"}, wantMsg: "accepts 1 arg"},
		{name: "call without body", args: []string{"call", "hello"}, wantMsg: "required flag"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			res := runCLI(t, nil, tc.args...)

			// --- Assert ---
			require.Error(t, res.Error)
			assert.Equal(t, 2, exitCode(t, res.Error))
			assert.Contains(t, res.Error.Error(), tc.wantMsg)
		})
	}
}

func TestHelpAndVersion(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil)
	require.NoError(t, res.Error)
	assert.Contains(t, res.Out, "Usage:")
	for _, sub := range []string{"create", "deploy", "run", "call", "list", "info", "verify"} {
		assert.Contains(t, res.Out, sub)
	}

	res = runCLI(t, nil, "--version")
	require.NoError(t, res.Error)
	assert.Contains(t, res.Out, "1.2.3-test")
}

func TestRun_PrintsNotice(t *testing.T) {
	t.Parallel()

	res := runCLI(t, nil, "run")

	require.NoError(t, res.Error)
	assert.Equal(t, "This command is still WIP\n", res.Out)
}

func TestCreateDeployInfoCall(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.NewFaaSServer(t)
	env := map[string]string{settings.EnvAPIURL: srv.URL}
	parent := t.TempDir()

	// --- Act & Assert: create ---
	res := runCLI(t, env, "create", "foo", "--template", "deno", "--owner", "0x5d", "--dir", parent)
	require.NoError(t, res.Error)
	assert.Contains(t, res.Out, "Created deno project")
	projectDir := filepath.Join(parent, "foo")
	for _, f := range []string{"config.toml", "main.ts", "test.ts"} {
		assert.FileExists(t, filepath.Join(projectDir, f))
	}

	// --- deploy ---
	res = runCLI(t, env, "deploy", "--dir", projectDir)
	require.NoError(t, res.Error)
	assert.Contains(t, res.Out, `Deploying function "foo"`)
	assert.Contains(t, res.Out, "Deployed, status 201")

	// --- info ---
	source, err := os.ReadFile(filepath.Join(projectDir, "main.ts"))
	require.NoError(t, err)
	res = runCLI(t, env, "info", "foo", "--content")
	require.NoError(t, res.Error)
	assert.Equal(t, string(source), res.Out)

	res = runCLI(t, env, "info", "foo")
	require.NoError(t, res.Error)
	jsonStart := strings.Index(res.Out, "{")
	require.GreaterOrEqual(t, jsonStart, 0)
	var rec model.FunctionRecord
	require.NoError(t, json.Unmarshal([]byte(res.Out[jsonStart:]), &rec))
	assert.Equal(t, "foo", rec.Name)
	assert.Equal(t, "0x5d", rec.Owner)

	// --- call ---
	res = runCLI(t, env, "call", "foo", "-b", `{"name":"faas3"}`)
	require.NoError(t, res.Error)
	assert.Contains(t, res.Out, "Your resp is:")
	assert.Contains(t, res.Out, `"function": "foo"`)
}

func TestDeploy_ServiceErrorExitsNonZero(t *testing.T) {
	t.Parallel()

	srv := testutil.NewFaaSServer(t)
	srv.FailDeploys(&model.DeployError{Code: "23505", Message: "duplicate key value", Details: "Key (name)=(foo) already exists."})
	env := map[string]string{settings.EnvAPIURL: srv.URL}
	parent := t.TempDir()
	require.NoError(t, runCLI(t, env, "create", "foo", "-t", "node", "--dir", parent).Error)

	res := runCLI(t, env, "deploy", "--dir", filepath.Join(parent, "foo"))

	require.Error(t, res.Error)
	assert.Equal(t, 1, exitCode(t, res.Error))
	assert.Contains(t, res.Out, "Deploy failed, status 409")
	assert.Contains(t, res.Out, "duplicate key value (code 23505)")
}

func TestCreate_ExistingDirectoryIsUsageError(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(parent, "taken"), 0o755))

	res := runCLI(t, nil, "create", "taken", "-t", "deno", "--dir", parent)

	require.Error(t, res.Error)
	assert.Equal(t, 2, exitCode(t, res.Error))
}

func TestList(t *testing.T) {
	t.Parallel()

	srv := testutil.NewFaaSServer(t,
		model.FunctionRecord{Name: "alpha", Owner: "0x1", Template: "deno"},
		model.FunctionRecord{Name: "beta", Owner: "0x2", Template: "node"},
		model.FunctionRecord{Name: "gamma", Owner: "0x1", Template: "node"},
	)
	env := map[string]string{settings.EnvAPIURL: srv.URL}

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		res := runCLI(t, env, "list", "--owner", "0x1")
		require.NoError(t, res.Error)

		lines := strings.Split(strings.TrimSpace(res.Out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "NAME"))
		assert.True(t, strings.HasPrefix(lines[1], "alpha"))
		assert.True(t, strings.HasPrefix(lines[2], "gamma"))
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		res := runCLI(t, env, "list", "-o", "0x1", "-t", "node", "--json")
		require.NoError(t, res.Error)

		var recs []model.FunctionRecord
		require.NoError(t, json.Unmarshal([]byte(res.Out), &recs))
		require.Len(t, recs, 1)
		assert.Equal(t, "gamma", recs[0].Name)
	})

	t.Run("api url flag beats environment", func(t *testing.T) {
		t.Parallel()
		res := runCLI(t, map[string]string{settings.EnvAPIURL: "http://127.0.0.1:1"}, "list", "--api-url", srv.URL)
		require.NoError(t, res.Error)
		assert.Contains(t, res.Out, "beta")
	})
}

func TestRemoteFailuresExitWithOne(t *testing.T) {
	t.Parallel()

	srv := testutil.NewFaaSServer(t)
	srv.FailAll(http.StatusServiceUnavailable)
	env := map[string]string{settings.EnvAPIURL: srv.URL}

	res := runCLI(t, env, "list")

	require.Error(t, res.Error)
	assert.Equal(t, 1, exitCode(t, res.Error))
	assert.Contains(t, res.Error.Error(), "503")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	node := testutil.NewSuiNode(t)
	content := "export default () => 'hi'\n"
	node.PutObject("0x1", testutil.SuiObject{
		Type:   "0x2::faas_nft::FunctionNFT",
		Fields: map[string]any{"name": "good", "description": "on chain", "url": "https://faas3.deno.dev", "content": content},
	})
	srv := testutil.NewFaaSServer(t,
		model.FunctionRecord{Name: "good", Content: content, ObjectID: "0x1", Template: "deno"},
		model.FunctionRecord{Name: "bad", Content: content + " ", ObjectID: "0x1", Template: "deno"},
	)
	env := map[string]string{
		settings.EnvAPIURL:    srv.URL,
		settings.EnvRPCURL:    node.URL,
		settings.EnvPackageID: "0x2",
	}

	t.Run("match", func(t *testing.T) {
		t.Parallel()
		res := runCLI(t, env, "verify", "good")
		require.NoError(t, res.Error)
		assert.Contains(t, res.Out, "description: on chain")
		assert.Contains(t, res.Out, "url:         https://faas3.deno.dev")
		assert.Contains(t, res.Out, "matches the on-chain code")
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()
		res := runCLI(t, env, "verify", "bad")
		require.Error(t, res.Error)
		assert.Equal(t, 1, exitCode(t, res.Error))
		assert.Contains(t, res.Out, "differs from the on-chain code")
		assert.Contains(t, res.Err, "On-chain content does not match")
	})
}

func TestSettingsFileIsHonoured(t *testing.T) {
	t.Parallel()

	srv := testutil.NewFaaSServer(t, model.FunctionRecord{Name: "from-file", Template: "deno"})
	path := filepath.Join(t.TempDir(), "settings.hcl")
	content := fmt.Sprintf("api {\n  base_url = %q\n}\nlog {\n  level = \"debug\"\n}\n", srv.URL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	res := runCLI(t, nil, "--settings", path, "list")

	require.NoError(t, res.Error)
	assert.Contains(t, res.Out, "from-file")
	assert.Contains(t, res.Err, "Settings resolved.")
	assert.Contains(t, res.Err, "api="+srv.URL)
}

func TestToExitError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, toExitError(nil))
	assert.Equal(t, 2, toExitError(fmt.Errorf("%w: bad", apperr.ErrValidation)).(*ExitError).Code)
	assert.Equal(t, 1, toExitError(fmt.Errorf("%w: down", apperr.ErrNetwork)).(*ExitError).Code)
	orig := &ExitError{Code: 7, Message: "x"}
	assert.Same(t, orig, toExitError(fmt.Errorf("wrapped: %w", orig)))
}
