package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/faasapi"
	"github.com/faas3/faas3-cli/internal/model"
	"github.com/faas3/faas3-cli/internal/project"
	"github.com/faas3/faas3-cli/internal/settings"
	"github.com/faas3/faas3-cli/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAppTest creates an App wired to the given fake endpoints. The log
// output is dumped when FAAS3_TEST_LOGS=true.
func setupAppTest(t *testing.T, mutate func(s *settings.Settings)) (*App, *testutil.SafeBuffer) {
	t.Helper()

	s := settings.Default(t.TempDir())
	s.Log.Level = "debug"
	if mutate != nil {
		mutate(s)
	}
	cfg, err := NewConfig(Config{Settings: s})
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	a := NewApp(logBuffer, cfg)

	t.Cleanup(func() {
		require.NoError(t, a.Close())
		if os.Getenv("FAAS3_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return a, logBuffer
}

func TestNewConfig_RejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.ErrorIs(t, err, apperr.ErrValidation)

	s := settings.Default("/home/x")
	s.API.BaseURL = "not a url"
	_, err = NewConfig(Config{Settings: s})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateDeployInfo_EndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.NewFaaSServer(t)
	a, logs := setupAppTest(t, func(s *settings.Settings) { s.API.BaseURL = srv.URL })
	ctx := context.Background()
	parent := t.TempDir()

	created, err := a.Create(ctx, project.CreateOptions{Parent: parent, Name: "foo", Template: "deno", Owner: "0x5d"})
	require.NoError(t, err)

	mainPath := filepath.Join(created.Dir, "main.ts")
	original, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	require.Contains(t, string(original), "cowsay")
	edited := string(original) + "// edited\n"
	require.NoError(t, os.WriteFile(mainPath, []byte(edited), 0o644))

	// --- Act ---
	dep, err := a.Deploy(ctx, DeployOptions{Dir: created.Dir})
	require.NoError(t, err)
	rec, err := a.Info(ctx, "foo")

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, dep.Result.Succeeded())
	assert.Nil(t, dep.Mint)
	assert.Equal(t, "foo", rec.Name)
	assert.Equal(t, "deno", rec.Template)
	assert.Equal(t, "0x5d", rec.Owner)
	assert.Equal(t, edited, rec.Content)
	assert.Empty(t, rec.ObjectID)
	assert.Contains(t, logs.String(), "Deploying function.")
}

func TestDeploy_RoundTripMatchesLocalRecord(t *testing.T) {
	t.Parallel()

	srv := testutil.NewFaaSServer(t)
	a, _ := setupAppTest(t, func(s *settings.Settings) { s.API.BaseURL = srv.URL })
	created, err := a.Create(context.Background(), project.CreateOptions{Parent: t.TempDir(), Name: "bar", Template: "node", Owner: "0xabc"})
	require.NoError(t, err)

	dep, err := a.Deploy(context.Background(), DeployOptions{Dir: created.Dir})
	require.NoError(t, err)
	got, err := a.Info(context.Background(), "bar")
	require.NoError(t, err)

	if diff := cmp.Diff(dep.Record, got); diff != "" {
		t.Errorf("round trip mismatch (-deployed +fetched):\n%s", diff)
	}
}

func TestDeploy_Failures(t *testing.T) {
	t.Parallel()

	t.Run("service error", func(t *testing.T) {
		t.Parallel()
		srv := testutil.NewFaaSServer(t)
		srv.FailDeploys(&model.DeployError{Code: "23505", Message: "duplicate key value"})
		a, _ := setupAppTest(t, func(s *settings.Settings) { s.API.BaseURL = srv.URL })
		created, err := a.Create(context.Background(), project.CreateOptions{Parent: t.TempDir(), Name: "dup", Template: "deno"})
		require.NoError(t, err)

		dep, err := a.Deploy(context.Background(), DeployOptions{Dir: created.Dir})

		require.ErrorIs(t, err, apperr.ErrRemote)
		assert.Contains(t, err.Error(), "duplicate key value")
		require.NotNil(t, dep.Result)
		assert.Equal(t, "23505", dep.Result.Error.Code)
	})

	t.Run("missing config", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAppTest(t, nil)
		_, err := a.Deploy(context.Background(), DeployOptions{Dir: t.TempDir()})
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		cfg := "[basic]\ntemplate = \"python\"\nversion = \"0.0.1\"\nname = \"p\"\ndescription = \"d\"\nowner = \"\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, project.ConfigFile), []byte(cfg), 0o644))
		a, _ := setupAppTest(t, nil)

		_, err := a.Deploy(context.Background(), DeployOptions{Dir: dir})

		require.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("source that is not utf-8", func(t *testing.T) {
		t.Parallel()
		srv := testutil.NewFaaSServer(t)
		a, _ := setupAppTest(t, func(s *settings.Settings) { s.API.BaseURL = srv.URL })
		created, err := a.Create(context.Background(), project.CreateOptions{Parent: t.TempDir(), Name: "bin", Template: "deno"})
		require.NoError(t, err)
		main := filepath.Join(created.Dir, "main.ts")
		require.NoError(t, os.WriteFile(main, []byte("const s = \"\xff\xfe\";\n"), 0o644))

		_, err = a.Deploy(context.Background(), DeployOptions{Dir: created.Dir})

		require.ErrorIs(t, err, apperr.ErrParse)
		assert.Empty(t, srv.Functions())
	})

	t.Run("mint without package id", func(t *testing.T) {
		t.Parallel()
		srv := testutil.NewFaaSServer(t)
		a, _ := setupAppTest(t, func(s *settings.Settings) { s.API.BaseURL = srv.URL })
		created, err := a.Create(context.Background(), project.CreateOptions{Parent: t.TempDir(), Name: "m", Template: "deno"})
		require.NoError(t, err)

		_, err = a.Deploy(context.Background(), DeployOptions{Dir: created.Dir, Mint: true})

		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Empty(t, srv.Functions())
	})
}

func TestDeployWithMint_ThenVerify(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := testutil.NewFaaSServer(t)
	node := testutil.NewSuiNode(t)
	seed := testutil.TestSeed(42)
	owner := testutil.SuiAddress(seed)
	keystore := testutil.WriteKeystore(t, testutil.TestSeed(1), seed)
	a, logs := setupAppTest(t, func(s *settings.Settings) {
		s.API.BaseURL = srv.URL
		s.Chain.RPCURL = node.URL
		s.Chain.PackageID = "0x2"
		s.Chain.Keystore = keystore
	})
	created, err := a.Create(context.Background(), project.CreateOptions{Parent: t.TempDir(), Name: "minted", Template: "deno", Owner: owner})
	require.NoError(t, err)

	// --- Act ---
	dep, err := a.Deploy(context.Background(), DeployOptions{Dir: created.Dir, Mint: true})
	require.NoError(t, err)
	ver, verr := a.Verify(context.Background(), "minted")

	// --- Assert ---
	require.NoError(t, verr)
	require.NotNil(t, dep.Mint)
	assert.Equal(t, dep.Mint.ObjectID, dep.Record.ObjectID)
	require.NotNil(t, dep.Record.TxnHash)
	assert.Equal(t, dep.Mint.Digest, *dep.Record.TxnHash)
	assert.Equal(t, "minted", ver.Object.Name)
	assert.Equal(t, ver.Record.Content, *ver.Object.Content)
	assert.Equal(t, 1, node.Executed())
	assert.Contains(t, logs.String(), "Signer selected.")
	assert.Contains(t, logs.String(), "keys=2")
}

func TestVerify_DetectsTamperedRuntimeContent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	node := testutil.NewSuiNode(t)
	content := "export default () => 1\n"
	node.PutObject("0x10", testutil.SuiObject{
		Type:   "0x2::faas_nft::FunctionNFT",
		Fields: map[string]any{"name": "f", "description": "", "url": "", "content": content},
	})
	srv := testutil.NewFaaSServer(t, model.FunctionRecord{
		Name:     "f",
		Content:  strings.Replace(content, "1", "2", 1),
		ObjectID: "0x10",
		Template: "deno",
	})
	a, _ := setupAppTest(t, func(s *settings.Settings) {
		s.API.BaseURL = srv.URL
		s.Chain.RPCURL = node.URL
	})

	// --- Act ---
	ver, err := a.Verify(context.Background(), "f")

	// --- Assert ---
	require.ErrorIs(t, err, apperr.ErrAssertion)
	require.NotNil(t, ver)
	assert.Equal(t, content, *ver.Object.Content)
}

func TestVerify_NotMintedIsChainError(t *testing.T) {
	t.Parallel()

	srv := testutil.NewFaaSServer(t, model.FunctionRecord{Name: "plain", Content: "x", Template: "node"})
	a, _ := setupAppTest(t, func(s *settings.Settings) { s.API.BaseURL = srv.URL })

	ver, err := a.Verify(context.Background(), "plain")

	require.ErrorIs(t, err, apperr.ErrChain)
	assert.Contains(t, err.Error(), `"plain" was never minted`)
	assert.Nil(t, ver)
}

func TestListAndCall(t *testing.T) {
	t.Parallel()

	srv := testutil.NewFaaSServer(t,
		model.FunctionRecord{Name: "a", Owner: "0x1", Template: "deno"},
		model.FunctionRecord{Name: "b", Owner: "0x2", Template: "deno"},
	)
	a, _ := setupAppTest(t, func(s *settings.Settings) { s.API.BaseURL = srv.URL })

	recs, err := a.List(context.Background(), faasapi.ListOptions{Owner: "0x2"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].Name)

	res, err := a.Call(context.Background(), "b", "ping")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"function": "b", "input": "ping"}, res.Value)
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level     string
		format    string
		wantDebug bool
		wantWarn  bool
		wantJSON  bool
	}{
		{level: "debug", format: "text", wantDebug: true, wantWarn: true},
		{level: "warn", format: "json", wantWarn: true, wantJSON: true},
		{level: "error", format: "text"},
		{level: "bogus", format: "text", wantWarn: true},
	}

	for _, tc := range testCases {
		t.Run(tc.level+"/"+tc.format, func(t *testing.T) {
			t.Parallel()
			buf := &testutil.SafeBuffer{}
			l := newLogger(tc.level, tc.format, buf)

			l.Debug("debug-line")
			l.Warn("warn-line")

			out := buf.String()
			assert.Equal(t, tc.wantDebug, strings.Contains(out, "debug-line"))
			assert.Equal(t, tc.wantWarn, strings.Contains(out, "warn-line"))
			if tc.wantJSON {
				assert.True(t, strings.HasPrefix(out, "{"))
			}
		})
	}
}
