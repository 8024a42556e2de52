package app

import (
	"context"
	"fmt"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/chain"
	"github.com/faas3/faas3-cli/internal/faasapi"
	"github.com/faas3/faas3-cli/internal/model"
	"github.com/faas3/faas3-cli/internal/project"
)

// Create scaffolds a new function project.
func (a *App) Create(ctx context.Context, opts project.CreateOptions) (*project.Created, error) {
	return project.Create(a.withLogger(ctx), opts)
}

// DeployOptions selects the project to deploy.
type DeployOptions struct {
	// Dir is the project directory. Empty means the working directory.
	Dir string
	// Mint records the function on chain before uploading it.
	Mint bool
}

// Deployment is everything a deploy produced. Fields are filled in as far as
// the deploy got, so a failed deploy still reports the record it built.
type Deployment struct {
	Record *model.FunctionRecord
	Mint   *chain.MintResult
	Result *model.DeployResult
}

// Deploy reads the project config and source, optionally mints the record,
// and uploads it. A result carrying a service error is returned together
// with an apperr.ErrRemote error.
func (a *App) Deploy(ctx context.Context, opts DeployOptions) (*Deployment, error) {
	ctx = a.withLogger(ctx)

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	cfg, err := project.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	content, err := project.ReadSource(dir, cfg)
	if err != nil {
		return nil, err
	}

	out := &Deployment{Record: model.NewFunctionRecord(cfg, content)}
	a.logger.Info("Deploying function.", "name", out.Record.Name, "template", out.Record.Template, "bytes", len(content), "mint", opts.Mint)

	if opts.Mint {
		res, err := a.Mint(ctx, out.Record)
		if err != nil {
			return out, err
		}
		out.Mint = res
		out.Record.ObjectID = res.ObjectID
		digest := res.Digest
		out.Record.TxnHash = &digest
	}

	result, err := a.api.Deploy(ctx, out.Record)
	if err != nil {
		return out, err
	}
	out.Result = result

	if !result.Succeeded() {
		if result.Error != nil {
			return out, fmt.Errorf("%w: deploy %q: %w", apperr.ErrRemote, out.Record.Name, result.Error)
		}
		return out, fmt.Errorf("%w: deploy %q: status %d", apperr.ErrRemote, out.Record.Name, result.Status)
	}
	return out, nil
}

// Call invokes a deployed function with body sent verbatim as a JSON string.
func (a *App) Call(ctx context.Context, name, body string) (*faasapi.CallResult, error) {
	return a.api.Call(a.withLogger(ctx), name, body)
}

// List returns the registered functions matching opts.
func (a *App) List(ctx context.Context, opts faasapi.ListOptions) ([]model.FunctionRecord, error) {
	return a.api.List(a.withLogger(ctx), opts)
}

// Info returns the registry record for name.
func (a *App) Info(ctx context.Context, name string) (*model.FunctionRecord, error) {
	return a.api.Info(a.withLogger(ctx), name)
}

// Verification pairs a registry record with its on-chain object.
type Verification struct {
	Record *model.FunctionRecord
	Object *chain.FunctionObject
}

// Verify checks that the content the registry serves for name equals the
// content stored in its on-chain object. On a content mismatch the returned
// Verification is populated along with an apperr.ErrAssertion error.
func (a *App) Verify(ctx context.Context, name string) (*Verification, error) {
	ctx = a.withLogger(ctx)

	rec, err := a.api.Info(ctx, name)
	if err != nil {
		return nil, err
	}

	v := chain.NewVerifier(a.chainRPC(), a.settings.Chain.PackageID)
	obj, err := v.Verify(ctx, rec)
	if obj == nil && err != nil {
		return nil, err
	}
	return &Verification{Record: rec, Object: obj}, err
}

// Mint records rec on chain, signing with the keystore entry for rec.Owner.
func (a *App) Mint(ctx context.Context, rec *model.FunctionRecord) (*chain.MintResult, error) {
	ctx = a.withLogger(ctx)

	cc := a.settings.Chain
	mcfg := chain.MintConfig{
		PackageID: cc.PackageID,
		Module:    cc.Module,
		Function:  cc.Function,
		GasBudget: cc.GasBudget,
	}
	if err := mcfg.Validate(); err != nil {
		return nil, err
	}

	ks, err := chain.LoadKeystore(cc.Keystore)
	if err != nil {
		return nil, err
	}
	signer, err := ks.Signer(rec.Owner)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Signer selected.", "keystore", cc.Keystore, "keys", ks.Len(), "address", signer.Address())

	return chain.NewMinter(a.chainRPC(), signer, mcfg).Mint(ctx, rec)
}
