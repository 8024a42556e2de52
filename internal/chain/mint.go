package chain

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/ctxlog"
	"github.com/faas3/faas3-cli/internal/model"
)

// MintConfig names the Move entry function that records a function on
// chain.
type MintConfig struct {
	PackageID string
	Module    string
	Function  string
	GasBudget uint64
}

// Validate reports whether the config names a callable entry function.
func (c MintConfig) Validate() error {
	if c.PackageID == "" {
		return fmt.Errorf("%w: chain.package_id is not configured", apperr.ErrValidation)
	}
	if c.Module == "" || c.Function == "" {
		return fmt.Errorf("%w: chain.module and chain.function must be set", apperr.ErrValidation)
	}
	return nil
}

// MintResult identifies the object created by a mint transaction.
type MintResult struct {
	ObjectID string
	Digest   string
}

// Minter records function metadata on chain.
type Minter struct {
	rpc    RPC
	signer *Signer
	cfg    MintConfig
}

// NewMinter creates a minter signing with signer.
func NewMinter(rpc RPC, signer *Signer, cfg MintConfig) *Minter {
	return &Minter{rpc: rpc, signer: signer, cfg: cfg}
}

// Mint builds, signs and submits a move call embedding the record's name,
// description, url and content, then returns the created object.
func (m *Minter) Mint(ctx context.Context, rec *model.FunctionRecord) (*MintResult, error) {
	logger := ctxlog.FromContext(ctx)

	if rec == nil {
		return nil, fmt.Errorf("%w: nil function record", apperr.ErrValidation)
	}
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}

	var url string
	if rec.URL != nil {
		url = *rec.URL
	}

	txb, err := m.rpc.MoveCall(ctx, MoveCallRequest{
		Signer:    m.signer.Address(),
		PackageID: m.cfg.PackageID,
		Module:    m.cfg.Module,
		Function:  m.cfg.Function,
		Arguments: []any{rec.Name, rec.Description, url, rec.Content},
		GasBudget: m.cfg.GasBudget,
	})
	if err != nil {
		return nil, err
	}
	if txb.TxBytes == "" {
		return nil, fmt.Errorf("%w: %s returned no transaction bytes", apperr.ErrChain, MethodMoveCall)
	}

	raw, err := base64.StdEncoding.DecodeString(txb.TxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction bytes: %w", apperr.ErrDecode, err)
	}
	sig := m.signer.SignTransaction(raw)

	logger.Info("Submitting mint transaction.", "name", rec.Name, "signer", m.signer.Address())
	resp, err := m.rpc.ExecuteTransactionBlock(ctx, txb.TxBytes, []string{sig})
	if err != nil {
		return nil, err
	}

	res, err := createdObject(resp)
	if err != nil {
		return nil, err
	}
	logger.Info("Function minted.", "name", rec.Name, "object_id", res.ObjectID, "digest", res.Digest)
	return res, nil
}

func createdObject(resp *TransactionBlockResponse) (*MintResult, error) {
	if resp.Effects == nil {
		return nil, fmt.Errorf("%w: transaction %s: response has no effects", apperr.ErrChain, resp.Digest)
	}
	if s := resp.Effects.Status; s.Status != "success" {
		return nil, fmt.Errorf("%w: transaction %s failed: %s %s", apperr.ErrChain, resp.Digest, s.Status, s.Error)
	}
	if len(resp.Effects.Created) == 0 || resp.Effects.Created[0].Reference.ObjectID == "" {
		return nil, fmt.Errorf("%w: transaction %s created no object", apperr.ErrChain, resp.Digest)
	}
	return &MintResult{
		ObjectID: resp.Effects.Created[0].Reference.ObjectID,
		Digest:   resp.Digest,
	}, nil
}
