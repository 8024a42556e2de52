package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/ctxlog"
	"github.com/faas3/faas3-cli/internal/model"
)

// Verifier checks registry records against their on-chain objects.
type Verifier struct {
	rpc RPC
	// packageID, when set, is the package the object type must belong to.
	packageID string
}

// NewVerifier creates a verifier. An empty packageID accepts any Move
// object carrying the function fields.
func NewVerifier(rpc RPC, packageID string) *Verifier {
	return &Verifier{rpc: rpc, packageID: packageID}
}

// Fetch reads and decodes the on-chain object referenced by objectID.
func (v *Verifier) Fetch(ctx context.Context, objectID string) (*FunctionObject, error) {
	if objectID == "" {
		return nil, fmt.Errorf("%w: function has no on-chain object", apperr.ErrChain)
	}

	resp, err := v.rpc.GetObject(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: object %s: %s", apperr.ErrChain, objectID, resp.Error.Code)
	}
	if resp.Data == nil || resp.Data.Content == nil {
		return nil, fmt.Errorf("%w: object %s not found", apperr.ErrChain, objectID)
	}

	c := resp.Data.Content
	if c.DataType != "moveObject" {
		return nil, fmt.Errorf("%w: object %s is a %s, not a Move object", apperr.ErrChain, objectID, c.DataType)
	}
	if v.packageID != "" && NormalizeAddress(typePackage(c.Type)) != NormalizeAddress(v.packageID) {
		return nil, fmt.Errorf("%w: object %s has type %s outside package %s", apperr.ErrChain, objectID, c.Type, v.packageID)
	}

	var obj FunctionObject
	if err := json.Unmarshal(c.Fields, &obj); err != nil {
		return nil, fmt.Errorf("%w: object %s fields: %w", apperr.ErrChain, objectID, err)
	}
	if obj.Content == nil {
		return nil, fmt.Errorf("%w: object %s of type %s has no content field", apperr.ErrChain, objectID, c.Type)
	}
	return &obj, nil
}

// Verify fetches the object behind rec and asserts that its content equals
// rec.Content byte for byte. The decoded object is returned in both the
// matching and mismatching case.
func (v *Verifier) Verify(ctx context.Context, rec *model.FunctionRecord) (*FunctionObject, error) {
	if !rec.OnChain() {
		return nil, fmt.Errorf("%w: function %q was never minted", apperr.ErrChain, rec.Name)
	}
	obj, err := v.Fetch(ctx, rec.ObjectID)
	if err != nil {
		return nil, err
	}

	if *obj.Content != rec.Content {
		off := firstDiff(*obj.Content, rec.Content)
		return obj, fmt.Errorf("%w: content of %q differs from object %s at byte %d (chain %d bytes, runtime %d bytes)",
			apperr.ErrAssertion, rec.Name, rec.ObjectID, off, len(*obj.Content), len(rec.Content))
	}

	ctxlog.FromContext(ctx).Info("On-chain content verified.", "name", rec.Name, "object_id", rec.ObjectID)
	return obj, nil
}

func typePackage(t string) string {
	pkg, _, _ := strings.Cut(t, "::")
	return pkg
}

func firstDiff(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
