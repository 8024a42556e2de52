package chain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/ctxlog"
)

// Sui JSON-RPC methods used by the client.
const (
	MethodGetObject               = "sui_getObject"
	MethodMoveCall                = "unsafe_moveCall"
	MethodExecuteTransactionBlock = "sui_executeTransactionBlock"
)

// RPC is the subset of the Sui node API needed to mint and verify.
type RPC interface {
	GetObject(ctx context.Context, id string) (*ObjectResponse, error)
	MoveCall(ctx context.Context, req MoveCallRequest) (*TransactionBytes, error)
	ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string) (*TransactionBlockResponse, error)
}

// Client is a JSON-RPC client for a Sui full node.
type Client struct {
	url string
	cli *jrpc2.Client
}

// Dial creates a client for the node at url. hc may be nil. No request is
// sent until the first call.
func Dial(url string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	ch := jhttp.NewChannel(url, &jhttp.ChannelOptions{Client: hc})
	return &Client{url: url, cli: jrpc2.NewClient(ch, nil)}
}

// Close shuts down the underlying JSON-RPC client.
func (c *Client) Close() error {
	return c.cli.Close()
}

// call issues one request and decodes its result into out.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sending chain RPC request.", "method", method, "node", c.url)

	rsp, err := c.cli.Call(ctx, method, params)
	if err != nil {
		var rerr *jrpc2.Error
		if errors.As(err, &rerr) {
			return fmt.Errorf("%w: %s: %w", apperr.ErrChain, method, err)
		}
		return fmt.Errorf("%w: %s %s: %w", apperr.ErrNetwork, method, c.url, err)
	}
	if err := rsp.UnmarshalResult(out); err != nil {
		return fmt.Errorf("%w: %s result: %w", apperr.ErrDecode, method, err)
	}
	return nil
}

// GetObject reads an object together with its type and parsed content.
func (c *Client) GetObject(ctx context.Context, id string) (*ObjectResponse, error) {
	opts := map[string]bool{"showContent": true, "showType": true}
	var out ObjectResponse
	if err := c.call(ctx, MethodGetObject, []any{id, opts}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveCall asks the node to build an unsigned move-call transaction.
func (c *Client) MoveCall(ctx context.Context, req MoveCallRequest) (*TransactionBytes, error) {
	args := req.Arguments
	if args == nil {
		args = []any{}
	}
	params := []any{
		req.Signer,
		req.PackageID,
		req.Module,
		req.Function,
		[]string{},
		args,
		nil,
		strconv.FormatUint(req.GasBudget, 10),
	}
	var out TransactionBytes
	if err := c.call(ctx, MethodMoveCall, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteTransactionBlock submits a signed transaction and waits for local
// execution on the node.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string) (*TransactionBlockResponse, error) {
	opts := map[string]bool{"showEffects": true, "showObjectChanges": true}
	params := []any{txBytes, signatures, opts, "WaitForLocalExecution"}
	var out TransactionBlockResponse
	if err := c.call(ctx, MethodExecuteTransactionBlock, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
