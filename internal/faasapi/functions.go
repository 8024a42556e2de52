package faasapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/faas3/faas3-cli/internal/apperr"
	"github.com/faas3/faas3-cli/internal/ctxlog"
	"github.com/faas3/faas3-cli/internal/model"
)

// ListOptions narrows the registry listing. Empty fields match everything.
type ListOptions struct {
	Owner    string
	Template string
}

// Deploy submits a function record. The service reports failures inside the
// result body, so a decoded result is returned even for non-2xx responses;
// callers inspect DeployResult.Succeeded.
func (c *Client) Deploy(ctx context.Context, rec *model.FunctionRecord) (*model.DeployResult, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil function record", apperr.ErrValidation)
	}

	req := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(rec)
	resp, err := c.do(ctx, req, http.MethodPost, deployPath)
	if err != nil {
		return nil, err
	}

	var res model.DeployResult
	if err := decode(resp, &res); err != nil {
		return nil, err
	}
	if res.Status == 0 {
		res.Status = resp.StatusCode()
	}

	ctxlog.FromContext(ctx).Info("Deploy request completed.", "name", rec.Name, "status", res.Status, "ok", res.Succeeded())
	return &res, nil
}

// List fetches every registered function and filters it locally.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]model.FunctionRecord, error) {
	resp, err := c.do(ctx, c.request(ctx), http.MethodGet, functionsPath)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, remoteError(resp)
	}

	var all []model.FunctionRecord
	if err := decode(resp, &all); err != nil {
		return nil, err
	}

	filtered := Filter(all, opts)
	ctxlog.FromContext(ctx).Debug("Functions listed.", "total", len(all), "matched", len(filtered))
	return filtered, nil
}

// Filter keeps the records matching opts, preserving their order.
func Filter(records []model.FunctionRecord, opts ListOptions) []model.FunctionRecord {
	out := make([]model.FunctionRecord, 0, len(records))
	for _, r := range records {
		if opts.Owner != "" && r.Owner != opts.Owner {
			continue
		}
		if opts.Template != "" && r.Template != opts.Template {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Info fetches a single function by name. A null body means the function is
// not registered.
func (c *Client) Info(ctx context.Context, name string) (*model.FunctionRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: function name must not be empty", apperr.ErrValidation)
	}

	req := c.request(ctx).SetPathParam("name", name)
	resp, err := c.do(ctx, req, http.MethodGet, functionPath)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: function %q", apperr.ErrNotFound, name)
	}
	if !resp.IsSuccess() {
		return nil, remoteError(resp)
	}

	var rec *model.FunctionRecord
	if err := decode(resp, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: function %q", apperr.ErrNotFound, name)
	}
	return rec, nil
}

// CallResult is the runner's reply to an invocation.
type CallResult struct {
	Status int
	// Value is the decoded JSON response, shown as-is.
	Value any
}

// Call invokes a deployed function. body is sent as a JSON string value, so
// the runner receives the caller's text verbatim inside quotes.
func (c *Client) Call(ctx context.Context, name, body string) (*CallResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: function name must not be empty", apperr.ErrValidation)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode call body: %w", apperr.ErrValidation, err)
	}

	req := c.request(ctx).
		SetPathParam("name", name).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	resp, err := c.do(ctx, req, http.MethodPost, runnerPath)
	if err != nil {
		return nil, err
	}

	var v any
	if err := decode(resp, &v); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		ctxlog.FromContext(ctx).Warn("Runner returned a non-success status.", "name", name, "status", resp.StatusCode())
	}
	return &CallResult{Status: resp.StatusCode(), Value: v}, nil
}
