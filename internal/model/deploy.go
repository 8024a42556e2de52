// SPDX-License-Identifier: MIT
// Copyright (c) 2025 The faas3 Authors
//
// This file defines the outcome of a single deploy call. Results are not
// retried or persisted; they are shown to the user and discarded.
package model

import "fmt"

// DeployError is the structured failure reported by the deploy endpoint.
type DeployError struct {
	Code    string `json:"code"`
	Details string `json:"details"`
	Message string `json:"message"`
}

func (e *DeployError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (code %s): %s", e.Message, e.Code, e.Details)
}

// DeployResult is the body returned by POST /api/deploy.
type DeployResult struct {
	Error  *DeployError `json:"error"`
	Status int          `json:"status"`
}

// Succeeded reports whether the service accepted the upload.
func (r *DeployResult) Succeeded() bool {
	return r.Error == nil && r.Status >= 200 && r.Status < 300
}
