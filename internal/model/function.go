// SPDX-License-Identifier: MIT
// Copyright (c) 2025 The faas3 Authors
//
// This file defines FunctionRecord, the unit of data exchanged with the FaaS
// registry and deploy endpoints.
//
// A record is created locally at deploy time from a ProjectConfig and the
// bytes of the project's main source file. The remote service (and, on the
// legacy path, the chain) fills in ObjectID and TxnHash. The client never
// deletes records.
package model

// FunctionRecord is a deployed or deployable function. Name is the stable
// identifier used by list, info, call and verify.
type FunctionRecord struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	URL         *string `json:"url"`
	Content     string  `json:"content"`
	TxnHash     *string `json:"txn_hash"`
	Owner       string  `json:"owner"`
	ObjectID    string  `json:"object_id"`
	Template    string  `json:"template"`
}

// NewFunctionRecord builds the record uploaded by deploy. Content must be the
// exact bytes of the project's source file.
func NewFunctionRecord(cfg *ProjectConfig, content []byte) *FunctionRecord {
	return &FunctionRecord{
		Name:        cfg.Basic.Name,
		Description: cfg.Basic.Description,
		Content:     string(content),
		Owner:       cfg.Basic.Owner,
		ObjectID:    "",
		Template:    cfg.Basic.Template,
	}
}

// OnChain reports whether the record references a minted chain object.
func (f *FunctionRecord) OnChain() bool {
	return f.ObjectID != ""
}
