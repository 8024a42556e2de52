package chain

import (
	"encoding/json"
	"strings"
)

// ObjectResponse is the result of sui_getObject. Exactly one of Data and
// Error is set by a well-behaved node.
type ObjectResponse struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}

// ObjectData describes a single on-chain object.
type ObjectData struct {
	ObjectID string       `json:"objectId"`
	Version  string       `json:"version"`
	Digest   string       `json:"digest"`
	Type     string       `json:"type,omitempty"`
	Content  *MoveContent `json:"content,omitempty"`
}

// MoveContent is the parsed content of a Move object.
type MoveContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields"`
}

// ObjectError is reported by the node when an object cannot be read.
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

// FunctionObject is the snapshot of a function record stored on chain.
type FunctionObject struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	URL         json.RawMessage `json:"url,omitempty"`
	Content     *string         `json:"content"`
}

// URLString renders the url field, which nodes encode either as a plain
// string or as a nested struct.
func (f *FunctionObject) URLString() string {
	if len(f.URL) == 0 || string(f.URL) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.URL, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(f.URL))
}

// MoveCallRequest describes a Move function invocation to be turned into
// unsigned transaction bytes by the node.
type MoveCallRequest struct {
	Signer    string
	PackageID string
	Module    string
	Function  string
	Arguments []any
	GasBudget uint64
}

// TransactionBytes is the result of unsafe_moveCall.
type TransactionBytes struct {
	TxBytes string `json:"txBytes"`
}

// TransactionBlockResponse is the result of sui_executeTransactionBlock.
type TransactionBlockResponse struct {
	Digest  string              `json:"digest"`
	Effects *TransactionEffects `json:"effects,omitempty"`
}

// TransactionEffects holds the subset of effects the client inspects.
type TransactionEffects struct {
	Status  ExecutionStatus  `json:"status"`
	Created []OwnedObjectRef `json:"created,omitempty"`
}

// ExecutionStatus reports whether the transaction succeeded.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// OwnedObjectRef points to an object created or mutated by a transaction.
type OwnedObjectRef struct {
	Owner     json.RawMessage `json:"owner,omitempty"`
	Reference ObjectRef       `json:"reference"`
}

// ObjectRef identifies a specific object version.
type ObjectRef struct {
	ObjectID string `json:"objectId"`
	Version  any    `json:"version,omitempty"`
	Digest   string `json:"digest,omitempty"`
}
