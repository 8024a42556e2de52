package testutil

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"golang.org/x/crypto/blake2b"
)

// SuiObject is an object held by the fake node.
type SuiObject struct {
	Type   string
	Fields map[string]any
}

// SuiNode is a fake Sui full node speaking JSON-RPC 2.0 over HTTP. It keeps
// objects in memory, turns move calls into opaque transaction bytes and
// checks signatures before executing them.
type SuiNode struct {
	URL string

	mu       sync.Mutex
	objects  map[string]SuiObject
	nextID   int
	executed int
	noEffect bool
}

// pendingCall is what the fake encodes into transaction bytes.
type pendingCall struct {
	Signer   string            `json:"signer"`
	Package  string            `json:"package"`
	Module   string            `json:"module"`
	Function string            `json:"function"`
	Args     []json.RawMessage `json:"args"`
}

// NewSuiNode starts the fake node; it is shut down when the test ends.
func NewSuiNode(t testing.TB) *SuiNode {
	t.Helper()

	n := &SuiNode{objects: make(map[string]SuiObject)}
	bridge := jhttp.NewBridge(handler.Map{
		"sui_getObject":               n.getObject,
		"unsafe_moveCall":             n.moveCall,
		"sui_executeTransactionBlock": n.execute,
	}, nil)
	srv := httptest.NewServer(bridge)
	t.Cleanup(func() {
		srv.Close()
		bridge.Close()
	})

	n.URL = srv.URL
	return n
}

// PutObject stores obj under id.
func (n *SuiNode) PutObject(id string, obj SuiObject) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.objects[id] = obj
}

// Object returns the object stored under id.
func (n *SuiNode) Object(id string) (SuiObject, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	o, ok := n.objects[id]
	return o, ok
}

// Executed reports how many transactions were executed.
func (n *SuiNode) Executed() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.executed
}

// OmitEffects makes later executions answer without an effects section.
func (n *SuiNode) OmitEffects() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.noEffect = true
}

func params(req *jrpc2.Request, want int) ([]json.RawMessage, error) {
	var ps []json.RawMessage
	if err := req.UnmarshalParams(&ps); err != nil {
		return nil, err
	}
	if len(ps) < want {
		return nil, fmt.Errorf("%s: want %d params, got %d", req.Method(), want, len(ps))
	}
	return ps, nil
}

func (n *SuiNode) getObject(_ context.Context, req *jrpc2.Request) (any, error) {
	ps, err := params(req, 1)
	if err != nil {
		return nil, err
	}
	var id string
	if err := json.Unmarshal(ps[0], &id); err != nil {
		return nil, err
	}

	obj, ok := n.Object(id)
	if !ok {
		return map[string]any{"error": map[string]any{"code": "notExists", "object_id": id}}, nil
	}
	return map[string]any{
		"data": map[string]any{
			"objectId": id,
			"version":  "1",
			"digest":   "fake",
			"type":     obj.Type,
			"content": map[string]any{
				"dataType":          "moveObject",
				"type":              obj.Type,
				"hasPublicTransfer": true,
				"fields":            obj.Fields,
			},
		},
	}, nil
}

func (n *SuiNode) moveCall(_ context.Context, req *jrpc2.Request) (any, error) {
	ps, err := params(req, 8)
	if err != nil {
		return nil, err
	}

	var call pendingCall
	for i, dst := range []*string{&call.Signer, &call.Package, &call.Module, &call.Function} {
		if err := json.Unmarshal(ps[i], dst); err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
	}
	if err := json.Unmarshal(ps[5], &call.Args); err != nil {
		return nil, fmt.Errorf("arguments: %w", err)
	}

	raw, err := json.Marshal(call)
	if err != nil {
		return nil, err
	}
	return map[string]any{"txBytes": base64.StdEncoding.EncodeToString(raw)}, nil
}

func (n *SuiNode) execute(_ context.Context, req *jrpc2.Request) (any, error) {
	ps, err := params(req, 2)
	if err != nil {
		return nil, err
	}
	var txB64 string
	var sigs []string
	if err := json.Unmarshal(ps[0], &txB64); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ps[1], &sigs); err != nil {
		return nil, err
	}

	tx, err := base64.StdEncoding.DecodeString(txB64)
	if err != nil {
		return nil, err
	}
	if len(sigs) != 1 {
		return nil, errors.New("exactly one signature is required")
	}
	var call pendingCall
	if err := json.Unmarshal(tx, &call); err != nil {
		return nil, err
	}
	if err := checkSignature(tx, sigs[0], call.Signer); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	for i, key := range []string{"name", "description", "url", "content"} {
		if i >= len(call.Args) {
			break
		}
		var v any
		if err := json.Unmarshal(call.Args[i], &v); err != nil {
			return nil, err
		}
		fields[key] = v
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.executed++
	n.nextID++
	id := fmt.Sprintf("0x%064x", n.nextID)
	n.objects[id] = SuiObject{
		Type:   fmt.Sprintf("%s::%s::FunctionNFT", call.Package, call.Module),
		Fields: fields,
	}

	sum := blake2b.Sum256(tx)
	digest := hex.EncodeToString(sum[:8])
	if n.noEffect {
		return map[string]any{"digest": digest}, nil
	}
	return map[string]any{
		"digest": digest,
		"effects": map[string]any{
			"status": map[string]any{"status": "success"},
			"created": []any{
				map[string]any{
					"owner":     map[string]any{"AddressOwner": call.Signer},
					"reference": map[string]any{"objectId": id, "version": 1, "digest": digest},
				},
			},
		},
	}, nil
}

// checkSignature validates a serialized ed25519 signature over the intent
// message for tx and that the key belongs to signer.
func checkSignature(tx []byte, sig, signer string) error {
	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return err
	}
	if len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize || raw[0] != 0 {
		return errors.New("malformed ed25519 signature")
	}
	s := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])

	msg := append([]byte{0, 0, 0}, tx...)
	digest := blake2b.Sum256(msg)
	if !ed25519.Verify(pub, digest[:], s) {
		return errors.New("signature does not verify")
	}

	sum := blake2b.Sum256(append([]byte{0}, pub...))
	if addr := "0x" + hex.EncodeToString(sum[:]); addr != signer {
		return fmt.Errorf("signature key %s does not match sender %s", addr, signer)
	}
	return nil
}
