package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/faas3/faas3-cli/internal/model"
)

// RunnerCall records one invocation received by the fake runner.
type RunnerCall struct {
	Name string
	// Body is the raw request body as sent over the wire.
	Body string
}

// FaaSServer is an in-memory stand-in for the FaaS HTTP API.
type FaaSServer struct {
	*httptest.Server

	mu        sync.Mutex
	functions []model.FunctionRecord
	calls     []RunnerCall

	deployErr  *model.DeployError
	failStatus int
}

// NewFaaSServer starts a fake API seeded with records. The server is closed
// when the test ends.
func NewFaaSServer(t testing.TB, seed ...model.FunctionRecord) *FaaSServer {
	t.Helper()

	s := &FaaSServer{functions: append([]model.FunctionRecord(nil), seed...)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/functions", s.handleList)
	mux.HandleFunc("GET /api/functions/{name}", s.handleInfo)
	mux.HandleFunc("POST /api/deploy", s.handleDeploy)
	mux.HandleFunc("POST /api/runner/{name}", s.handleRunner)

	s.Server = httptest.NewServer(s.failing(mux))
	t.Cleanup(s.Close)
	return s
}

// Functions returns a snapshot of the stored records.
func (s *FaaSServer) Functions() []model.FunctionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.FunctionRecord(nil), s.functions...)
}

// Calls returns the runner invocations received so far.
func (s *FaaSServer) Calls() []RunnerCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RunnerCall(nil), s.calls...)
}

// FailDeploys makes every later deploy fail with e. Nil restores success.
func (s *FaaSServer) FailDeploys(e *model.DeployError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deployErr = e
}

// FailAll makes every endpoint answer with status. Zero restores normal
// behavior.
func (s *FaaSServer) FailAll(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

func (s *FaaSServer) failing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failStatus
		s.mu.Unlock()
		if status != 0 {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *FaaSServer) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Functions())
}

func (s *FaaSServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.functions {
		if f.Name == name {
			writeJSON(w, http.StatusOK, f)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *FaaSServer) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var rec model.FunctionRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, model.DeployResult{
			Error:  &model.DeployError{Code: "PGRST102", Message: "invalid body", Details: err.Error()},
			Status: http.StatusBadRequest,
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deployErr != nil {
		writeJSON(w, http.StatusConflict, model.DeployResult{Error: s.deployErr, Status: http.StatusConflict})
		return
	}
	for i, f := range s.functions {
		if f.Name == rec.Name {
			s.functions[i] = rec
			writeJSON(w, http.StatusOK, model.DeployResult{Status: http.StatusOK})
			return
		}
	}
	s.functions = append(s.functions, rec)
	writeJSON(w, http.StatusCreated, model.DeployResult{Status: http.StatusCreated})
}

// handleRunner echoes the decoded body back together with the function name.
func (s *FaaSServer) handleRunner(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, RunnerCall{Name: name, Body: string(raw)})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"function": name, "input": raw})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
