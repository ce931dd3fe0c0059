// Package coordinatortest provides a minimal in-memory rendezvous
// coordinator implementing the same signup/set/get HTTP+JSON contract as
// coordinator.Client expects, so package tests can drive a full multi-party
// protocol run without a real coordinator service. It is test
// infrastructure only, not a production coordinator (out of scope per the
// top-level design).
package coordinatortest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

type signupKey struct {
	Purpose   string
	Curve     string
	Threshold int
	Parties   int
}

// Server is a tiny rendezvous coordinator backed by in-memory maps,
// suitable for httptest.NewServer.
type Server struct {
	mu      sync.Mutex
	store   map[string]string
	pending map[signupKey]int
}

// NewServer starts a test coordinator and returns the underlying
// httptest.Server; callers should Close() it when done.
func NewServer() *httptest.Server {
	s := &Server{
		store:   make(map[string]string),
		pending: make(map[signupKey]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/signupkeygen", s.handleSignup("keygen"))
	mux.HandleFunc("/signupsign", s.handleSignup("sign"))
	mux.HandleFunc("/set", s.handleSet)
	mux.HandleFunc("/get", s.handleGet)
	return httptest.NewServer(mux)
}

type signupRequest struct {
	Purpose   string `json:"purpose"`
	Curve     string `json:"curve"`
	Threshold int    `json:"threshold"`
	Parties   int    `json:"parties"`
}

type signupResponse struct {
	Number int    `json:"number"`
	UUID   string `json:"uuid"`
}

func (s *Server) handleSignup(purpose string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		key := signupKey{Purpose: purpose, Curve: req.Curve, Threshold: req.Threshold, Parties: req.Parties}

		s.mu.Lock()
		s.pending[key]++
		number := s.pending[key]
		s.mu.Unlock()

		writeJSON(w, signupResponse{Number: number, UUID: sessionUUID(key)})
	}
}

// sessionUUID is deterministic in the test server (every party signing up
// for the same (purpose, curve, threshold, parties) tuple must land on the
// same session id), unlike a production coordinator's random uuid.
func sessionUUID(k signupKey) string {
	return k.Purpose + "/" + k.Curve + "/" + itoa(k.Threshold) + "/" + itoa(k.Parties)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

type setRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.store[req.Key] = req.Value
	s.mu.Unlock()
	writeJSON(w, struct{}{})
}

type getRequest struct {
	Key string `json:"key"`
}

type getResponse struct {
	Value string `json:"value"`
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	var req getRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	val, ok := s.store[req.Key]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, getResponse{Value: "not_found"})
		return
	}
	writeJSON(w, getResponse{Value: val})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
