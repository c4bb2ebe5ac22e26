package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/user/rsafile/internal/cipher"
	"github.com/user/rsafile/internal/keypair"
	"github.com/user/rsafile/internal/rsafile"
	"github.com/user/rsafile/internal/storage"
	"github.com/user/rsafile/pkg/sysinfo"
)

var (
	errUnknownKey = errors.New("key not found")
	errNoKey      = errors.New("either key_id or keypair is required")
	errBadModulus = errors.New("keypair modulus must be positive")
)

type Server struct {
	router   *mux.Router
	keyStore *storage.KeyStore
	src      keypair.Source
	sysInfo  *sysinfo.SystemInfo
	upgrader websocket.Upgrader
	maxUnits int
	port     string
}

type EncryptRequest struct {
	Data []byte `json:"data"`
}

type EncryptResponse struct {
	KeyID   string          `json:"key_id"`
	Keypair keypair.Keypair `json:"keypair"`
	Units   []int64         `json:"units"`
}

type DecryptRequest struct {
	KeyID   string           `json:"key_id,omitempty"`
	Keypair *keypair.Keypair `json:"keypair,omitempty"`
	Units   []int64          `json:"units"`
}

type DecryptResponse struct {
	Data []byte `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewServer builds a server drawing primes from src. src must be safe for
// concurrent use; wrap it in keypair.NewLockedSource otherwise.
func NewServer(port string, src keypair.Source, maxUnits int) (*Server, error) {
	sysInfo, err := sysinfo.Collect(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to collect system info: %w", err)
	}
	if maxUnits <= 0 {
		maxUnits = rsafile.DefaultMaxUnits
	}

	s := &Server{
		router:   mux.NewRouter(),
		keyStore: storage.NewKeyStore(),
		src:      src,
		sysInfo:  sysInfo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		maxUnits: maxUnits,
		port:     port,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// API routes
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/system-info", s.handleSystemInfo).Methods("GET")
	api.HandleFunc("/encrypt", s.handleEncrypt).Methods("POST")
	api.HandleFunc("/decrypt", s.handleDecrypt).Methods("POST")
	api.HandleFunc("/keys", s.handleListKeys).Methods("GET")
	api.HandleFunc("/keys/{id}", s.handleGetKey).Methods("GET")
	api.HandleFunc("/keys/{id}/download", s.handleDownloadKey).Methods("GET")
	api.HandleFunc("/keys/{id}", s.handleDeleteKey).Methods("DELETE")
	api.HandleFunc("/stream", s.handleStream).Methods("GET")
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	log.Printf("rsafile server starting on http://localhost:%s", s.port)
	return http.ListenAndServe(":"+s.port, s.router)
}

func (s *Server) encrypt(ctx context.Context, req EncryptRequest, progress cipher.Progress) (*EncryptResponse, error) {
	if len(req.Data) == 0 {
		return nil, rsafile.ErrEmptyInput
	}
	if len(req.Data) > s.maxUnits {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", rsafile.ErrAllocation, len(req.Data), s.maxUnits)
	}

	kp, err := keypair.FromSeedBytes(s.src, req.Data)
	if err != nil {
		return nil, err
	}

	units, err := cipher.Encrypt(ctx, req.Data, kp.E, kp.N, progress)
	if err != nil {
		return nil, err
	}

	stored := s.keyStore.Store(kp, len(units))
	log.Printf("Encrypted %d bytes with key %s (n=%d, e=%d)", len(units), stored.ID, kp.N, kp.E)

	return &EncryptResponse{KeyID: stored.ID, Keypair: *kp, Units: units}, nil
}

func (s *Server) decrypt(ctx context.Context, req DecryptRequest, progress cipher.Progress) (*DecryptResponse, error) {
	var kp keypair.Keypair
	switch {
	case req.KeyID != "":
		stored, ok := s.keyStore.GetKey(req.KeyID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnknownKey, req.KeyID)
		}
		kp = stored.Keypair
	case req.Keypair != nil:
		kp = *req.Keypair
	default:
		return nil, errNoKey
	}
	if kp.N < 1 {
		return nil, errBadModulus
	}
	if len(req.Units) > s.maxUnits {
		return nil, fmt.Errorf("%w: %d units, limit is %d", rsafile.ErrAllocation, len(req.Units), s.maxUnits)
	}

	data, err := cipher.Decrypt(ctx, req.Units, kp.D, kp.N, progress)
	if err != nil {
		return nil, err
	}
	return &DecryptResponse{Data: data}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnknownKey):
		return http.StatusNotFound
	case errors.Is(err, rsafile.ErrAllocation):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, keypair.ErrKeyGeneration), errors.Is(err, keypair.ErrPrivateKey):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error(), Kind: rsafile.KindOf(err)})
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sysInfo)
}

func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req EncryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.encrypt(r.Context(), req, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req DecryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.decrypt(r.Context(), req, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.keyStore.GetAllKeys())
}

func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	key, exists := s.keyStore.GetKey(id)
	if !exists {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, key)
}

func (s *Server) handleDownloadKey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	key, exists := s.keyStore.GetKey(id)
	if !exists {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}

	content, err := key.KeyFile()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to render key file: %v", err), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("key_%s.txt", key.ID[:8])
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(content)
}

func (s *Server) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !s.keyStore.DeleteKey(id) {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
