package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/user/rsafile/internal/rsafile"
)

// StreamRequest is one operation sent over /api/v1/stream. Op is "encrypt"
// or "decrypt"; the remaining fields are those of the matching HTTP request.
type StreamRequest struct {
	Op string `json:"op"`
	EncryptRequest
	DecryptRequest
}

// StreamMessage is sent back: any number of "progress" messages followed by
// one "result" or "error".
type StreamMessage struct {
	Type   string `json:"type"`
	Op     string `json:"op,omitempty"`
	Done   int    `json:"done,omitempty"`
	Total  int    `json:"total,omitempty"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// progressSteps caps how many progress messages one operation sends.
const progressSteps = 100

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req StreamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("WebSocket read failed: %v", err)
			}
			return
		}

		if err := s.runStream(r.Context(), conn, req); err != nil {
			log.Printf("WebSocket write failed: %v", err)
			return
		}
	}
}

func (s *Server) runStream(ctx context.Context, conn *websocket.Conn, req StreamRequest) error {
	var writeErr error
	progress := func(done, total int) {
		step := total / progressSteps
		if step < 1 {
			step = 1
		}
		if writeErr != nil || (done%step != 0 && done != total) {
			return
		}
		writeErr = conn.WriteJSON(StreamMessage{Type: "progress", Op: req.Op, Done: done, Total: total})
	}

	var result any
	var err error
	switch req.Op {
	case "encrypt":
		result, err = s.encrypt(ctx, req.EncryptRequest, progress)
	case "decrypt":
		result, err = s.decrypt(ctx, req.DecryptRequest, progress)
	default:
		err = fmt.Errorf("unknown op %q", req.Op)
	}
	if writeErr != nil {
		return writeErr
	}

	if err != nil {
		return conn.WriteJSON(StreamMessage{Type: "error", Op: req.Op, Error: err.Error(), Kind: rsafile.KindOf(err)})
	}
	return conn.WriteJSON(StreamMessage{Type: "result", Op: req.Op, Result: result})
}
