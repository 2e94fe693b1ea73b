package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"winescan/internal/ocr"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "image is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read upload", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	if len(data) == 0 {
		jsonError(w, "empty upload", http.StatusBadRequest)
		return
	}

	engine, ok := s.engineFor(data)
	if !ok {
		jsonError(w, "unsupported file type: expected JPEG, PNG, or PDF", http.StatusBadRequest)
		return
	}

	tokens, err := engine.Recognize(r.Context(), data)
	if err != nil {
		s.log.Error("recognition failed", "error", err)
		jsonError(w, "text recognition unavailable", http.StatusServiceUnavailable)
		return
	}

	analysis := s.analyzer.Analyze(r.Context(), tokens)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(analysis)
}

// engineFor picks the recognition engine by sniffing the upload's magic
// bytes; the client-supplied filename and content type are not trusted.
func (s *Server) engineFor(data []byte) (ocr.Engine, bool) {
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
		return s.image, s.image != nil
	case "application/pdf":
		return s.pdf, s.pdf != nil
	default:
		return nil, false
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
