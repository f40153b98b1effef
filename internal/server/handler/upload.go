// Package handler provides the HTTP handlers of the upload ingress.
package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sevigo/vidflow/internal/storage"
)

// UploadHandler accepts multipart video uploads and streams them into the
// object store. Storing the object is what eventually produces the queue
// notification the dispatcher reacts to.
type UploadHandler struct {
	store    storage.ObjectStore
	bucket   string
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler creates a handler writing into the given bucket. maxBytes
// bounds the whole request body.
func NewUploadHandler(store storage.ObjectStore, bucket string, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		store:    store,
		bucket:   bucket,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Handle reads the "video" field of a multipart request and streams it to
// the object store under a generated unique key. The response is plain text
// naming the assigned key.
func (h *UploadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	reader, err := r.MultipartReader()
	if err != nil {
		h.logger.Warn("rejecting non-multipart upload request", "error", err)
		http.Error(w, "Expected multipart/form-data", http.StatusBadRequest)
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.logger.Error("failed to read multipart body", "error", err)
			http.Error(w, "Malformed multipart body", http.StatusBadRequest)
			return
		}

		if part.FormName() != "video" {
			_ = part.Close()
			continue
		}

		key := fmt.Sprintf("upload-%s.mp4", uuid.NewString())
		if err := h.store.Put(r.Context(), h.bucket, key, part, "video/mp4"); err != nil {
			_ = part.Close()
			h.logger.Error("failed to store upload", "key", key, "error", err)
			http.Error(w, "Upload failed", http.StatusInternalServerError)
			return
		}
		_ = part.Close()

		h.logger.Info("upload stored", "bucket", h.bucket, "key", key)
		fmt.Fprintf(w, "Uploaded as %s", key)
		return
	}

	http.Error(w, "Missing video field", http.StatusBadRequest)
}
