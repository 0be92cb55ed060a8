package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/dequeuesync/internal/server/storage"
	"github.com/iudanet/dequeuesync/internal/validation"
)

// AttachmentsHandler хранит содержимое вложений
type AttachmentsHandler struct {
	logger  *slog.Logger
	storage storage.AttachmentStorage
	maxSize int64
}

// NewAttachmentsHandler creates a new attachments handler
func NewAttachmentsHandler(logger *slog.Logger, storage storage.AttachmentStorage, maxSize int64) *AttachmentsHandler {
	return &AttachmentsHandler{
		logger:  logger,
		storage: storage,
		maxSize: maxSize,
	}
}

// Put обрабатывает PUT /api/v1/attachments/{id}
// Тело запроса сохраняется как есть, Content-Type запоминается
func (h *AttachmentsHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		SendError(h.logger, w, "missing user", http.StatusUnauthorized)
		return
	}
	id := r.PathValue("id")
	if err := validation.ValidateIdentifier("attachment id", id); err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendError(h.logger, w, "attachment exceeds "+strconv.FormatInt(h.maxSize, 10)+" bytes", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Warn("Failed to read attachment body", slog.Any("error", err))
		SendError(h.logger, w, "failed to read body", http.StatusBadRequest)
		return
	}

	blob := &storage.Blob{
		UserID:    userID,
		ID:        id,
		MimeType:  r.Header.Get("Content-Type"),
		Data:      data,
		UpdatedAt: time.Now(),
	}
	if err := h.storage.PutAttachment(r.Context(), blob); err != nil {
		h.logger.Error("Failed to store attachment", slog.String("id", id), slog.Any("error", err))
		SendError(h.logger, w, "failed to store attachment", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Attachment stored",
		slog.String("user_id", userID),
		slog.String("id", id),
		slog.Int("size", len(data)))
	w.WriteHeader(http.StatusNoContent)
}

// Get обрабатывает GET /api/v1/attachments/{id}
func (h *AttachmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		SendError(h.logger, w, "missing user", http.StatusUnauthorized)
		return
	}
	id := r.PathValue("id")
	if err := validation.ValidateIdentifier("attachment id", id); err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	blob, err := h.storage.GetAttachment(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrAttachmentNotFound) {
			SendError(h.logger, w, "attachment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to read attachment", slog.String("id", id), slog.Any("error", err))
		SendError(h.logger, w, "failed to read attachment", http.StatusInternalServerError)
		return
	}

	contentType := blob.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		h.logger.Warn("Failed to write attachment", slog.String("id", id), slog.Any("error", err))
	}
}
