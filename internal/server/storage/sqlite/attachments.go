package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/dequeuesync/internal/server/storage"
)

var _ storage.AttachmentStorage = (*Storage)(nil)

// PutAttachment creates or replaces attachment content
func (s *Storage) PutAttachment(ctx context.Context, blob *storage.Blob) error {
	updatedAt := blob.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (user_id, id, mime_type, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
			mime_type = excluded.mime_type,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, blob.UserID, blob.ID, blob.MimeType, blob.Data, updatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save attachment: %w", err)
	}
	return nil
}

// GetAttachment retrieves attachment content of the user
func (s *Storage) GetAttachment(ctx context.Context, userID, id string) (*storage.Blob, error) {
	blob := &storage.Blob{UserID: userID, ID: id}
	var updatedAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT mime_type, data, updated_at
		FROM attachments
		WHERE user_id = ? AND id = ?
	`, userID, id).Scan(&blob.MimeType, &blob.Data, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	blob.UpdatedAt = time.Unix(updatedAt, 0)
	// blob не должен быть nil для пустых файлов
	if blob.Data == nil {
		blob.Data = []byte{}
	}
	return blob, nil
}
