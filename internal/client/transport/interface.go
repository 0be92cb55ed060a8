// Package transport implements the two delivery channels of the sync engine:
// an authoritative request/response channel over HTTP and a best-effort
// streaming channel over a websocket. Each channel fails independently.
package transport

import (
	"context"

	"github.com/iudanet/dequeuesync/internal/models"
)

//go:generate moq -out request_mock.go . RequestChannel
//go:generate moq -out stream_mock.go . StreamChannel
//go:generate moq -out blobs_mock.go . BlobChannel

// Page одна страница HTTP pull
type Page struct {
	Events     []*models.Event
	NextCursor string
	HasMore    bool
}

// RequestChannel is the authoritative request/response channel.
type RequestChannel interface {
	// PushEvents sends a batch. A nil error means the server stored every event.
	PushEvents(ctx context.Context, events []*models.Event) error

	// PullPage returns events after cursor. An empty cursor starts from the beginning.
	PullPage(ctx context.Context, cursor string, limit int) (*Page, error)
}

// BatchFunc is called for every streamed batch, strictly in arrival order.
// A non-nil error aborts the stream.
type BatchFunc func(ctx context.Context, batchIndex int, events []*models.Event) error

// StreamResult итог потокового pull
type StreamResult struct {
	NewCheckpoint   string
	TotalEvents     int
	ProcessedEvents int
	Batches         int
}

// StreamChannel is the persistent streaming channel.
type StreamChannel interface {
	// IsEnabled reports whether streaming is configured at all
	IsEnabled() bool

	// IsConnected reports whether the socket is currently open
	IsConnected() bool

	// Connect opens the socket if it is not open yet
	Connect(ctx context.Context) error

	// SendEvents writes a fire-and-forget push message
	SendEvents(ctx context.Context, events []*models.Event) error

	// PullStream requests events after since and feeds batches to fn.
	// Returns only after complete, error, disconnection or ctx cancellation.
	PullStream(ctx context.Context, since string, fn BatchFunc) (*StreamResult, error)

	// Notifications delivers a signal whenever another device pushed events
	Notifications() <-chan struct{}

	// Close closes the socket
	Close() error
}

// BlobChannel moves attachment payloads.
type BlobChannel interface {
	UploadAttachment(ctx context.Context, id, mimeType string, data []byte) error
	DownloadAttachment(ctx context.Context, id string) ([]byte, error)
}
