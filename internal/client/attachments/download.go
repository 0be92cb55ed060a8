// Package attachments decides when attachment payloads move over the network.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/iudanet/dequeuesync/internal/client/network"
	"github.com/iudanet/dequeuesync/internal/client/retry"
	"github.com/iudanet/dequeuesync/internal/client/transport"
	"github.com/iudanet/dequeuesync/internal/models"
)

// DownloadBehavior настройка автоматической загрузки вложений
type DownloadBehavior string

const (
	DownloadAlways   DownloadBehavior = "always"
	DownloadWiFiOnly DownloadBehavior = "wifiOnly"
	DownloadOnDemand DownloadBehavior = "onDemand"
)

// ParseDownloadBehavior разбирает значение из конфигурации
func ParseDownloadBehavior(s string) (DownloadBehavior, error) {
	switch b := DownloadBehavior(s); b {
	case DownloadAlways, DownloadWiFiOnly, DownloadOnDemand:
		return b, nil
	default:
		return "", fmt.Errorf("unknown download behavior %q (want always, wifiOnly or onDemand)", s)
	}
}

// PendingProvider lists attachments that exist remotely but not locally.
type PendingProvider func(ctx context.Context) ([]models.Attachment, error)

// DownloadHandler fetches one attachment.
type DownloadHandler func(ctx context.Context, attachment models.Attachment) error

// Progress состояние пакетной загрузки для наблюдателей
type Progress struct {
	Pending           int
	CompletedCount    int
	TotalQueued       int
	OverallProgress   float64
	IsAutoDownloading bool
}

// Coordinator downloads pending attachments one by one according to the
// configured behavior and the current network class.
type Coordinator struct {
	monitor     network.Monitor
	retries     *retry.Manager
	logger      *slog.Logger
	provider    PendingProvider
	handler     DownloadHandler
	pending     map[string]models.Attachment
	cancel      context.CancelFunc
	subscribers []func(Progress)
	order       []string
	behavior    DownloadBehavior
	wg          sync.WaitGroup
	completed   int
	total       int
	mu          sync.Mutex
	running     bool
}

// NewCoordinator creates a Coordinator. Failed downloads are tracked by
// retries under the attachment id; a scheduled retry re-runs evaluation.
func NewCoordinator(behavior DownloadBehavior, monitor network.Monitor, retries *retry.Manager, logger *slog.Logger) *Coordinator {
	c := &Coordinator{
		behavior: behavior,
		monitor:  monitor,
		retries:  retries,
		logger:   logger,
		pending:  make(map[string]models.Attachment),
	}
	retries.SetHandler(func(ctx context.Context, key string) error {
		c.EvaluateAutoDownloads(ctx)
		return nil
	})
	return c
}

// SetProvider registers the source of pending attachments
func (c *Coordinator) SetProvider(p PendingProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = p
}

// SetHandler registers the download function
func (c *Coordinator) SetHandler(h DownloadHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// Subscribe registers fn to receive progress after every change
func (c *Coordinator) Subscribe(fn func(Progress)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Behavior returns current setting
func (c *Coordinator) Behavior() DownloadBehavior {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.behavior
}

// ShouldAutoDownload derives the policy from behavior and network class.
func (c *Coordinator) ShouldAutoDownload() bool {
	c.mu.Lock()
	behavior := c.behavior
	c.mu.Unlock()

	return c.allows(behavior)
}

func (c *Coordinator) allows(behavior DownloadBehavior) bool {
	switch behavior {
	case DownloadAlways:
		return c.monitor.IsConnected()
	case DownloadWiFiOnly:
		return c.monitor.IsWiFi()
	default:
		return false
	}
}

// QueueForDownload adds attachment to the pending set (dedup by id) and
// starts a batch in the background if the policy allows it.
func (c *Coordinator) QueueForDownload(ctx context.Context, attachment models.Attachment) {
	c.mu.Lock()
	if _, ok := c.pending[attachment.ID]; !ok {
		c.pending[attachment.ID] = attachment
		c.order = append(c.order, attachment.ID)
	}
	behavior := c.behavior
	c.mu.Unlock()

	c.publish()

	if c.allows(behavior) {
		c.evaluateAsync(ctx)
	}
}

// Pending returns queued attachments in queue order
func (c *Coordinator) Pending() []models.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Attachment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.pending[id])
	}
	return out
}

// Progress returns a snapshot
func (c *Coordinator) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *Coordinator) progressLocked() Progress {
	p := Progress{
		Pending:           len(c.order),
		CompletedCount:    c.completed,
		TotalQueued:       c.total,
		IsAutoDownloading: c.running,
	}
	if c.total > 0 {
		p.OverallProgress = float64(c.completed) / float64(c.total)
	}
	return p
}

func (c *Coordinator) publish() {
	c.mu.Lock()
	p := c.progressLocked()
	subs := slices.Clone(c.subscribers)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}

func (c *Coordinator) evaluateAsync(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.EvaluateAutoDownloads(context.WithoutCancel(ctx))
	}()
}

// Wait blocks until background batches finish
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// EvaluateAutoDownloads downloads every pending attachment sequentially.
// It is a no-op without a provider or handler, with nothing pending, when the
// policy forbids downloads or a batch is already running. A failed download
// is registered for retry and does not stop the batch.
func (c *Coordinator) EvaluateAutoDownloads(ctx context.Context) {
	c.mu.Lock()
	if c.running || c.provider == nil || c.handler == nil || !c.allows(c.behavior) {
		c.mu.Unlock()
		return
	}
	provider, handler := c.provider, c.handler
	c.running = true
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()
		c.publish()
	}()

	provided, err := provider(ctx)
	if err != nil {
		c.logger.Warn("failed to list pending attachments", slog.Any("error", err))
		return
	}

	batch := c.collect(provided)
	if len(batch) == 0 {
		return
	}

	c.mu.Lock()
	c.total = len(batch)
	c.completed = 0
	c.mu.Unlock()
	c.publish()

	c.logger.Info("auto download started", slog.Int("count", len(batch)))

	for _, att := range batch {
		if ctx.Err() != nil {
			c.logger.Info("auto download cancelled")
			return
		}

		if err := handler(ctx, att); err != nil {
			state := c.retries.RegisterFailure(att.ID)
			c.logger.Warn("attachment download failed",
				slog.String("attachment_id", att.ID),
				slog.Int("attempt", state.AttemptCount),
				slog.Any("error", err))
		} else {
			c.retries.ClearRetryState(att.ID)
			c.mu.Lock()
			c.completed++
			c.removeLocked(att.ID)
			c.mu.Unlock()
		}
		c.publish()
	}

	p := c.Progress()
	c.logger.Info("auto download finished",
		slog.Int("completed", p.CompletedCount),
		slog.Int("total", p.TotalQueued))
}

// collect объединяет очередь и список провайдера, пропуская исчерпавшие попытки
// и те, чей retry еще не наступил
func (c *Coordinator) collect(provided []models.Attachment) []models.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, att := range provided {
		if _, ok := c.pending[att.ID]; !ok {
			c.pending[att.ID] = att
			c.order = append(c.order, att.ID)
		}
	}

	batch := make([]models.Attachment, 0, len(c.order))
	for _, id := range c.order {
		if !c.retries.CanRetry(id) || c.retries.Scheduled(id) {
			continue
		}
		batch = append(batch, c.pending[id])
	}
	return batch
}

func (c *Coordinator) removeLocked(id string) {
	delete(c.pending, id)
	c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
}

// CancelAutoDownloads stops the running batch. The queue is kept.
func (c *Coordinator) CancelAutoDownloads() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// ClearPendingDownloads resets queue, counters and progress
func (c *Coordinator) ClearPendingDownloads() {
	c.mu.Lock()
	for id := range c.pending {
		c.retries.ClearRetryState(id)
	}
	c.pending = make(map[string]models.Attachment)
	c.order = nil
	c.completed = 0
	c.total = 0
	c.mu.Unlock()

	c.publish()
}

// HandleSettingsChange applies a new behavior and re-evaluates unless it is onDemand.
func (c *Coordinator) HandleSettingsChange(ctx context.Context, from, to DownloadBehavior) {
	c.mu.Lock()
	c.behavior = to
	c.mu.Unlock()

	c.logger.Debug("download behavior changed", slog.String("from", string(from)), slog.String("to", string(to)))

	if to != DownloadOnDemand {
		c.evaluateAsync(ctx)
	}
}

// HandleNetworkChange re-evaluates when the class changes to one the policy allows
func (c *Coordinator) HandleNetworkChange(ctx context.Context, from, to network.Class) {
	if to == network.ClassNone {
		c.CancelAutoDownloads()
		return
	}
	if c.ShouldAutoDownload() {
		c.evaluateAsync(ctx)
	}
}

// Download fetches one attachment on demand regardless of policy
func (c *Coordinator) Download(ctx context.Context, attachment models.Attachment) error {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()

	if handler == nil {
		return errors.New("no download handler registered")
	}
	if err := handler(ctx, attachment); err != nil {
		return err
	}

	c.retries.ClearRetryState(attachment.ID)
	c.mu.Lock()
	c.removeLocked(attachment.ID)
	c.mu.Unlock()
	c.publish()
	return nil
}

// BlobHandler returns a DownloadHandler that stores payloads under dir
// using the attachment id as the file name.
func BlobHandler(blobs transport.BlobChannel, dir string) DownloadHandler {
	return func(ctx context.Context, attachment models.Attachment) error {
		data, err := blobs.DownloadAttachment(ctx, attachment.ID)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create download dir: %w", err)
		}

		path := LocalPath(dir, attachment)
		tmp := path + ".part"
		if err := os.WriteFile(tmp, data, 0o600); err != nil {
			return fmt.Errorf("failed to write attachment: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("failed to store attachment: %w", err)
		}
		return nil
	}
}

// LocalPath returns where BlobHandler stores attachment
func LocalPath(dir string, attachment models.Attachment) string {
	return filepath.Join(dir, attachment.ID)
}

// MissingLocally returns a PendingProvider over list that skips attachments
// already present in dir.
func MissingLocally(dir string, list func(ctx context.Context) ([]models.Attachment, error)) PendingProvider {
	return func(ctx context.Context) ([]models.Attachment, error) {
		all, err := list(ctx)
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(all, func(a models.Attachment) bool {
			_, err := os.Stat(LocalPath(dir, a))
			return err == nil
		}), nil
	}
}
