package attachments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/iudanet/dequeuesync/internal/client/network"
	"github.com/iudanet/dequeuesync/internal/client/retry"
	"github.com/iudanet/dequeuesync/internal/client/transport"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

// CellularWarningThreshold files larger than this need confirmation on cellular
const CellularWarningThreshold int64 = 10 << 20

// Decision ответ пользователя на предупреждение
type Decision int

const (
	DecisionProceed Decision = iota
	DecisionCancel
	DecisionWaitForWiFi
)

func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "proceed"
	case DecisionCancel:
		return "cancel"
	case DecisionWaitForWiFi:
		return "waitForWiFi"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Upload описывает файл для загрузки
type Upload struct {
	ID       string
	Path     string
	Filename string
	MimeType string
	Size     int64
}

// Warning pending state exposed for rendering a prompt
type Warning struct {
	PendingFilename string
	PendingFileSize int64
	ShowWarning     bool
}

// PendingDecision is a suspended check waiting for Resolve.
type PendingDecision struct {
	done     chan struct{}
	Upload   Upload
	decision Decision
}

// Done is closed once the decision is made
func (p *PendingDecision) Done() <-chan struct{} {
	return p.done
}

// Decision returns the result; valid after Done is closed
func (p *PendingDecision) Decision() Decision {
	<-p.done
	return p.decision
}

// CellularGate asks for confirmation before large uploads on cellular.
type CellularGate struct {
	monitor     network.Monitor
	pending     *PendingDecision
	logger      *slog.Logger
	subscribers []func(Warning)
	wifiQueue   []Upload
	mu          sync.Mutex
	skip        bool
}

// NewCellularGate creates a gate
func NewCellularGate(monitor network.Monitor, logger *slog.Logger) *CellularGate {
	return &CellularGate{monitor: monitor, logger: logger}
}

// SetSkipWarnings sets the session-level flag that bypasses every warning
func (g *CellularGate) SetSkipWarnings(skip bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.skip = skip
}

// Subscribe registers fn for warning state changes. fn may call HandleDecision.
func (g *CellularGate) Subscribe(fn func(Warning)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

// Warning returns the current pending state
func (g *CellularGate) Warning() Warning {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.warningLocked()
}

func (g *CellularGate) warningLocked() Warning {
	if g.pending == nil {
		return Warning{}
	}
	return Warning{
		ShowWarning:     true,
		PendingFileSize: g.pending.Upload.Size,
		PendingFilename: g.pending.Upload.Filename,
	}
}

func (g *CellularGate) notify() {
	g.mu.Lock()
	w := g.warningLocked()
	subs := slices.Clone(g.subscribers)
	g.mu.Unlock()

	for _, fn := range subs {
		fn(w)
	}
}

// BeginCheck returns nil when the upload may proceed right away: the skip
// flag is set, the file is not larger than the threshold or the device is
// on WiFi. Otherwise it returns a PendingDecision that must be resolved.
// A previous unresolved decision is cancelled.
func (g *CellularGate) BeginCheck(u Upload) *PendingDecision {
	g.mu.Lock()
	if g.skip || u.Size <= CellularWarningThreshold || g.monitor.IsWiFi() {
		g.mu.Unlock()
		return nil
	}

	prev := g.pending
	pd := &PendingDecision{Upload: u, done: make(chan struct{})}
	g.pending = pd
	g.mu.Unlock()

	if prev != nil {
		g.finish(prev, DecisionCancel)
	}

	g.logger.Debug("cellular upload warning",
		slog.String("filename", u.Filename),
		slog.Int64("size", u.Size))
	g.notify()

	return pd
}

// Resolve completes pd with d and clears the pending state. waitForWiFi also
// queues the upload. Resolving an already resolved decision is a no-op.
func (g *CellularGate) Resolve(pd *PendingDecision, d Decision) {
	if pd == nil {
		return
	}
	if g.finish(pd, d) {
		g.notify()
	}
}

func (g *CellularGate) finish(pd *PendingDecision, d Decision) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	select {
	case <-pd.done:
		return false
	default:
	}

	pd.decision = d
	close(pd.done)
	if g.pending == pd {
		g.pending = nil
	}
	if d == DecisionWaitForWiFi {
		g.queueLocked(pd.Upload)
	}
	return true
}

// HandleDecision resolves the current pending decision, if any
func (g *CellularGate) HandleDecision(d Decision) {
	g.mu.Lock()
	pd := g.pending
	g.mu.Unlock()

	g.Resolve(pd, d)
}

// CheckUpload is the blocking form of BeginCheck. It waits for
// HandleDecision or ctx; cancellation clears the pending state.
func (g *CellularGate) CheckUpload(ctx context.Context, u Upload) (Decision, error) {
	pd := g.BeginCheck(u)
	if pd == nil {
		return DecisionProceed, nil
	}

	select {
	case <-pd.done:
		return pd.decision, nil
	case <-ctx.Done():
		g.Resolve(pd, DecisionCancel)
		return DecisionCancel, ctx.Err()
	}
}

// QueueForWiFi adds u to the WiFi queue (dedup by id)
func (g *CellularGate) QueueForWiFi(u Upload) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queueLocked(u)
}

func (g *CellularGate) queueLocked(u Upload) {
	if slices.ContainsFunc(g.wifiQueue, func(q Upload) bool { return q.ID == u.ID }) {
		return
	}
	g.wifiQueue = append(g.wifiQueue, u)
}

// GetPendingUploadsForWiFi returns and clears the queue when on WiFi.
// Otherwise it returns nil and keeps the queue.
func (g *CellularGate) GetPendingUploadsForWiFi() []Upload {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.monitor.IsWiFi() {
		return nil
	}
	out := g.wifiQueue
	g.wifiQueue = nil
	return out
}

// WiFiQueue returns a copy of the queue
func (g *CellularGate) WiFiQueue() []Upload {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.wifiQueue)
}

// RemoveFromWiFiQueue drops the upload with id
func (g *CellularGate) RemoveFromWiFiQueue(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.wifiQueue = slices.DeleteFunc(g.wifiQueue, func(u Upload) bool { return u.ID == id })
}

// ClearWiFiQueue drops every queued upload
func (g *CellularGate) ClearWiFiQueue() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.wifiQueue = nil
}

// ErrUploadCancelled returned when the user declined a cellular upload
var ErrUploadCancelled = errors.New("upload cancelled")

// ErrQueuedForWiFi returned when the upload was deferred until WiFi
var ErrQueuedForWiFi = errors.New("upload queued for wifi")

// Uploader sends files through the gate. Failed uploads are retried by its
// own retry manager under the upload id.
type Uploader struct {
	gate     *CellularGate
	blobs    transport.BlobChannel
	retries  *retry.Manager
	logger   *slog.Logger
	failed   map[string]Upload
	maxBytes int64
	mu       sync.Mutex
}

// NewUploader creates an Uploader. maxBytes <= 0 disables the size limit.
func NewUploader(gate *CellularGate, blobs transport.BlobChannel, retries *retry.Manager, maxBytes int64, logger *slog.Logger) *Uploader {
	u := &Uploader{
		gate:     gate,
		blobs:    blobs,
		retries:  retries,
		logger:   logger,
		maxBytes: maxBytes,
		failed:   make(map[string]Upload),
	}
	retries.SetHandler(func(ctx context.Context, key string) error {
		u.mu.Lock()
		up, ok := u.failed[key]
		u.mu.Unlock()
		if !ok {
			return nil
		}
		return u.send(ctx, up)
	})
	return u
}

// Upload checks the gate and sends the file
func (u *Uploader) Upload(ctx context.Context, up Upload) error {
	if u.maxBytes > 0 && up.Size > u.maxBytes {
		return syncerr.Validation(syncerr.OpUpload, fmt.Errorf("%s is %d bytes, limit is %d", up.Filename, up.Size, u.maxBytes))
	}

	decision, err := u.gate.CheckUpload(ctx, up)
	if err != nil {
		return err
	}
	switch decision {
	case DecisionCancel:
		return ErrUploadCancelled
	case DecisionWaitForWiFi:
		return ErrQueuedForWiFi
	}

	return u.send(ctx, up)
}

// Retry is the manual retry affordance for a failed upload
func (u *Uploader) Retry(ctx context.Context, id string) error {
	return u.retries.ManualRetry(ctx, id)
}

// Failed returns retry states of failed uploads
func (u *Uploader) Failed() []retry.State {
	return u.retries.States()
}

func (u *Uploader) send(ctx context.Context, up Upload) error {
	data, err := os.ReadFile(up.Path)
	if err != nil {
		return syncerr.Validation(syncerr.OpUpload, fmt.Errorf("failed to read %s: %w", up.Path, err))
	}

	if err := u.blobs.UploadAttachment(ctx, up.ID, up.MimeType, data); err != nil {
		if syncerr.IsRetryable(err) {
			u.mu.Lock()
			u.failed[up.ID] = up
			u.mu.Unlock()

			state := u.retries.RegisterFailure(up.ID)
			u.logger.Warn("upload failed, will retry",
				slog.String("attachment_id", up.ID),
				slog.Int("attempt", state.AttemptCount),
				slog.Any("error", err))
		}
		return err
	}

	u.mu.Lock()
	delete(u.failed, up.ID)
	u.mu.Unlock()
	u.retries.ClearRetryState(up.ID)

	u.logger.Info("attachment uploaded", slog.String("attachment_id", up.ID), slog.Int64("size", up.Size))
	return nil
}

// FlushWiFiQueue uploads everything queued for WiFi and returns the uploads
// that were sent. Failures do not stop the remaining uploads; the first
// error is returned. Retryable failures move to the retry schedule, the
// rest go back to the WiFi queue.
func (u *Uploader) FlushWiFiQueue(ctx context.Context) ([]Upload, error) {
	var (
		sent     []Upload
		firstErr error
	)
	for _, up := range u.gate.GetPendingUploadsForWiFi() {
		if err := u.send(ctx, up); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if !syncerr.IsRetryable(err) {
				u.gate.QueueForWiFi(up)
			}
			continue
		}
		sent = append(sent, up)
	}
	return sent, firstErr
}
