package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientsync "github.com/iudanet/dequeuesync/internal/client/sync"
)

// blobServer хранит содержимое вложений в памяти
type blobServer struct {
	blobs    map[string][]byte
	failures int
	mu       sync.Mutex
}

func newBlobServer(t *testing.T) (*blobServer, *httptest.Server) {
	t.Helper()

	bs := &blobServer{blobs: make(map[string][]byte)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/attachments/")

		bs.mu.Lock()
		defer bs.mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			if bs.failures > 0 {
				bs.failures--
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			data, _ := io.ReadAll(r.Body)
			bs.blobs[id] = data
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			data, ok := bs.blobs[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(data)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return bs, srv
}

func (b *blobServer) get(id string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[id]
	return data, ok
}

// attachmentFixture: залогиненный клиент и задача-родитель
func attachmentFixture(t *testing.T) (*harness, *blobServer, string) {
	t.Helper()

	bs, srv := newBlobServer(t)
	h := newHarness(t, srv.URL)
	h.mustRun(t, "login", signToken(t, "user-1"))
	task := createdID(t, h.mustRun(t, "add", "task", "Report"))
	return h, bs, task
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// bigFile создает разреженный файл больше порога предупреждения
func bigFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "video.mp4")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(11<<20))
	require.NoError(t, f.Close())
	return path
}

func uploadedID(t *testing.T, out string) string {
	t.Helper()
	i := strings.Index(out, "as attachment ")
	require.GreaterOrEqual(t, i, 0, out)
	return strings.Fields(out[i+len("as attachment "):])[0]
}

func TestUploadAndDownload(t *testing.T) {
	h, bs, task := attachmentFixture(t)
	path := writeFile(t, h.dir, "notes.txt", "hello")

	id := uploadedID(t, h.mustRun(t, "upload", path, "--parent", "task:"+task))

	data, ok := bs.get(id)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))

	out := h.mustRun(t, "get", "attachment", id)
	assert.Contains(t, out, `uploadState = "uploaded"`)
	assert.Contains(t, out, `mimeType = "text/plain; charset=utf-8"`)
	assert.Contains(t, out, "size = 5")

	out = h.mustRun(t, "download")
	assert.Contains(t, out, "Downloaded 1 of 1 attachment(s)")

	saved, err := os.ReadFile(filepath.Join(h.dir, "files", id))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(saved))

	out = h.mustRun(t, "download")
	assert.Contains(t, out, "All attachments are downloaded")

	require.NoError(t, os.Remove(filepath.Join(h.dir, "files", id)))
	out = h.mustRun(t, "download", id)
	assert.Contains(t, out, "Saved notes.txt")
}

func TestDownload_OnDemandBehavior(t *testing.T) {
	h, _, _ := attachmentFixture(t)

	out := h.mustRun(t, "download", "--behavior", "onDemand")
	assert.Contains(t, out, "Automatic downloads are off (behavior onDemand, network wifi)")

	_, err := h.run(t, "download", "--behavior", "sometimes")
	assert.Error(t, err)
}

func TestUpload_RequiresParent(t *testing.T) {
	h, _, _ := attachmentFixture(t)
	path := writeFile(t, h.dir, "a.txt", "x")

	_, err := h.run(t, "upload", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--parent is required")
}

func TestUpload_CellularQueuedUntilWiFi(t *testing.T) {
	h, bs, task := attachmentFixture(t)
	path := bigFile(t, h.dir)

	out := h.mustRun(t, "--network", "cellular", "upload", path, "--parent", "task:"+task)
	assert.Contains(t, out, "will be uploaded on WiFi")
	assert.Empty(t, bs.blobs)

	out = h.mustRun(t, "--network", "cellular", "status")
	assert.Contains(t, out, "Uploads waiting for WiFi: 1")

	h.syncer.SyncFunc = func(ctx context.Context) (*clientsync.SyncResult, error) {
		return &clientsync.SyncResult{Pull: &clientsync.PullResult{}}, nil
	}
	out = h.mustRun(t, "sync")
	assert.Contains(t, out, "Uploaded 1 queued attachment(s)")
	assert.Len(t, bs.blobs, 1)

	out = h.mustRun(t, "status")
	assert.NotContains(t, out, "Uploads waiting for WiFi")
}

func TestUpload_CellularPrompt(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		expected string
		uploaded bool
	}{
		{name: "cancel", answer: "c", expected: "Upload cancelled"},
		{name: "proceed", answer: "y", expected: "Uploaded video.mp4", uploaded: true},
		{name: "wait", answer: "w", expected: "will be uploaded on WiFi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, bs, task := attachmentFixture(t)
			path := bigFile(t, h.dir)
			h.answers = []string{tt.answer}

			out := h.mustRun(t, "--network", "cellular", "upload", path, "--parent", "task:"+task)
			assert.Contains(t, out, tt.expected)
			assert.Equal(t, tt.uploaded, len(bs.blobs) == 1)
			require.Len(t, h.io.ReadInputCalls(), 1)
			assert.Contains(t, h.io.ReadInputCalls()[0].Prompt, "video.mp4 is 11.0 MB")
		})
	}
}

func TestUpload_CancelledRemovesAttachment(t *testing.T) {
	h, _, task := attachmentFixture(t)
	path := bigFile(t, h.dir)
	h.answers = []string{"c"}

	h.mustRun(t, "--network", "cellular", "upload", path, "--parent", "task:"+task)

	out := h.mustRun(t, "list", "attachment")
	assert.Contains(t, out, "No attachment entities")
}

func TestUpload_SkipCellularWarning(t *testing.T) {
	h, bs, task := attachmentFixture(t)
	path := bigFile(t, h.dir)

	out := h.mustRun(t, "--network", "cellular", "upload", path, "--parent", "task:"+task, "--skip-cellular-warning")
	assert.Contains(t, out, "Uploaded video.mp4")
	assert.Len(t, bs.blobs, 1)
	assert.Empty(t, h.io.ReadInputCalls())
}

func TestUpload_RetryAfterFailure(t *testing.T) {
	h, bs, task := attachmentFixture(t)
	bs.failures = 1
	path := writeFile(t, h.dir, "notes.txt", "hello")
	h.answers = []string{"y"}

	out := h.mustRun(t, "upload", path, "--parent", "task:"+task)
	assert.Contains(t, out, "Uploaded notes.txt")
	require.Len(t, h.io.ReadInputCalls(), 1)
	assert.Contains(t, h.io.ReadInputCalls()[0].Prompt, "Retry now?")
	assert.Len(t, bs.blobs, 1)
}
