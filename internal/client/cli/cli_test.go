package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/client/iocli"
	clientsync "github.com/iudanet/dequeuesync/internal/client/sync"
	"github.com/iudanet/dequeuesync/internal/config"
	"github.com/iudanet/dequeuesync/pkg/api"
)

type harness struct {
	io      *iocli.IOMock
	syncer  *SyncerMock
	opts    *RootOptions
	answers []string
	dir     string
	config  string
	out     bytes.Buffer
	mu      sync.Mutex
}

func newHarness(t *testing.T, serverURL string) *harness {
	t.Helper()

	h := &harness{dir: t.TempDir(), syncer: &SyncerMock{
		StatusFunc: func(ctx context.Context) (*clientsync.Status, error) {
			return &clientsync.Status{}, nil
		},
	}}
	h.config = filepath.Join(h.dir, "client.yaml")
	writeConfig(t, h.config, fmt.Sprintf(`
server_url: %s
db_path: %s
network: wifi
streaming:
  enabled: false
  pull: false
sync:
  max_retries: 0
downloads:
  behavior: wifiOnly
  dir: %s
`, serverURL, filepath.Join(h.dir, "client.db"), filepath.Join(h.dir, "files")))

	h.io = &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			h.mu.Lock()
			defer h.mu.Unlock()
			fmt.Fprintln(&h.out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			h.mu.Lock()
			defer h.mu.Unlock()
			fmt.Fprintf(&h.out, format, a...)
		},
		IsInteractiveFunc: func() bool { return len(h.answers) > 0 },
		ReadInputFunc: func(prompt string) (string, error) {
			return h.next()
		},
		ReadSecretFunc: func(prompt string) (string, error) {
			return h.next()
		},
	}

	h.opts = &RootOptions{
		IO:        h.io,
		LogOutput: io.Discard,
		Open: func(ctx context.Context, cfg config.Client, console iocli.IO, logger *slog.Logger) (*App, error) {
			app, err := Open(ctx, cfg, console, logger)
			if err != nil {
				return nil, err
			}
			app.syncer = h.syncer
			return app, nil
		},
	}
	return h
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func (h *harness) next() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.answers) == 0 {
		return "", io.EOF
	}
	answer := h.answers[0]
	h.answers = h.answers[1:]
	return answer, nil
}

// run выполняет команду и возвращает ее вывод
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	h.mu.Lock()
	h.out.Reset()
	h.mu.Unlock()

	cmd := newRootCommand("test", h.opts)
	cmd.SetArgs(append([]string{"--config", h.config}, args...))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, out)
	return out
}

// createdID вытаскивает id из "Created <kind> <id>"
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3, out)
	require.Equal(t, "Created", fields[0], out)
	return fields[2]
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := api.TokenClaims{
		UserID:   userID,
		DeviceID: "d1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestEntityLifecycle(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")

	id := createdID(t, h.mustRun(t, "add", "task", "Buy milk", "--set", "priority=2"))

	out := h.mustRun(t, "get", "task", id)
	assert.Contains(t, out, `title = "Buy milk"`)
	assert.Contains(t, out, "priority = 2")
	assert.Contains(t, out, "sync: pending")

	h.mustRun(t, "update", "task", id, "--set", "title=Buy oat milk")
	out = h.mustRun(t, "list", "task")
	assert.Contains(t, out, id+"  Buy oat milk")

	out = h.mustRun(t, "complete", id)
	assert.Contains(t, out, "is completed")
	out = h.mustRun(t, "complete", id, "--reopen")
	assert.Contains(t, out, "is open")

	h.mustRun(t, "delete", "task", id)
	out = h.mustRun(t, "list", "task")
	assert.Contains(t, out, "No task entities")

	h.mustRun(t, "restore", "task", id)
	out = h.mustRun(t, "list", "task")
	assert.Contains(t, out, "Buy oat milk")
}

func TestActivateStack(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")

	first := createdID(t, h.mustRun(t, "add", "stack", "Work"))
	second := createdID(t, h.mustRun(t, "add", "stack", "Home"))

	h.mustRun(t, "activate", first)
	h.mustRun(t, "activate", second)

	out := h.mustRun(t, "list", "stack")
	assert.Contains(t, out, second+"  Home  [active")
	assert.NotContains(t, out, first+"  Work  [active")
}

func TestMoveReminder(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")

	task := createdID(t, h.mustRun(t, "add", "task", "Call"))
	arc := createdID(t, h.mustRun(t, "add", "arc", "Q1"))
	reminder := createdID(t, h.mustRun(t, "add", "reminder", "--parent", "task:"+task))

	h.mustRun(t, "move", "reminder", reminder, "arc:"+arc)

	out := h.mustRun(t, "get", "reminder", reminder)
	assert.Contains(t, out, fmt.Sprintf(`parent = {"type":"arc","id":"%s"}`, arc))
}

func TestInvalidInput(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")

	_, err := h.run(t, "add", "widget", "x")
	assert.Error(t, err)

	_, err = h.run(t, "add", "reminder", "--parent", "task")
	assert.Error(t, err)

	_, err = h.run(t, "update", "task", "missing", "--set", "title=x")
	assert.Error(t, err)

	_, err = h.run(t, "add", "task", "x", "--set", "isDeleted=true")
	assert.Error(t, err)

	_, err = h.run(t, "--network", "satellite", "list", "task")
	assert.Error(t, err)
}

func TestLoginAndStatus(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.syncer.StatusFunc = func(ctx context.Context) (*clientsync.Status, error) {
		return &clientsync.Status{Pending: 1, Checkpoint: "c-7"}, nil
	}

	out := h.mustRun(t, "status")
	assert.Contains(t, out, "not logged in")

	out = h.mustRun(t, "login", signToken(t, "user-1"), "--device-name", "laptop")
	assert.Contains(t, out, "Logged in as user-1")

	out = h.mustRun(t, "status")
	assert.Contains(t, out, "User:        user-1")
	assert.Contains(t, out, "Pending:     1")
	assert.Contains(t, out, "Checkpoint:  c-7")

	out = h.mustRun(t, "list", "device")
	assert.Contains(t, out, "laptop")

	h.mustRun(t, "logout")
	out = h.mustRun(t, "status")
	assert.Contains(t, out, "not logged in")
}

func TestLogin_ReadsTokenFromTerminal(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.answers = []string{signToken(t, "user-2")}

	out := h.mustRun(t, "login")
	assert.Contains(t, out, "Logged in as user-2")
	require.Len(t, h.io.ReadSecretCalls(), 1)
}

func TestLogin_NonInteractiveNeedsArgument(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")

	_, err := h.run(t, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token argument is required")
}
