package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/server/handlers"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts := &Options{
		Out:       &out,
		LogOutput: &errOut,
		Getenv:    func(key string) string { return env[key] },
	}
	cmd := newRootCommand("test", opts)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestTokenCommand(t *testing.T) {
	path := writeConfig(t, "jwt_secret: "+testSecret+"\naccess_token_ttl: 1h\n")

	out, errOut, err := execute(t, nil, "--config", path, "token", "alice", "phone", "--ttl", "30m")
	require.NoError(t, err)
	assert.Contains(t, errOut, "expires")

	claims, err := handlers.ValidateAccessToken(handlers.JWTConfig{Secret: []byte(testSecret)}, strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.Equal(t, "phone", claims.DeviceID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenCommand_SecretFromEnv(t *testing.T) {
	env := map[string]string{SecretEnv: strings.Repeat("s", 40)}

	out, _, err := execute(t, env, "token", "alice", "phone")
	require.NoError(t, err)

	_, err = handlers.ValidateAccessToken(handlers.JWTConfig{Secret: []byte(strings.Repeat("s", 40))}, strings.TrimSpace(out))
	assert.NoError(t, err)
}

func TestTokenCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing secret", args: []string{"token", "alice", "phone"}, wantErr: "jwt_secret"},
		{name: "missing device", args: []string{"token", "alice"}, wantErr: "accepts 2 arg(s)"},
		{name: "bad user id", args: []string{"token", "alice smith", "phone"}, wantErr: "user id"},
		{name: "missing config file", args: []string{"--config", "/nonexistent/server.yaml", "token", "a", "b"}, wantErr: "server.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, nil, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServe_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "jwt_secret: short\n")

	_, _, err := execute(t, nil, "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

// syncBuffer пишется логгером сервера и читается тестом одновременно
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServe_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	var out, errOut syncBuffer
	opts := &Options{
		Out:       &out,
		LogOutput: &errOut,
		Getenv:    func(string) string { return testSecret },
	}
	cmd := newRootCommand("test", opts)
	cmd.SetArgs([]string{"--addr", "127.0.0.1:0", "--db", filepath.Join(dir, "server.db")})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool { return strings.Contains(errOut.String(), "server started") }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.FileExists(t, filepath.Join(dir, "server.db"))
}
