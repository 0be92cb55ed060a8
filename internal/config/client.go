package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/dequeuesync/internal/client/attachments"
	"github.com/iudanet/dequeuesync/internal/client/network"
	"github.com/iudanet/dequeuesync/internal/client/retry"
)

// Client конфигурация клиента
type Client struct {
	ServerURL string          `yaml:"server_url"`
	StreamURL string          `yaml:"stream_url"` // пусто: выводится из server_url
	DBPath    string          `yaml:"db_path"`
	AppID     string          `yaml:"app_id"`
	Network   string          `yaml:"network"` // none, wifi, cellular
	Log       LogConfig       `yaml:"log"`
	Downloads DownloadsConfig `yaml:"downloads"`
	Streaming StreamingConfig `yaml:"streaming"`
	Sync      SyncConfig      `yaml:"sync"`
	Retry     retry.Config    `yaml:"retry"`
	Uploads   UploadsConfig   `yaml:"uploads"`
}

// StreamingConfig websocket канал
type StreamingConfig struct {
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	Enabled      bool          `yaml:"enabled"`
	Pull         bool          `yaml:"pull"`
}

// SyncConfig параметры циклов синхронизации
type SyncConfig struct {
	BatchSize      int           `yaml:"batch_size"`
	PageSize       int           `yaml:"page_size"`
	Interval       time.Duration `yaml:"interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	StreamTimeout  time.Duration `yaml:"stream_timeout"`
	MaxRetries     uint64        `yaml:"max_retries"` // повторы внутри одного HTTP запроса
}

// DownloadsConfig политика загрузки вложений
type DownloadsConfig struct {
	Behavior string `yaml:"behavior"` // always, wifiOnly, onDemand
	Dir      string `yaml:"dir"`
}

// UploadsConfig ограничения выгрузки
type UploadsConfig struct {
	MaxSize int64        `yaml:"max_size"`
	Retry   retry.Config `yaml:"retry"`
}

// DefaultClient returns defaults
func DefaultClient() Client {
	return Client{
		ServerURL: "http://localhost:8080",
		DBPath:    "dequeuesync-client.db",
		AppID:     "dequeuesync-cli",
		Network:   string(network.ClassWiFi),
		Log:       LogConfig{Level: "info", Format: "text"},
		Streaming: StreamingConfig{
			Enabled:      true,
			Pull:         true,
			DialTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Sync: SyncConfig{
			BatchSize:      100,
			PageSize:       200,
			Interval:       30 * time.Second,
			RequestTimeout: 30 * time.Second,
			StreamTimeout:  2 * time.Minute,
			MaxRetries:     2,
		},
		Retry: retry.DefaultConfig(),
		Uploads: UploadsConfig{
			MaxSize: 100 << 20,
			Retry:   retry.DefaultConfig(),
		},
		Downloads: DownloadsConfig{
			Behavior: string(attachments.DownloadWiFiOnly),
			Dir:      "attachments",
		},
	}
}

// LoadClient reads path over defaults. A missing file yields defaults.
func LoadClient(path string) (Client, error) {
	cfg := DefaultClient()
	if path != "" {
		if err := load(path, &cfg, true); err != nil {
			return Client{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// Validate checks configuration
func (c Client) Validate() error {
	var errs []error

	if _, err := url.ParseRequestURI(c.ServerURL); err != nil {
		errs = append(errs, fmt.Errorf("server_url: %w", err))
	}
	if c.StreamURL != "" {
		u, err := url.Parse(c.StreamURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			errs = append(errs, fmt.Errorf("stream_url: want ws:// or wss:// URL, got %q", c.StreamURL))
		}
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.AppID == "" {
		errs = append(errs, errors.New("app_id is required"))
	}
	if _, err := network.ParseClass(c.Network); err != nil {
		errs = append(errs, err)
	}
	if _, err := attachments.ParseDownloadBehavior(c.Downloads.Behavior); err != nil {
		errs = append(errs, fmt.Errorf("downloads: %w", err))
	}
	if c.Sync.BatchSize <= 0 || c.Sync.PageSize <= 0 {
		errs = append(errs, errors.New("sync: batch_size and page_size must be positive"))
	}
	if c.Sync.Interval <= 0 || c.Sync.RequestTimeout <= 0 || c.Sync.StreamTimeout <= 0 {
		errs = append(errs, errors.New("sync: interval and timeouts must be positive"))
	}
	if err := c.Retry.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Uploads.Retry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("uploads: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// WebSocketURL returns stream_url or derives it from server_url
func (c Client) WebSocketURL() string {
	if c.StreamURL != "" {
		return c.StreamURL
	}
	base := strings.TrimRight(c.ServerURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/v1/stream"
}
