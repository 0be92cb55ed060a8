package config

import (
	"errors"
	"time"
)

// Server конфигурация сервера
type Server struct {
	Addr              string          `yaml:"addr"`
	DBPath            string          `yaml:"db_path"`
	JWTSecret         string          `yaml:"jwt_secret"`
	Log               LogConfig       `yaml:"log"`
	RateLimit         RateLimitConfig `yaml:"rate_limit"`
	AccessTokenTTL    time.Duration   `yaml:"access_token_ttl"`
	PageLimit         int             `yaml:"page_limit"`
	StreamBatchSize   int             `yaml:"stream_batch_size"`
	MaxAttachmentSize int64           `yaml:"max_attachment_size"`
}

// RateLimitConfig лимит запросов на пользователя
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// DefaultServer returns defaults
func DefaultServer() Server {
	return Server{
		Addr:              ":8080",
		DBPath:            "dequeuesync-server.db",
		Log:               LogConfig{Level: "info", Format: "text"},
		RateLimit:         RateLimitConfig{Requests: 600, Window: time.Minute},
		AccessTokenTTL:    24 * time.Hour,
		PageLimit:         500,
		StreamBatchSize:   100,
		MaxAttachmentSize: 100 << 20,
	}
}

// LoadServer reads path over defaults. Unlike the client the file must exist.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	if path != "" {
		if err := load(path, &cfg, false); err != nil {
			return Server{}, err
		}
	}
	return cfg, nil
}

// Validate checks configuration
func (s Server) Validate() error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if s.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if len(s.JWTSecret) < 32 {
		errs = append(errs, errors.New("jwt_secret must be at least 32 bytes"))
	}
	if s.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("access_token_ttl must be positive"))
	}
	if s.PageLimit <= 0 || s.StreamBatchSize <= 0 {
		errs = append(errs, errors.New("page_limit and stream_batch_size must be positive"))
	}
	if s.RateLimit.Requests <= 0 || s.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit: requests and window must be positive"))
	}
	if err := s.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
