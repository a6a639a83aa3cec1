package tui

import (
	"time"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/session"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
)

// Config carries everything the dashboard needs.
type Config struct {
	Client   *api.Client
	Guard    *session.Guard
	Toasts   *toast.Store
	Recents  *icons.Recents
	Theme    themes.Theme
	Month    string
	PageSize int
}

// Option customizes the dashboard configuration.
type Option func(*Config)

// WithTheme selects a named theme.
func WithTheme(name string) Option {
	return func(c *Config) { c.Theme = themes.GetTheme(name) }
}

// WithMonth pins the stats and analytics month ("2025-01").
func WithMonth(month string) Option {
	return func(c *Config) { c.Month = month }
}

// WithPageSize sets the transaction page size.
func WithPageSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PageSize = n
		}
	}
}

// NewConfig applies defaults then options.
func NewConfig(client *api.Client, guard *session.Guard, recents *icons.Recents, opts ...Option) Config {
	cfg := Config{
		Client:   client,
		Guard:    guard,
		Toasts:   toast.NewStore(),
		Recents:  recents,
		Theme:    themes.Default,
		Month:    time.Now().Format("2006-01"),
		PageSize: 20,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
