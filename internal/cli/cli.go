package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labforge/pkg/assist"
	"github.com/matzehuels/labforge/pkg/cache"
	"github.com/matzehuels/labforge/pkg/config"
	lfio "github.com/matzehuels/labforge/pkg/io"
	"github.com/matzehuels/labforge/pkg/session"
	"github.com/matzehuels/labforge/pkg/topology"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "labforge"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is set by --config. Empty means the default location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Workspace Factory
// =============================================================================

// loadConfig reads the configuration named by --config, or the default file.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "path", c.ConfigPath, "assistant", cfg.Assistant.Enabled, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// loadStore imports path, or returns the demo lab when path is empty.
func loadStore(path string) (*topology.Store, error) {
	if path == "" {
		return topology.NewSeeded(), nil
	}
	return lfio.Import(path)
}

// openCache opens the assistant response cache. Failures degrade to no
// caching; the assistant works without it.
func (c *CLI) openCache(ctx context.Context, cfg config.Cache) cache.Cache {
	dir := cfg.Dir
	if dir == "" && (cfg.Backend == cache.BackendFile || cfg.Backend == "") {
		if d, err := cacheDir(); err == nil {
			dir = d
		}
	}
	ch, err := cache.Open(ctx, cache.Options{
		Backend:   cfg.Backend,
		Dir:       dir,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	})
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

// newSummarizer builds the assistant client. Without an endpoint it returns
// assist.Noop, which fails every request.
func newSummarizer(cfg config.Assistant, ch cache.Cache) (assist.Summarizer, error) {
	if cfg.Endpoint == "" {
		return assist.Noop{}, nil
	}
	client, err := assist.NewChatClient(assist.ChatConfig{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout.Duration,
		Cache:    ch,
		CacheTTL: cfg.CacheTTL.Duration,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// workspace bundles a session with the resources it borrows.
type workspace struct {
	*session.Session
	cfg   config.Config
	cache cache.Cache
}

func (w *workspace) Close() {
	w.Session.Close()
	_ = w.cache.Close()
}

// openWorkspace loads config and topology and starts a session over them.
func (c *CLI) openWorkspace(ctx context.Context, path string) (*workspace, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := loadStore(path)
	if err != nil {
		return nil, err
	}
	ch := c.openCache(ctx, cfg.Cache)
	summarizer, err := newSummarizer(cfg.Assistant, ch)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	sess := session.New(session.Options{
		Logger:     loggerFromContext(ctx),
		Summarizer: summarizer,
		Policy:     &cfg.Policy,
		Store:      store,
	})
	return &workspace{Session: sess, cfg: cfg, cache: ch}, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/labforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// argPath returns the optional topology file argument.
func argPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
