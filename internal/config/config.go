// Package config loads the engine's runtime parameters from cobra
// persistent flags, falling back to environment variables for flags
// left unset, so the same
// binary can be pointed at a fresh data directory or tuned buffer
// pool size without a rebuild.
package config

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

const (
	defaultDataDir       = "./data"
	defaultLogFile       = "arcdb.log"
	defaultBlockSize     = 400
	defaultBufferPoolSize = 500
	defaultLockTimeoutMs = 10000
	defaultListenAddr    = ":8765"
	defaultMetricsAddr   = ":9090"
)

// Config holds every parameter needed to bootstrap a Database and its
// network server.
type Config struct {
	DataDir        string
	LogFile        string
	BlockSize      int
	BufferPoolSize int
	LockTimeoutMs  int
	ListenAddr     string
	MetricsAddr    string
	LogLevel       string
}

// Default returns a Config populated with the engine's built-in
// defaults, before any flag or environment override is applied.
func Default() Config {
	return Config{
		DataDir:        defaultDataDir,
		LogFile:        defaultLogFile,
		BlockSize:      defaultBlockSize,
		BufferPoolSize: defaultBufferPoolSize,
		LockTimeoutMs:  defaultLockTimeoutMs,
		ListenAddr:     defaultListenAddr,
		MetricsAddr:    defaultMetricsAddr,
		LogLevel:       "info",
	}
}

// BindFlags registers every Config field as a persistent flag on cmd,
// seeded from Default() and then from any matching ARCDB_* environment
// variable, so flags take precedence only when explicitly passed.
func BindFlags(cmd *cobra.Command, cfg *Config) {
	*cfg = Default()
	applyEnv(cfg)

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "database data directory")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write-ahead log file name, relative to data-dir")
	flags.IntVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "page/block size in bytes")
	flags.IntVar(&cfg.BufferPoolSize, "buffer-pool-size", cfg.BufferPoolSize, "number of buffer frames")
	flags.IntVar(&cfg.LockTimeoutMs, "lock-timeout-ms", cfg.LockTimeoutMs, "lock acquisition timeout in milliseconds")
	flags.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "TCP address the SQL server listens on")
	flags.StringVar(&cfg.MetricsAddr, "metrics-listen", cfg.MetricsAddr, "HTTP address /metrics is served on")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level: debug, info, warn, error")
}

// applyEnv overrides cfg's fields from ARCDB_-prefixed environment
// variables, consulted before flag parsing so explicit flags always
// win.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ARCDB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ARCDB_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("ARCDB_BLOCK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BlockSize = n
		}
	}
	if v := os.Getenv("ARCDB_BUFFER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BufferPoolSize = n
		}
	}
	if v := os.Getenv("ARCDB_LOCK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LockTimeoutMs = n
		}
	}
	if v := os.Getenv("ARCDB_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("ARCDB_METRICS_LISTEN"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("ARCDB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
