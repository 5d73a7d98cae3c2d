package config

import (
	"strings"
	"time"

	"github.com/kk-code-lab/rfm/internal/dircache"
	"github.com/kk-code-lab/rfm/internal/logging"
)

const (
	defaultLogLevel        = "warn"
	defaultPreviewMaxBytes = int64(64 * 1024)
	defaultWatchDebounce   = 250 * time.Millisecond
)

// ApplyDefaults fills unset fields and normalises values. Booleans are left
// alone: their defaults come from Load or Default.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDisplayDefaults(&cfg.Display)

	if cfg.Preview.MaxBytes == 0 {
		cfg.Preview.MaxBytes = defaultPreviewMaxBytes
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = defaultWatchDebounce
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = defaultLogLevel
	}
	cfg.Level = strings.ToLower(cfg.Level)
	if cfg.Level == "warning" {
		cfg.Level = "warn"
	}

	if cfg.Output == "" {
		cfg.Output = logging.DefaultOutput()
	}
}

func applyDisplayDefaults(cfg *DisplayConfig) {
	methods := make([]string, 0, len(cfg.SortMethods))
	for _, m := range cfg.SortMethods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			methods = append(methods, m)
		}
	}
	if len(methods) == 0 {
		methods = []string{dircache.SortNatural.String()}
	}
	cfg.SortMethods = methods
}
