// Package obslevel implements a per-module log level filter on top of
// log/slog, the Go-native reading of the reference CLI's REVENG_LOG_LEVEL
// environment variable (SPEC_FULL.md §9), grounded on
// original_source/bin/src/logging/{init,logger}.rs.
package obslevel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// EnvVar is the environment variable this package parses: a default level,
// optionally followed by comma-separated per-module overrides
// ("info,pkg/device=debug,pkg/filetransfer=trace").
const EnvVar = "V5_LOG"

var levelNames = map[string]slog.Level{
	"trace": slog.LevelDebug - 4,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
	"off":   slog.LevelError + 4,
}

// ParseLevel accepts one of the fixed level names, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("invalid log level %q: valid levels are trace, debug, info, warn, error, off", s)
	}
	return level, nil
}

// Config is a parsed EnvVar value: a default level plus per-module
// overrides keyed by the module name exactly as written in the variable
// (this package does not attempt to reconcile that against Go package
// import paths; callers name their own modules when building a Handler).
type Config struct {
	Default slog.Level
	Modules map[string]slog.Level
}

// Parse reads raw in the "default,module=level,..." shape. An empty raw
// yields Config{Default: slog.LevelInfo}.
func Parse(raw string) (Config, error) {
	cfg := Config{Default: slog.LevelInfo, Modules: map[string]slog.Level{}}
	if strings.TrimSpace(raw) == "" {
		return cfg, nil
	}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		module, levelStr, hasModule := strings.Cut(item, "=")
		level, err := ParseLevel(levelStr)
		if !hasModule {
			level, err = ParseLevel(module)
			if err != nil {
				return Config{}, err
			}
			cfg.Default = level
			continue
		}
		if err != nil {
			return Config{}, err
		}
		cfg.Modules[module] = level
	}
	return cfg, nil
}

// levelForModule resolves the effective level for module, falling back to
// the configured default.
func (c Config) levelForModule(module string) slog.Level {
	if level, ok := c.Modules[module]; ok {
		return level
	}
	return c.Default
}

// moduleKey is the context key a Handler's With/WithGroup-produced logger
// can carry to identify which module it was built for.
type moduleKey struct{}

// WithModule returns a context that tags log records issued through it as
// belonging to module, so a Handler built from Config can apply that
// module's configured level.
func WithModule(ctx context.Context, module string) context.Context {
	return context.WithValue(ctx, moduleKey{}, module)
}

func moduleFromContext(ctx context.Context) string {
	module, _ := ctx.Value(moduleKey{}).(string)
	return module
}

// Handler wraps an inner slog.Handler, consulting cfg for the per-module
// level before delegating, the Go-native reading of SimpleLogger's
// actually_enabled in original_source/bin/src/logging/logger.rs.
type Handler struct {
	inner  slog.Handler
	cfg    Config
	module string
}

// New wraps inner with cfg's level filtering. module is this handler's own
// static module tag, used when the record's context carries none (the
// common case: one Handler per package-level *slog.Logger).
func New(inner slog.Handler, cfg Config, module string) *Handler {
	return &Handler{inner: inner, cfg: cfg, module: module}
}

func (h *Handler) moduleFor(ctx context.Context) string {
	if m := moduleFromContext(ctx); m != "" {
		return m
	}
	return h.module
}

// Enabled reports whether level passes the configured threshold for the
// record's module.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.cfg.levelForModule(h.moduleFor(ctx))
}

// Handle delegates to the inner handler once Enabled has already passed.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	return h.inner.Handle(ctx, record)
}

// WithAttrs returns a new Handler wrapping the inner handler's WithAttrs
// result, preserving this handler's module tag and config.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs), cfg: h.cfg, module: h.module}
}

// WithGroup returns a new Handler wrapping the inner handler's WithGroup
// result, preserving this handler's module tag and config.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), cfg: h.cfg, module: h.module}
}

var _ slog.Handler = (*Handler)(nil)
