package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks forwards pipeline, cache and HTTP events to a logger at debug
// level, and failures at error level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnParseStart(_ context.Context, format string, size int) {
	h.Logger.Debug("parse started", "format", format, "bytes", size)
}

func (h *LogHooks) OnParseComplete(_ context.Context, format string, floors int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("parse failed", "format", format, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("parse complete", "format", format, "floors", floors, "duration", d)
}

func (h *LogHooks) OnResolveStart(_ context.Context, floors int) {
	h.Logger.Debug("resolve started", "floors", floors)
}

func (h *LogHooks) OnResolveComplete(_ context.Context, rooms, diagnostics int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("resolve failed", "duration", d, "err", err)
		return
	}
	h.Logger.Debug("resolve complete", "rooms", rooms, "diagnostics", diagnostics, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "formats", formats, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, stage string) {
	h.Logger.Debug("cache hit", "stage", stage)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, stage string) {
	h.Logger.Debug("cache miss", "stage", stage)
}

func (h *LogHooks) OnCacheSet(_ context.Context, stage string, size int) {
	h.Logger.Debug("cache set", "stage", stage, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Error("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
