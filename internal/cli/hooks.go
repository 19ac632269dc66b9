package cli

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports selection and aggregation events at debug level and
// counts skipped items for the summary lines.
type logHooks struct {
	logger  *log.Logger
	skipped atomic.Int64
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnSelectStart(_ context.Context, recursive, production bool) {
	h.skipped.Store(0)
	h.logger.Debug("selecting packages", "recursive", recursive, "production", production)
}

func (h *logHooks) OnSelectComplete(_ context.Context, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("selection failed", "err", err)
		return
	}
	h.logger.Debug("selection complete", "packages", count, "skipped", h.skipped.Load(), "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnDescriptorSkipped(_ context.Context, descriptor, reason string) {
	h.skipped.Add(1)
	h.logger.Debug("descriptor skipped", "descriptor", descriptor, "reason", reason)
}

func (h *logHooks) OnPackageSkipped(_ context.Context, locator, reason string) {
	h.logger.Debug("package skipped", "locator", locator, "reason", reason)
}

func (h *logHooks) OnEntry(_ context.Context, moduleName string, hasLicenseFile bool) {
	if !hasLicenseFile {
		h.logger.Debug("no license file", "module", moduleName)
	}
}

func (h *logHooks) OnAggregateComplete(_ context.Context, entries int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("aggregation failed", "err", err)
		return
	}
	h.logger.Debug("aggregation complete", "entries", entries, "took", d.Round(time.Millisecond))
}
