package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports engine and store events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnOperation(_ context.Context, ws, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("operation rejected", "workspace", ws, "op", op, "err", err)
		return
	}
	h.logger.Debug("operation applied", "workspace", ws, "op", op, "duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnRelocate(_ context.Context, ws, op string, count int) {
	h.logger.Debug("blocks relocated", "workspace", ws, "op", op, "count", count)
}

func (h *logHooks) OnStoreRead(_ context.Context, ws string, found bool, d time.Duration, err error) {
	h.logger.Debug("store read", "workspace", ws, "found", found, "duration", d.Round(time.Microsecond), "err", err)
}

func (h *logHooks) OnStoreWrite(_ context.Context, ws string, d time.Duration, err error) {
	h.logger.Debug("store write", "workspace", ws, "duration", d.Round(time.Microsecond), "err", err)
}
