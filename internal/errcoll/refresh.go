package errcoll

import (
	"context"
	"log/slog"

	"github.com/AdguardTeam/golibs/service"
)

// RefreshErrorHandler is a [service.ErrorHandler] that logs the errors of the
// refresh workers and sends them to an error collector.
type RefreshErrorHandler struct {
	logger  *slog.Logger
	errColl Interface
}

// NewRefreshErrorHandler returns a new properly initialized
// *RefreshErrorHandler.  All arguments must not be nil.
func NewRefreshErrorHandler(logger *slog.Logger, errColl Interface) (h *RefreshErrorHandler) {
	return &RefreshErrorHandler{
		logger:  logger,
		errColl: errColl,
	}
}

// type check
var _ service.ErrorHandler = (*RefreshErrorHandler)(nil)

// Handle implements the [service.ErrorHandler] interface for
// *RefreshErrorHandler.
func (h *RefreshErrorHandler) Handle(ctx context.Context, err error) {
	Collect(ctx, h.errColl, h.logger, "refreshing", err)
}
