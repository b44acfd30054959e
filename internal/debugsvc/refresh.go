package debugsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/httphdr"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/service"
)

// RefresherID is a type alias for strings that represent IDs of refreshers.
type RefresherID = string

// Refreshers is a type alias for maps of refresher IDs to Refreshers
// themselves.
type Refreshers map[RefresherID]service.Refresher

// refreshAll is the ID that means all refreshers.
const refreshAll RefresherID = "*"

// Refresh results.
const (
	refreshResultOK       = "ok"
	refreshResultNotFound = "error: refresher not found"
)

// refreshHandler performs debug refreshes, for example reloads the GeoIP
// databases.
type refreshHandler struct {
	refrs Refreshers
}

// refreshRequest describes the request to the POST /debug/api/refresh HTTP API.
type refreshRequest struct {
	IDs []RefresherID `json:"ids"`
}

// refreshResponse describes the response to the POST /debug/api/refresh HTTP
// API.
type refreshResponse struct {
	Results map[RefresherID]string `json:"results"`
}

// type check
var _ http.Handler = (*refreshHandler)(nil)

// ServeHTTP implements the [http.Handler] interface for *refreshHandler.
func (h *refreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogutil.MustLoggerFromContext(ctx)

	req := &refreshRequest{}
	err := json.NewDecoder(r.Body).Decode(req)
	if err == nil {
		req.IDs, err = h.expandIDs(req.IDs)
	}

	if err != nil {
		l.ErrorContext(ctx, "bad request", slogutil.KeyError, err)
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	resp := &refreshResponse{
		Results: make(map[RefresherID]string, len(req.IDs)),
	}

	for _, id := range req.IDs {
		resp.Results[id] = h.refresh(ctx, l, id)
	}

	w.Header().Set(httphdr.ContentType, "application/json")
	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		l.DebugContext(ctx, "writing response", slogutil.KeyError, err)
	}
}

// expandIDs validates ids and replaces the wildcard with the sorted IDs of all
// refreshers.
func (h *refreshHandler) expandIDs(ids []RefresherID) (res []RefresherID, err error) {
	switch {
	case len(ids) == 0:
		return nil, fmt.Errorf("ids: %w", errors.ErrEmptyValue)
	case !slices.Contains(ids, refreshAll):
		return ids, nil
	case len(ids) == 1:
		return slices.Sorted(maps.Keys(h.refrs)), nil
	default:
		return nil, fmt.Errorf("%q cannot be used with other ids", refreshAll)
	}
}

// refresh performs a single refresh and returns the result as a string.
func (h *refreshHandler) refresh(ctx context.Context, l *slog.Logger, id RefresherID) (res string) {
	r, ok := h.refrs[id]
	if !ok {
		return refreshResultNotFound
	}

	start := time.Now()
	err := r.Refresh(ctx)
	if err != nil {
		l.ErrorContext(ctx, "refreshing", "id", id, slogutil.KeyError, err)

		return fmt.Sprintf("error: %s", err)
	}

	l.InfoContext(ctx, "refresh finished", "id", id, "duration", time.Since(start))

	return refreshResultOK
}
