package ratelimit

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/service"
)

// FileUpdaterConfig is the configuration structure for a [FileUpdater].
type FileUpdaterConfig struct {
	// Logger is used to log the updates.  It must not be nil.
	Logger *slog.Logger

	// Allowlist is the allowlist to update.  It must not be nil.
	Allowlist *DynamicAllowlist

	// Path is the path to the file with the sender IDs, one per line.  Empty
	// lines and lines starting with "#" are ignored.  It must not be empty.
	Path string
}

// FileUpdater updates the dynamic part of an allowlist from a file.
type FileUpdater struct {
	logger    *slog.Logger
	allowlist *DynamicAllowlist
	path      string
}

// NewFileUpdater returns a new properly initialized *FileUpdater.  c must not
// be nil and must be valid.
func NewFileUpdater(c *FileUpdaterConfig) (u *FileUpdater) {
	return &FileUpdater{
		logger:    c.Logger,
		allowlist: c.Allowlist,
		path:      c.Path,
	}
}

// type check
var _ service.Refresher = (*FileUpdater)(nil)

// Refresh implements the [service.Refresher] interface for *FileUpdater.
func (u *FileUpdater) Refresh(ctx context.Context) (err error) {
	defer func() { err = errors.Annotate(err, "updating allowlist from %q: %w", u.path) }()

	// #nosec G304 -- Trust the path, since it's given in the configuration.
	b, err := os.ReadFile(u.path)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	ids, err := parseIDs(b)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	u.allowlist.Update(ids)

	u.logger.InfoContext(ctx, "updated allowlist", "num", len(ids))

	return nil
}

// parseIDs returns the sender IDs from b.
func parseIDs(b []byte) (ids []string, err error) {
	s := bufio.NewScanner(bytes.NewReader(b))
	for lineNum := 1; s.Scan(); lineNum++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.ContainsAny(line, " \t") {
			return nil, fmt.Errorf("line %d: bad sender id %q", lineNum, line)
		}

		ids = append(ids, line)
	}

	return ids, s.Err()
}
