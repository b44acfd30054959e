// Package paginate splits result sets into messages sized for the chat
// transport.
package paginate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/validate"
)

// Delivery limits.
const (
	// MaxTotalLength is the number of characters at which the results are cut
	// off regardless of the mode.
	MaxTotalLength = 3000

	// BatchSize is the maximum number of items in a single forward message.
	BatchSize = 100

	// MaxFlushes is the maximum number of full batches sent in one call.
	MaxFlushes = 4
)

// Text markers used in plain messages.
const (
	// Separator is put between items of a plain message.
	Separator = "\n\n"

	// Ellipsis is put after the truncated item of a plain message.
	Ellipsis = "\n..."
)

// Mode is the aggregation mode of the results.
type Mode string

// Valid modes.
const (
	// ModePlainConcat concatenates the results into one plain text message.
	ModePlainConcat Mode = "plain"

	// ModeBatchedCards groups the results into forward messages with one card
	// per result.
	ModeBatchedCards Mode = "forward"
)

// DeliveryConfig is the configuration of a single delivery.
type DeliveryConfig struct {
	// Mode is the aggregation mode.  It must be valid.
	Mode Mode

	// TextLimit is the maximum number of characters in a plain message body.
	// It must be positive.
	TextLimit int
}

// type check
var _ validate.Interface = (*DeliveryConfig)(nil)

// Validate implements the [validate.Interface] interface for *DeliveryConfig.
func (c *DeliveryConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	errs := []error{
		validate.Positive("text_limit", c.TextLimit),
	}

	switch c.Mode {
	case ModePlainConcat, ModeBatchedCards:
		// Go on.
	default:
		errs = append(errs, fmt.Errorf("aggregate_mode: %w: %q", errors.ErrBadEnumValue, c.Mode))
	}

	return errors.Join(errs...)
}

// Config is the configuration structure for a [Paginator].
type Config struct {
	// Logger is used to log the dropped results.  It must not be nil.
	Logger *slog.Logger

	// Metrics is used to collect the delivery statistics.  It must not be
	// nil.
	Metrics Metrics
}

// Paginator splits result sets into messages.  It keeps no state between
// calls and is safe for concurrent use.
type Paginator struct {
	logger  *slog.Logger
	metrics Metrics
}

// New returns a new properly initialized *Paginator.  c must not be nil.
func New(c *Config) (p *Paginator) {
	return &Paginator{
		logger:  c.Logger,
		metrics: c.Metrics,
	}
}

// Paginate sends results into sink according to conf.  conf must be valid.
// The only errors returned are the ones returned by sink, after which no more
// messages are sent.
func (p *Paginator) Paginate(
	ctx context.Context,
	results []string,
	conf *DeliveryConfig,
	sink Sink,
) (err error) {
	switch conf.Mode {
	case ModePlainConcat:
		return p.paginatePlain(ctx, results, conf.TextLimit, sink)
	case ModeBatchedCards:
		return p.paginateBatched(ctx, results, sink)
	default:
		panic(fmt.Errorf("paginate: mode: %w: %q", errors.ErrBadEnumValue, conf.Mode))
	}
}

// paginatePlain concatenates results into a single text message of at most
// limit characters.
func (p *Paginator) paginatePlain(
	ctx context.Context,
	results []string,
	limit int,
	sink Sink,
) (err error) {
	b := &strings.Builder{}
	last := len(results) - 1

	length := 0
	for i, item := range results {
		n := utf8.RuneCountInString(item)
		length += n

		if length >= MaxTotalLength {
			// Don't send the partially built body.
			return p.send(ctx, sink, newNotice(NoticeKindPartial))
		}

		if length < limit {
			b.WriteString(item)
			if i != last {
				b.WriteString(Separator)
			}

			continue
		}

		b.WriteString(truncate(item, n-(length-limit)))
		b.WriteString(Ellipsis)

		break
	}

	if b.Len() == 0 {
		return nil
	}

	return p.send(ctx, sink, &Text{Body: b.String()})
}

// paginateBatched groups results into forward messages of at most [BatchSize]
// items.
func (p *Paginator) paginateBatched(ctx context.Context, results []string, sink Sink) (err error) {
	batch := make([]string, 0, min(len(results), BatchSize))

	length, flushes := 0, 0
	for i, item := range results {
		length += utf8.RuneCountInString(item)

		if length >= MaxTotalLength {
			err = p.send(ctx, sink, newNotice(NoticeKindPartial))
			if err != nil {
				return err
			}

			break
		}

		batch = append(batch, item)
		if len(batch) < BatchSize {
			continue
		}

		if flushes >= MaxFlushes {
			// NOTE:  The overflowing batch and the rest of the results are
			// dropped, only the notice is sent.
			p.drop(ctx, len(batch)+len(results)-i-1)

			return p.send(ctx, sink, newNotice(NoticeKindOverflow))
		}

		err = p.send(ctx, sink, &Forward{Items: batch})
		if err != nil {
			return err
		}

		flushes++
		batch = make([]string, 0, BatchSize)
	}

	if len(batch) == 0 {
		return nil
	}

	return p.send(ctx, sink, &Forward{Items: batch})
}

// send sends msg into sink and records the statistics.
func (p *Paginator) send(ctx context.Context, sink Sink, msg Message) (err error) {
	err = sink.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending %s message: %w", messageType(msg), err)
	}

	p.metrics.IncrementSent(ctx, messageType(msg))

	return nil
}

// drop records that n results have not been delivered.
func (p *Paginator) drop(ctx context.Context, n int) {
	p.logger.DebugContext(ctx, "dropping results after batch overflow", "count", n)

	p.metrics.AddDropped(ctx, n)
}

// messageType returns the type of msg for logging and statistics.
func messageType(msg Message) (typ string) {
	switch msg := msg.(type) {
	case *Text:
		return MessageTypeText
	case *Forward:
		return MessageTypeForward
	case *Notice:
		return MessageTypeNotice + "_" + string(msg.Kind)
	default:
		panic(fmt.Errorf("paginate: message: %w: %T", errors.ErrBadEnumValue, msg))
	}
}

// truncate returns the first n characters of s.  n must not be negative.
func truncate(s string, n int) (res string) {
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}

		i++
	}

	return s
}
