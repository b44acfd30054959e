package botcmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/BakaBotTeam/NetworkTools/internal/dnsquery"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/BakaBotTeam/NetworkTools/internal/textmatch"
	"github.com/miekg/dns"
)

// DefaultRecordType is the type of the records queried by [DNSCommand] when no
// types are given.
const DefaultRecordType = "A"

// NoRecords is the reply of [DNSCommand] when there are no records of any of
// the requested types.
const NoRecords = "no records found"

// typesSep is the separator of the record types in the arguments.
const typesSep = ','

// DNSCommandConfig is the configuration structure for a [DNSCommand].
type DNSCommandConfig struct {
	// Logger is used to log the location failures.  It must not be nil.
	Logger *slog.Logger

	// Querier sends the DNS queries.  It must not be nil.
	Querier dnsquery.Interface

	// Describer describes the locations of the addresses from the A and AAAA
	// records.  It must not be nil.
	Describer Describer

	// Paginator delivers the records.  It must not be nil.
	Paginator *paginate.Paginator

	// Delivery is the delivery configuration of the records.  It must not be
	// nil and must be valid.
	Delivery *paginate.DeliveryConfig

	// DefaultResolver is the resolver used when no resolver is given.  It
	// must not be empty.
	DefaultResolver string
}

// DNSCommand queries a resolver for the records of one or more types and
// delivers them through the paginator.
type DNSCommand struct {
	logger          *slog.Logger
	querier         dnsquery.Interface
	describer       Describer
	paginator       *paginate.Paginator
	delivery        *paginate.DeliveryConfig
	defaultResolver string
}

// NewDNSCommand returns a new properly initialized *DNSCommand.  c must not be
// nil and must be valid.
func NewDNSCommand(c *DNSCommandConfig) (cmd *DNSCommand) {
	return &DNSCommand{
		logger:          c.Logger,
		querier:         c.Querier,
		describer:       c.Describer,
		paginator:       c.Paginator,
		delivery:        c.Delivery,
		defaultResolver: c.DefaultResolver,
	}
}

// type check
var _ Command = (*DNSCommand)(nil)

// Name implements the [Command] interface for *DNSCommand.
func (c *DNSCommand) Name() (name string) { return "dns" }

// Usage implements the [Command] interface for *DNSCommand.
func (c *DNSCommand) Usage() (usage string) { return "dns <name> [types] [resolver]" }

// Run implements the [Command] interface for *DNSCommand.  The types are
// separated by commas.
func (c *DNSCommand) Run(ctx context.Context, args []string, sink paginate.Sink) (err error) {
	if len(args) == 0 || len(args) > 3 {
		return &UsageError{Usage: c.Usage()}
	}

	name := args[0]
	types := []string{DefaultRecordType}
	if len(args) > 1 {
		types = textmatch.SplitValues(strings.ToUpper(args[1]), typesSep)
	}

	resolver := c.defaultResolver
	if len(args) > 2 {
		resolver = args[2]
	}

	var results []string
	for _, qt := range types {
		var recs []string
		recs, err = c.querier.Query(ctx, name, qt, resolver)
		if err != nil {
			// Don't wrap the error, because it's informative enough as is.
			return err
		}

		for _, rec := range recs {
			results = append(results, c.format(ctx, qt, rec))
		}
	}

	if len(results) == 0 {
		return sink.Send(ctx, &paginate.Text{Body: name + ": " + NoRecords})
	}

	return c.paginator.Paginate(ctx, results, c.delivery, sink)
}

// format returns the result line of a record.  Addresses are annotated with
// their location.
func (c *DNSCommand) format(ctx context.Context, qt, rec string) (res string) {
	res = qt + " " + rec
	if qt != dns.TypeToString[dns.TypeA] && qt != dns.TypeToString[dns.TypeAAAA] {
		return res
	}

	desc, err := c.describer.Describe(ctx, rec)
	if err != nil {
		c.logger.DebugContext(ctx, "describing address", "addr", rec, slogutil.KeyError, err)

		return res
	}

	return res + " " + desc
}
