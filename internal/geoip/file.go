package geoip

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"sync"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/service"
	"github.com/oschwald/maxminddb-golang"
)

// DefaultLanguage is the default language of the location names.
const DefaultLanguage = "zh-CN"

// errNotLoaded is returned by [File.Data] when the databases have not been
// loaded yet.
const errNotLoaded errors.Error = "geoip databases are not loaded"

// FileConfig is the file-based GeoIP configuration structure.
type FileConfig struct {
	// Logger is used for logging the operation of the file-based GeoIP
	// database.  It must not be nil.
	Logger *slog.Logger

	// Metrics is used for the collection of the GeoIP database statistics.  It
	// must not be nil.
	Metrics Metrics

	// ASNPath is the path to the GeoIP database of ASNs in the GeoLite2-ASN
	// format.
	ASNPath string

	// LocationPath is the path to the GeoIP database of locations in the
	// GeoIP2-City format.  The databases without subdivisions and cities are
	// also supported.
	LocationPath string

	// Language is the language of the location names, for example "zh-CN" or
	// "en".  If empty, [DefaultLanguage] is used.
	Language string
}

// File is a file implementation of [Interface].  It must be refreshed before
// use.
type File struct {
	logger  *slog.Logger
	metrics Metrics

	// mu protects asn and location against simultaneous access during a
	// refresh.
	mu *sync.RWMutex

	asn      *maxminddb.Reader
	location *maxminddb.Reader

	asnPath      string
	locationPath string
	lang         string
}

// NewFile returns a new GeoIP database that reads information from files.  c
// must not be nil.
func NewFile(c *FileConfig) (f *File) {
	lang := c.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	return &File{
		logger:  c.Logger,
		metrics: c.Metrics,

		mu: &sync.RWMutex{},

		asnPath:      c.ASNPath,
		locationPath: c.LocationPath,
		lang:         lang,
	}
}

// type check
var _ Interface = (*File)(nil)

// Data implements the [Interface] interface for *File.
func (f *File) Data(_ context.Context, ip netip.Addr) (l *Location, err error) {
	ip = ip.Unmap()

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.asn == nil || f.location == nil {
		return nil, errNotLoaded
	}

	l = &Location{}

	err = f.setASN(l, ip)
	if err != nil {
		return nil, fmt.Errorf("looking up asn for %s: %w", ip, err)
	}

	err = f.setLocation(l, ip)
	if err != nil {
		return nil, fmt.Errorf("looking up location for %s: %w", ip, err)
	}

	return l, nil
}

// asnResult is used to retrieve autonomous system data from a GeoIP reader.
type asnResult struct {
	Organization string `maxminddb:"autonomous_system_organization"`
	ASN          uint32 `maxminddb:"autonomous_system_number"`
}

// setASN looks up and sets the autonomous system number and organization of ip
// into loc.  loc must not be nil.
func (f *File) setASN(loc *Location, ip netip.Addr) (err error) {
	var res asnResult
	_, ok, err := f.asn.LookupNetwork(ip.AsSlice(), &res)
	if err != nil {
		return err
	} else if !ok {
		return ErrNotFound
	}

	loc.ASN = ASN(res.ASN)
	loc.ASOrg = res.Organization

	return nil
}

// names are the localized names of a place.
type names = map[string]string

// locationResult is used to retrieve the country, subdivisions, and city data
// from a GeoIP reader.
type locationResult struct {
	City struct {
		Names names `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		Names names `maxminddb:"names"`
	} `maxminddb:"country"`
	Subdivisions []struct {
		Names names `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
}

// setLocation looks up and sets the country, the most specific subdivision, and
// the city names of ip into loc.  loc must not be nil.
func (f *File) setLocation(loc *Location, ip netip.Addr) (err error) {
	var res locationResult
	_, ok, err := f.location.LookupNetwork(ip.AsSlice(), &res)
	if err != nil {
		return err
	} else if !ok {
		return ErrNotFound
	}

	loc.Country = res.Country.Names[f.lang]
	loc.City = res.City.Names[f.lang]

	if n := len(res.Subdivisions); n > 0 {
		loc.Subdivision = res.Subdivisions[n-1].Names[f.lang]
	}

	return nil
}

// type check
var _ service.Refresher = (*File)(nil)

// Refresh implements the [service.Refresher] interface for *File.  It reopens
// the GeoIP database files.
func (f *File) Refresh(ctx context.Context) (err error) {
	f.logger.InfoContext(ctx, "refresh started")
	defer f.logger.InfoContext(ctx, "refresh finished")

	asn, err := geoIPFromFile(f.asnPath)
	f.metrics.HandleASNUpdateStatus(ctx, err)
	if err != nil {
		return fmt.Errorf("reading asn geoip: %w", err)
	}

	location, err := geoIPFromFile(f.locationPath)
	f.metrics.HandleLocationUpdateStatus(ctx, err)
	if err != nil {
		return fmt.Errorf("reading location geoip: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.asn, f.location = asn, location

	return nil
}

// geoIPFromFile reads the entire content of the file at fn and returns an
// initialized and checked reader.
func geoIPFromFile(fn string) (r *maxminddb.Reader, err error) {
	// #nosec G304 -- Trust the paths to the GeoIP database files that are given
	// from the environment.
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("reading geoip file: %w", err)
	}

	r, err = maxminddb.FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("parsing geoip file %q: %w", fn, err)
	}

	err = r.Verify()
	if err != nil {
		return nil, fmt.Errorf("checking geoip %q: %w", fn, err)
	}

	return r, nil
}
