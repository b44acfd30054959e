package geoip_test

import (
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/stretchr/testify/require"
)

// testTimeout is the common timeout for tests.
const testTimeout = 1 * time.Second

// Test database data.
const (
	testASN   = 1221
	testASOrg = "Telstra Pty Ltd"

	testCountryZH     = "澳大利亚"
	testCountryEN     = "Australia"
	testSubdivisionZH = "维多利亚州"
	testCityZH        = "墨尔本"

	testV6ASN   = 2516
	testV6ASOrg = "KDDI CORPORATION"
	testV6Ctry  = "日本"
)

// Test addresses.
var (
	// testIP is present in both databases.
	testIP = netip.MustParseAddr("1.128.0.1")

	// testIPv6 is present in both databases, but has no subdivisions and no
	// city in the location one.
	testIPv6 = netip.MustParseAddr("2001:218::1")

	// testIPLocationOnly is present only in the location database.
	testIPLocationOnly = netip.MustParseAddr("81.2.69.142")

	// testIPASNOnly is present only in the ASN database.
	testIPASNOnly = netip.MustParseAddr("12.81.92.1")

	// testIPAbsent is present in none of the databases.
	testIPAbsent = netip.MustParseAddr("8.8.8.8")
)

// newTestDBs writes the test GeoIP databases into a temporary directory and
// returns their paths.
func newTestDBs(tb testing.TB) (asnPath, locPath string) {
	tb.Helper()

	dir := tb.TempDir()
	asnPath = filepath.Join(dir, "asn.mmdb")
	locPath = filepath.Join(dir, "city.mmdb")

	writeDB(tb, asnPath, "GeoLite2-ASN", map[string]mmdbtype.Map{
		"1.128.0.0/11": {
			"autonomous_system_number":       mmdbtype.Uint32(testASN),
			"autonomous_system_organization": mmdbtype.String(testASOrg),
		},
		"2001:218::/32": {
			"autonomous_system_number":       mmdbtype.Uint32(testV6ASN),
			"autonomous_system_organization": mmdbtype.String(testV6ASOrg),
		},
		"12.81.92.0/22": {
			"autonomous_system_number":       mmdbtype.Uint32(7018),
			"autonomous_system_organization": mmdbtype.String("AT&T Services"),
		},
	})

	writeDB(tb, locPath, "GeoIP2-City", map[string]mmdbtype.Map{
		"1.128.0.0/11": {
			"country": mmdbtype.Map{
				"names": newNames(testCountryZH, testCountryEN),
			},
			"subdivisions": mmdbtype.Slice{
				mmdbtype.Map{"names": newNames("维州", "Victoria State")},
				mmdbtype.Map{"names": newNames(testSubdivisionZH, "Victoria")},
			},
			"city": mmdbtype.Map{
				"names": newNames(testCityZH, "Melbourne"),
			},
		},
		"2001:218::/32": {
			"country": mmdbtype.Map{
				"names": newNames(testV6Ctry, "Japan"),
			},
		},
		"81.2.69.0/24": {
			"country": mmdbtype.Map{
				"names": newNames("英国", "United Kingdom"),
			},
		},
	})

	return asnPath, locPath
}

// newNames returns the localized names of a place.
func newNames(zh, en string) (names mmdbtype.Map) {
	return mmdbtype.Map{
		"zh-CN": mmdbtype.String(zh),
		"en":    mmdbtype.String(en),
	}
}

// writeDB writes a MaxMind database of the given type with the records into
// the file at path.
func writeDB(tb testing.TB, path, dbType string, records map[string]mmdbtype.Map) {
	tb.Helper()

	writeDBWithOptions(tb, path, mmdbwriter.Options{
		DatabaseType: dbType,
		Description:  map[string]string{"en": dbType + " test database"},
		RecordSize:   24,
	}, records)
}

// writeDBWithOptions writes a MaxMind database created with opts with the
// records into the file at path.
func writeDBWithOptions(
	tb testing.TB,
	path string,
	opts mmdbwriter.Options,
	records map[string]mmdbtype.Map,
) {
	tb.Helper()

	w, err := mmdbwriter.New(opts)
	require.NoError(tb, err)

	for cidr, rec := range records {
		var n *net.IPNet
		_, n, err = net.ParseCIDR(cidr)
		require.NoError(tb, err)

		require.NoError(tb, w.Insert(n, rec))
	}

	f, err := os.Create(path)
	require.NoError(tb, err)

	_, err = w.WriteTo(f)
	require.NoError(tb, err)

	require.NoError(tb, f.Close())
}
