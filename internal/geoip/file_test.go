package geoip_test

import (
	"context"
	"net/netip"
	"path/filepath"
	"testing"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/BakaBotTeam/NetworkTools/internal/geoip"
	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestFile returns a refreshed *geoip.File with the test databases.
func newTestFile(t *testing.T, lang string) (f *geoip.File) {
	t.Helper()

	asnPath, locPath := newTestDBs(t)
	f = geoip.NewFile(&geoip.FileConfig{
		Logger:       slogutil.NewDiscardLogger(),
		Metrics:      geoip.EmptyMetrics{},
		ASNPath:      asnPath,
		LocationPath: locPath,
		Language:     lang,
	})

	ctx := testutil.ContextWithTimeout(t, testTimeout)
	require.NoError(t, f.Refresh(ctx))

	return f
}

func TestFile_Data(t *testing.T) {
	t.Parallel()

	f := newTestFile(t, "")

	testCases := []struct {
		want    *geoip.Location
		ip      netip.Addr
		name    string
		wantErr error
	}{{
		want: &geoip.Location{
			Country:     testCountryZH,
			Subdivision: testSubdivisionZH,
			City:        testCityZH,
			ASOrg:       testASOrg,
			ASN:         testASN,
		},
		ip:      testIP,
		name:    "full",
		wantErr: nil,
	}, {
		want: &geoip.Location{
			Country:     testCountryZH,
			Subdivision: testSubdivisionZH,
			City:        testCityZH,
			ASOrg:       testASOrg,
			ASN:         testASN,
		},
		ip:      netip.AddrFrom16(testIP.As16()),
		name:    "mapped",
		wantErr: nil,
	}, {
		want: &geoip.Location{
			Country: testV6Ctry,
			ASOrg:   testV6ASOrg,
			ASN:     testV6ASN,
		},
		ip:      testIPv6,
		name:    "ipv6_country_only",
		wantErr: nil,
	}, {
		want:    nil,
		ip:      testIPLocationOnly,
		name:    "no_asn",
		wantErr: geoip.ErrNotFound,
	}, {
		want:    nil,
		ip:      testIPASNOnly,
		name:    "no_location",
		wantErr: geoip.ErrNotFound,
	}, {
		want:    nil,
		ip:      testIPAbsent,
		name:    "absent",
		wantErr: geoip.ErrNotFound,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := testutil.ContextWithTimeout(t, testTimeout)
			l, err := f.Data(ctx, tc.ip)
			require.ErrorIs(t, err, tc.wantErr)

			assert.Equal(t, tc.want, l)
		})
	}
}

func TestFile_Data_language(t *testing.T) {
	t.Parallel()

	f := newTestFile(t, "en")

	ctx := testutil.ContextWithTimeout(t, testTimeout)
	l, err := f.Data(ctx, testIP)
	require.NoError(t, err)

	assert.Equal(t, testCountryEN, l.Country)
	assert.Equal(t, "Victoria", l.Subdivision)
	assert.Equal(t, "Melbourne", l.City)

	f = newTestFile(t, "de")

	l, err = f.Data(ctx, testIP)
	require.NoError(t, err)

	assert.Empty(t, l.Country)
	assert.Empty(t, l.City)
	assert.Equal(t, geoip.ASN(testASN), l.ASN)
}

func TestFile_Data_notLoaded(t *testing.T) {
	t.Parallel()

	f := geoip.NewFile(&geoip.FileConfig{
		Logger:       slogutil.NewDiscardLogger(),
		Metrics:      geoip.EmptyMetrics{},
		ASNPath:      "",
		LocationPath: "",
	})

	ctx := testutil.ContextWithTimeout(t, testTimeout)
	l, err := f.Data(ctx, testIP)
	assert.Nil(t, l)
	testutil.AssertErrorMsg(t, "geoip databases are not loaded", err)
}

// testMetrics is a [geoip.Metrics] that records the update statuses.
type testMetrics struct {
	geoip.EmptyMetrics

	asnErr error
	locErr error
}

// HandleASNUpdateStatus implements the [geoip.Metrics] interface for
// *testMetrics.
func (m *testMetrics) HandleASNUpdateStatus(_ context.Context, err error) {
	m.asnErr = err
}

// HandleLocationUpdateStatus implements the [geoip.Metrics] interface for
// *testMetrics.
func (m *testMetrics) HandleLocationUpdateStatus(_ context.Context, err error) {
	m.locErr = err
}

func TestFile_Refresh(t *testing.T) {
	t.Parallel()

	asnPath, locPath := newTestDBs(t)
	badPath := filepath.Join(t.TempDir(), "absent.mmdb")

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		m := &testMetrics{}
		f := geoip.NewFile(&geoip.FileConfig{
			Logger:       slogutil.NewDiscardLogger(),
			Metrics:      m,
			ASNPath:      asnPath,
			LocationPath: locPath,
		})

		ctx := testutil.ContextWithTimeout(t, testTimeout)
		require.NoError(t, f.Refresh(ctx))

		assert.NoError(t, m.asnErr)
		assert.NoError(t, m.locErr)
	})

	t.Run("bad_location", func(t *testing.T) {
		t.Parallel()

		m := &testMetrics{}
		f := geoip.NewFile(&geoip.FileConfig{
			Logger:       slogutil.NewDiscardLogger(),
			Metrics:      m,
			ASNPath:      asnPath,
			LocationPath: badPath,
		})

		ctx := testutil.ContextWithTimeout(t, testTimeout)
		err := f.Refresh(ctx)
		require.Error(t, err)

		assert.NoError(t, m.asnErr)
		assert.Error(t, m.locErr)

		_, err = f.Data(ctx, testIP)
		assert.Error(t, err)
	})

	t.Run("no_description", func(t *testing.T) {
		t.Parallel()

		noDescPath := filepath.Join(t.TempDir(), "asn.mmdb")
		writeDBWithOptions(t, noDescPath, mmdbwriter.Options{
			DatabaseType: "GeoLite2-ASN",
			RecordSize:   24,
		}, map[string]mmdbtype.Map{
			"1.128.0.0/11": {
				"autonomous_system_number": mmdbtype.Uint32(testASN),
			},
		})

		m := &testMetrics{}
		f := geoip.NewFile(&geoip.FileConfig{
			Logger:       slogutil.NewDiscardLogger(),
			Metrics:      m,
			ASNPath:      noDescPath,
			LocationPath: locPath,
		})

		ctx := testutil.ContextWithTimeout(t, testTimeout)
		err := f.Refresh(ctx)
		require.Error(t, err)

		assert.ErrorContains(t, m.asnErr, "description")
		assert.NoError(t, m.locErr)
	})

	t.Run("not_a_database", func(t *testing.T) {
		t.Parallel()

		m := &testMetrics{}
		f := geoip.NewFile(&geoip.FileConfig{
			Logger:       slogutil.NewDiscardLogger(),
			Metrics:      m,
			ASNPath:      "file_test.go",
			LocationPath: locPath,
		})

		ctx := testutil.ContextWithTimeout(t, testTimeout)
		err := f.Refresh(ctx)
		require.Error(t, err)

		assert.Error(t, m.asnErr)
		assert.NoError(t, m.locErr)
	})
}
