package version_test

import (
	"strings"
	"testing"

	"github.com/BakaBotTeam/NetworkTools/internal/version"
	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	t.Parallel()

	ua := version.UserAgent()
	assert.True(t, strings.HasPrefix(ua, "NetworkTools/"))
	assert.Equal(t, version.Name()+"/"+version.Version(), ua)
	assert.NotEmpty(t, version.Version())
}
