package geoip

import (
	"fmt"
	"strconv"
	"strings"
)

// LocalNetworkLabel is the description of the addresses for which
// [IsLocalNetwork] returns true.
const LocalNetworkLabel = "Local network"

// IsLocalNetwork returns true if text looks like an address from a local
// network.  It is a text check, not a CIDR check: text is local if it contains
// "192.168." or if it contains "172." and its second dot-separated field is a
// number from 16 to 31.  err is not nil if that field is not a number.
func IsLocalNetwork(text string) (ok bool, err error) {
	if strings.Contains(text, "192.168.") {
		return true, nil
	}

	if !strings.Contains(text, "172.") {
		return false, nil
	}

	// There are always at least two fields, since text contains a dot.
	second := strings.Split(text, ".")[1]
	n, err := strconv.Atoi(second)
	if err != nil {
		return false, fmt.Errorf("second field of %q: %w", text, err)
	}

	return n >= 16 && n <= 31, nil
}
