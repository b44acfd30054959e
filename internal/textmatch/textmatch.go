// Package textmatch contains helpers for extracting values from the text of
// chat commands.
package textmatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AdguardTeam/golibs/container"
	"github.com/AdguardTeam/golibs/errors"
)

// ErrNoGroup is returned by [MatchGroup] when the pattern has no capturing
// groups.
const ErrNoGroup errors.Error = "pattern has no capturing groups"

// ipPattern matches the first IPv4 or IPv6 looking substring.  The IPv6 part
// is loose and also accepts things like "abc:".
var ipPattern = regexp.MustCompile(
	`((((25[0-5]|2[0-4]\d|[01]?\d\d?)\.){3}(25[0-5]|2[0-4]\d|[01]?\d\d?))|` +
		`((([a-fA-F0-9]){1,4}:)+(:?(([a-fA-F0-9]){1,4}:?)+)?))`,
)

// FindIP returns the first IPv4 or IPv6 shaped substring of text.  ok is false
// if there is none.  ip is not guaranteed to be a valid address.
func FindIP(text string) (ip string, ok bool) {
	loc := ipPattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	return text[loc[0]:loc[1]], true
}

// MatchGroup returns the first capturing group of the first match of pattern
// against the lower-cased text or def if there is no match.  pattern must
// have at least one capturing group.
func MatchGroup(text, pattern, def string) (res string, err error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("compiling pattern: %w", err)
	}

	if re.NumSubexp() == 0 {
		return "", fmt.Errorf("pattern %q: %w", pattern, ErrNoGroup)
	}

	m := re.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return def, nil
	}

	return m[1], nil
}

// SplitValues splits text by sep and returns the unique non-empty values with
// surrounding spaces trimmed in the order of their first appearance.
func SplitValues(text string, sep rune) (vals []string) {
	set := container.NewMapSet[string]()
	for v := range strings.SplitSeq(text, string(sep)) {
		v = strings.TrimSpace(v)
		if v == "" || set.Has(v) {
			continue
		}

		set.Add(v)
		vals = append(vals, v)
	}

	return vals
}
