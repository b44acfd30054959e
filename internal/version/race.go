//go:build race

package version

// RaceEnabled is true if the binary was built with the race detector.
const RaceEnabled = true
