package prefs

import (
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
)

// RandFunc returns a uniformly distributed int in [0, n). It matches the
// signature of math/rand/v2's IntN so the global source can be used directly.
type RandFunc func(n int) int

// Price defaults are drawn from this range when a price cannot be parsed.
// Randomizing keeps repeated parse failures from producing identical prices
// that would tie during scoring.
const (
	minDefaultPrice = 100000
	maxDefaultPrice = 900000
)

// Room counts fall back to a plausible small number.
const (
	minDefaultCount = 1
	maxDefaultCount = 4
)

// Normalizer converts free-form numeric input into usable numbers, replacing
// anything unparsable with a caller-supplied or randomized default. Its
// methods never panic and never return errors; every substitution is logged
// at warn level.
type Normalizer struct {
	rand   RandFunc
	logger *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithRand sets the random source used for randomized defaults.
func WithRand(fn RandFunc) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.rand = fn
		}
	}
}

// WithLogger sets the logger used to report substitutions.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNormalizer creates a Normalizer backed by the global random source and
// the default logger.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		rand:   rand.IntN,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ParseInt converts value to an int, returning def when it does not parse.
func (n *Normalizer) ParseInt(value string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n.logger.Warn("substituting default for unparsable int", "value", value, "default", def)
		return def
	}
	return v
}

// ParseCount converts a bedroom or bathroom count, substituting a random
// count in [1,4] when the value does not parse.
func (n *Normalizer) ParseCount(value string) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		def := minDefaultCount + n.rand(maxDefaultCount-minDefaultCount+1)
		n.logger.Warn("substituting random count for unparsable value", "value", value, "default", def)
		return def
	}
	return v
}

// ParseFloat converts value to a float64 after stripping every character that
// is not a digit or decimal point, returning def when nothing numeric remains.
func (n *Normalizer) ParseFloat(value string, def float64) float64 {
	v, err := strconv.ParseFloat(stripNonNumeric(value), 64)
	if err != nil {
		n.logger.Warn("substituting default for unparsable float", "value", value, "default", def)
		return def
	}
	return v
}

// ParsePrice converts a price string the way ParseFloat does, substituting a
// random price in [100000,900000] when the value does not parse.
func (n *Normalizer) ParsePrice(value string) float64 {
	v, err := strconv.ParseFloat(stripNonNumeric(value), 64)
	if err != nil {
		def := float64(minDefaultPrice + n.rand(maxDefaultPrice-minDefaultPrice+1))
		n.logger.Warn("substituting random price for unparsable value", "value", value, "default", def)
		return def
	}
	return v
}

// stripNonNumeric removes every rune that is not a digit or decimal point, so
// currency symbols and thousands separators do not break parsing.
func stripNonNumeric(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
