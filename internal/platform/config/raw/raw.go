// Package raw reads environment variables before the logger exists.
// The full config package reports problems through platform/logger, but the
// logger bootstraps itself from LOG_* values, so this view stays free of
// project dependencies to break the cycle
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed view over the environment (e.g. "LOG_", "CORE_EXTRACT_")
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix narrows the view by an additional prefix; prefixes compose
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(key string) string {
	return strings.TrimSpace(os.Getenv(c.prefix + key))
}

// Get returns the trimmed value of key, or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool reads a truthy value ("1", "true", "yes", any case); other set
// values read false, absent falls back to def
func (c Conf) GetBool(key string, def bool) bool {
	v := strings.ToLower(c.lookup(key))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes":
		return true
	}
	return false
}

// GetInt reads a non-negative integer; malformed or negative values fall
// back to def rather than failing bootstrap
func (c Conf) GetInt(key string, def int) int {
	v := c.lookup(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
