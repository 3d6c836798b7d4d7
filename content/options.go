package content

import (
	"fmt"
	"sort"
	"strings"
)

// Options carries caller-supplied generation options. Providers and
// generators read from it; the pipeline never interprets keys itself
// beyond folding them into cache keys.
type Options map[string]any

// Bool reads a boolean option, false when absent or mistyped.
func (o Options) Bool(key string) bool {
	v, ok := o[key].(bool)
	return ok && v
}

// String reads a string option, "" when absent or mistyped.
func (o Options) String(key string) string {
	v, _ := o[key].(string)
	return v
}

// Fingerprint renders a stable fragment for cache keys. Keys are sorted
// so two equal option maps always render identically. Empty options
// render as "".
func (o Options) Fingerprint() string {
	if len(o) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "_%s_%v", k, o[k])
	}
	return b.String()
}
