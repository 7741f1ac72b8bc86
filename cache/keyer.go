package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Key builds a deterministic cache key from an endpoint path and its
// query parameters. Parameters are sorted by name before serializing,
// so logically identical queries produce the same key regardless of
// argument order.
//
// Format: <endpoint>?<k1>=<v1>&<k2>=<v2> with URL-escaped values, or
// just <endpoint> when params is empty.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[name]))
	}
	return b.String()
}
