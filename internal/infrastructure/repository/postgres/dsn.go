package postgres

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"
)

const (
	preparedBinaryParam = "disable_prepared_binary_result"
	maxTracedQueryBytes = 512
)

// NormalizeDSN turns off binary results for prepared statements, which
// transaction-pooling proxies reject. Keyword DSNs and URLs that already
// carry the parameter are returned as given.
func NormalizeDSN(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Has(preparedBinaryParam) {
		return raw
	}
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// DatabaseName extracts dbname from either a postgres:// URL or a keyword
// DSN, or returns "" when neither names one.
func DatabaseName(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "://") {
		converted, err := pq.ParseURL(raw)
		if err != nil {
			return ""
		}
		raw = converted
	}

	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key != "dbname" {
			continue
		}
		return strings.Trim(value, `"'`)
	}
	return ""
}

// TraceQuery collapses whitespace and caps the statement recorded on spans.
func TraceQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) <= maxTracedQueryBytes {
		return query
	}
	cut := maxTracedQueryBytes
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}
