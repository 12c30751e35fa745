// pkg/dialects/common/jdbcurl.go
package common

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ParseJDBCURL parses a hierarchical JDBC URL such as
// "jdbc:mysql://host:3306/db?x=y". The returned URL's Scheme is the JDBC
// sub-protocol, lowercased.
func ParseJDBCURL(jdbcURL string) (*url.URL, error) {
	raw := strings.TrimSpace(jdbcURL)
	if len(raw) < 5 || !strings.EqualFold(raw[:5], "jdbc:") {
		return nil, errors.Errorf("not a jdbc url: %q", jdbcURL)
	}
	u, err := url.Parse(raw[5:])
	if err != nil {
		return nil, errors.Wrapf(err, "parsing jdbc url %q", jdbcURL)
	}
	if u.Scheme == "" {
		return nil, errors.Errorf("jdbc url %q has no sub-protocol", jdbcURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	return u, nil
}

// FirstHost returns the first entry of a comma-separated failover host list.
func FirstHost(host string) string {
	if i := strings.IndexByte(host, ','); i >= 0 {
		return host[:i]
	}
	return host
}

// SplitProperties splits ";k=v;k2=v2" style property lists. Keys keep their
// original case; empty segments are ignored.
func SplitProperties(s string) map[string]string {
	props := make(map[string]string)
	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		k, v, _ := strings.Cut(seg, "=")
		props[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return props
}
