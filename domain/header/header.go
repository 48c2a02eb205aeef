// Package header implements the Header Filter: hop-by-hop header hygiene
// applied to requests forwarded upstream and responses returned downstream.
package header

import (
	"net/http"
	"net/url"
)

// requestHopByHop is dropped from the downstream request before it is
// forwarded upstream. "host" is included because the filter always
// recomputes it from the upstream URL rather than forwarding the
// inbound one.
var requestHopByHop = []string{
	"connection",
	"upgrade",
	"proxy-authenticate",
	"proxy-authorization",
	"te",
	"trailers",
	"transfer-encoding",
	"host",
}

// responseHopByHop is dropped from the upstream response before it is
// returned to the downstream client.
var responseHopByHop = []string{
	"connection",
	"upgrade",
	"transfer-encoding",
}

// FilterRequest returns a copy of in with hop-by-hop headers removed and
// Host set to the authority derived from target: the bare host when target
// uses the scheme's default port (80 for http, 443 for https) or carries no
// explicit port, "host:port" otherwise. A header whose value fails
// validation when inserted is silently dropped; the request still
// proceeds.
func FilterRequest(in http.Header, target *url.URL) http.Header {
	out := filtered(in, requestHopByHop)
	out.Set("Host", authority(target))
	return out
}

// FilterResponse returns a copy of in with hop-by-hop headers removed.
// All other headers are copied through unchanged.
func FilterResponse(in http.Header) http.Header {
	return filtered(in, responseHopByHop)
}

func filtered(in http.Header, drop []string) http.Header {
	out := make(http.Header, len(in))
	for k, values := range in {
		if isHopByHop(k, drop) {
			continue
		}
		for _, v := range values {
			addSafe(out, k, v)
		}
	}
	return out
}

func isHopByHop(name string, drop []string) bool {
	for _, d := range drop {
		if http.CanonicalHeaderKey(d) == http.CanonicalHeaderKey(name) {
			return true
		}
	}
	return false
}

// addSafe adds a header value, silently dropping it if it contains bytes
// net/http's own request/response writer would reject (control characters
// including bare CR/LF) rather than failing the whole request.
func addSafe(h http.Header, key, value string) {
	if !validHeaderValue(value) {
		return
	}
	h.Add(key, value)
}

func validHeaderValue(v string) bool {
	for i := 0; i < len(v); i++ {
		b := v[i]
		if b < 0x20 && b != '\t' {
			return false
		}
		if b == 0x7f {
			return false
		}
	}
	return true
}

// authority computes the Host header value for an upstream URL: the bare
// host when the URL uses its scheme's default port or has no explicit
// port, "host:port" otherwise.
func authority(target *url.URL) string {
	host := target.Hostname()
	port := target.Port()
	if port == "" {
		return host
	}
	defaultPort := ""
	switch target.Scheme {
	case "http":
		defaultPort = "80"
	case "https":
		defaultPort = "443"
	}
	if port == defaultPort {
		return host
	}
	return host + ":" + port
}
