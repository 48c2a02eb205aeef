package http

import (
	"net/http"
)

// NewUpstreamClient builds the shared HTTP client the Proxy Engine executes
// upstream requests through. It does not follow redirects automatically —
// 3xx responses must reach the downstream client untouched — matching the
// reference implementation's reqwest::redirect::Policy::none(). The client
// is safe for concurrent use and pools connections via the default
// transport, same as the teacher's adapters/http.UpstreamClient.
func NewUpstreamClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
