// Package app orchestrates the domain packages into the gateway's request
// pipeline: the Proxy Engine (this file) and the Dispatcher (dispatcher.go).
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/artpar/gateway/domain/gatewayerr"
	"github.com/artpar/gateway/domain/header"
)

// ProxyRequest is the inbound request the Proxy Engine forwards.
type ProxyRequest struct {
	Method  string
	Path    string // path and query, verbatim from the inbound request URI
	Headers http.Header
	Body    io.Reader
}

// ProxyResponse is the response the Proxy Engine reconstructs from the
// upstream's reply.
type ProxyResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// ProxyEngine builds the upstream request, executes it, and maps the
// upstream's reply (or failure) back into a ProxyResponse or a gatewayerr.
type ProxyEngine struct {
	client *http.Client
}

// NewProxyEngine creates a Proxy Engine around client. client must not
// follow redirects automatically — 3xx responses are returned to the
// downstream client untouched — and is shared across requests, so it must
// itself be safe for concurrent use (http.Client is).
func NewProxyEngine(client *http.Client) *ProxyEngine {
	return &ProxyEngine{client: client}
}

// Proxy forwards req to targetBase and returns the reconstructed downstream
// response, or a gatewayerr describing why it could not.
func (p *ProxyEngine) Proxy(ctx context.Context, req ProxyRequest, targetBase string) (*ProxyResponse, error) {
	upstreamURL, err := buildUpstreamURL(targetBase, req.Path)
	if err != nil {
		return nil, err
	}

	body, err := readBody(req.Body)
	if err != nil {
		return nil, gatewayerr.RequestError("Failed to read request body")
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, upstreamURL.String(), bodyReader)
	if err != nil {
		return nil, gatewayerr.InternalError(fmt.Sprintf("build upstream request: %v", err))
	}
	httpReq.Header = header.FilterRequest(req.Headers, upstreamURL)
	httpReq.Host = httpReq.Header.Get("Host")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, gatewayerr.ProxyError(fmt.Sprintf("Request failed: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gatewayerr.ProxyError("Failed to read response body")
	}

	return &ProxyResponse{
		Status:  resp.StatusCode,
		Headers: header.FilterResponse(resp.Header),
		Body:    respBody,
	}, nil
}

// buildUpstreamURL strips a trailing "/" from targetBase and appends the
// inbound path-and-query verbatim (defaulting to "/" if absent), rejecting
// the result with InvalidTarget if it does not begin with http:// or
// https://.
func buildUpstreamURL(targetBase, pathAndQuery string) (*url.URL, error) {
	targetBase = strings.TrimSuffix(targetBase, "/")
	if pathAndQuery == "" {
		pathAndQuery = "/"
	}

	raw := targetBase + pathAndQuery
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return nil, gatewayerr.InvalidTarget(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, gatewayerr.InvalidTarget(raw)
	}
	return u, nil
}

func readBody(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return io.ReadAll(r)
}
