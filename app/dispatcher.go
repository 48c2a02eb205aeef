package app

import (
	"context"
	"io"
	"net/http"

	"github.com/artpar/gateway/domain/gatewayerr"
	"github.com/artpar/gateway/domain/route"
)

// DispatchRequest is what a channel adapter (the HTTP handler) hands the
// Dispatcher for a single inbound request. It intentionally carries no
// framework types beyond net/http's header and reader primitives, keeping
// this package transport-agnostic the way the teacher's app package stays
// independent of chi.
type DispatchRequest struct {
	Method       string
	Path         string // URL path only, no query — used for route matching
	PathAndQuery string // path plus "?query" if present — used to build the upstream URL
	Headers      http.Header
	Body         io.Reader
}

// DispatchResult is the outcome of a single dispatch: either a proxied
// response, or a gatewayerr describing why no response was produced.
// RouteID and RouteIndex are populated whenever a route matched, even if
// the dispatch ultimately failed past that point, so callers can log which
// route was involved.
type DispatchResult struct {
	Response   *ProxyResponse
	Err        *gatewayerr.Error
	RouteID    string
	RouteIndex int
}

// Dispatcher is the per-request entry point: it consults the Route Matcher,
// then the Method Gate, then hands off to the Proxy Engine.
type Dispatcher struct {
	table *route.Table
	proxy *ProxyEngine
}

// NewDispatcher creates a Dispatcher over an immutable route table and a
// Proxy Engine. Both are shared across requests without synchronization.
func NewDispatcher(table *route.Table, proxy *ProxyEngine) *Dispatcher {
	return &Dispatcher{table: table, proxy: proxy}
}

// Dispatch runs the match → gate → proxy sequence for a single request.
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) DispatchResult {
	match := d.table.FindMatch(req.Path)
	if match == nil {
		return DispatchResult{Err: gatewayerr.RouteNotFound()}
	}

	idx := match.Index

	if !route.MethodAllowed(match.Route.Config.Methods, req.Method) {
		// Method-denied is intentionally indistinguishable from no-route:
		// returning 405 here would let a client probe for route existence
		// by method alone.
		return DispatchResult{Err: gatewayerr.RouteNotFound(), RouteID: match.Route.ID, RouteIndex: idx}
	}

	resp, err := d.proxy.Proxy(ctx, ProxyRequest{
		Method:  req.Method,
		Path:    req.PathAndQuery,
		Headers: req.Headers,
		Body:    req.Body,
	}, match.Route.Config.Target)
	if err != nil {
		gwErr, ok := err.(*gatewayerr.Error)
		if !ok {
			gwErr = gatewayerr.InternalError(err.Error())
		}
		return DispatchResult{Err: gwErr, RouteID: match.Route.ID, RouteIndex: idx}
	}

	return DispatchResult{Response: resp, RouteID: match.Route.ID, RouteIndex: idx}
}
