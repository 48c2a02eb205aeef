package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artpar/gateway/domain/gatewayerr"
	"github.com/artpar/gateway/domain/route"
)

func newTestDispatcher(t *testing.T, upstreamURL string, routes []route.Route) *Dispatcher {
	t.Helper()
	table, err := route.NewTable(routes)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return NewDispatcher(table, newTestEngine())
}

func TestDispatch_ProxiesOnMatch(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	}))
	defer upstream.Close()

	d := newTestDispatcher(t, upstream.URL, []route.Route{
		{Path: "/hello", Target: upstream.URL, MatchType: route.MatchExact},
	})

	result := d.Dispatch(context.Background(), DispatchRequest{
		Method: "GET", Path: "/hello", PathAndQuery: "/hello",
	})

	if result.Err != nil {
		t.Fatalf("Dispatch returned error: %v", result.Err)
	}
	if result.Response.Status != http.StatusOK {
		t.Errorf("status = %d, want 200", result.Response.Status)
	}
	if string(result.Response.Body) != "hello" {
		t.Errorf("body = %q, want hello", result.Response.Body)
	}
	if result.RouteID == "" {
		t.Error("expected RouteID to be populated")
	}
	if result.RouteIndex != 0 {
		t.Errorf("RouteIndex = %d, want 0", result.RouteIndex)
	}
}

func TestDispatch_NoMatchIsRouteNotFound(t *testing.T) {
	d := newTestDispatcher(t, "", []route.Route{
		{Path: "/known", Target: "http://upstream", MatchType: route.MatchExact},
	})

	result := d.Dispatch(context.Background(), DispatchRequest{Method: "GET", Path: "/unknown", PathAndQuery: "/unknown"})

	if result.Err == nil {
		t.Fatal("expected an error")
	}
	if result.Err.Kind != gatewayerr.KindRouteNotFound {
		t.Errorf("Kind = %q, want route_not_found", result.Err.Kind)
	}
	if result.RouteID != "" {
		t.Errorf("RouteID = %q, want empty when no route matched", result.RouteID)
	}
}

func TestDispatch_MethodDeniedIsIndistinguishableFromNoMatch(t *testing.T) {
	d := newTestDispatcher(t, "", []route.Route{
		{Path: "/known", Target: "http://upstream", MatchType: route.MatchExact, Methods: []string{"GET"}},
	})

	result := d.Dispatch(context.Background(), DispatchRequest{Method: "DELETE", Path: "/known", PathAndQuery: "/known"})

	if result.Err == nil {
		t.Fatal("expected an error")
	}
	if result.Err.Kind != gatewayerr.KindRouteNotFound {
		t.Errorf("Kind = %q, want route_not_found (not method-not-allowed)", result.Err.Kind)
	}
	if result.Err.Status() != 404 {
		t.Errorf("status = %d, want 404", result.Err.Status())
	}
	if result.RouteID == "" {
		t.Error("expected RouteID to be populated even on method-deny, since a route did match by path")
	}
}

func TestDispatch_ProxyFailureWrapsAsGatewayError(t *testing.T) {
	d := newTestDispatcher(t, "", []route.Route{
		{Path: "/down", Target: "http://127.0.0.1:1", MatchType: route.MatchExact},
	})

	result := d.Dispatch(context.Background(), DispatchRequest{Method: "GET", Path: "/down", PathAndQuery: "/down"})

	if result.Err == nil {
		t.Fatal("expected an error")
	}
	if result.Err.Kind != gatewayerr.KindProxyError {
		t.Errorf("Kind = %q, want proxy_error", result.Err.Kind)
	}
	if result.RouteID == "" {
		t.Error("expected RouteID to be populated since the route matched before proxying failed")
	}
}
