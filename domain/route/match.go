package route

import (
	"strings"

	"github.com/google/uuid"
)

// CompiledRoute is the record produced once at startup from a Route: the
// original config, the matcher that decides whether a path matches, and the
// ordered list of parameter names it captures (empty unless MatchWildcard).
// ID is assigned at compile time and never changes; it exists purely to let
// structured logs name a specific route without re-walking the table. It is
// not included in gateway error debug strings.
type CompiledRoute struct {
	ID         string
	Config     Route
	matcher    matcher
	ParamNames []string
}

// Table is the ordered, immutable set of Compiled Routes. It is built once
// at startup and is safe for concurrent reads by every request handler
// thereafter — there is no mutable state to synchronize.
type Table struct {
	routes []CompiledRoute
}

// NewTable compiles every Route in order, failing atomically: if any
// pattern fails to compile, the whole table is rejected and no partial
// table is returned.
func NewTable(routes []Route) (*Table, error) {
	compiled := make([]CompiledRoute, 0, len(routes))
	for _, r := range routes {
		r = r.WithDefaults()
		m, names, err := compilePattern(r.Path, r.MatchType)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, CompiledRoute{
			ID:         uuid.NewString(),
			Config:     r,
			matcher:    m,
			ParamNames: names,
		})
	}
	return &Table{routes: compiled}, nil
}

// Len reports the number of compiled routes.
func (t *Table) Len() int { return len(t.routes) }

// Match is the per-request ephemeral value returned by FindMatch: a
// reference to the matched Compiled Route, its index in the table, and its
// captured parameters.
type Match struct {
	Route  *CompiledRoute
	Index  int
	Params map[string]string
}

// FindMatch iterates the Compiled Routes in declaration order and returns
// the first whose matcher accepts path, along with its capture map. It
// returns nil if no route matches. There is no specificity ranking — ties
// are broken purely by configuration order.
func (t *Table) FindMatch(path string) *Match {
	for i := range t.routes {
		cr := &t.routes[i]
		params, ok := cr.matcher.match(path)
		if !ok {
			continue
		}
		return &Match{Route: cr, Index: i, Params: params}
	}
	return nil
}

// MethodAllowed is the Method Gate: given a route's allowed-method list and
// a request method, reports whether the method is allowed. An empty list
// means allow all. Comparison is ASCII case-insensitive.
func MethodAllowed(allowed []string, method string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, m := range allowed {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}
