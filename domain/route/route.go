// Package route provides route configuration types and the pure matching
// engine used by the dispatcher: a Pattern Compiler that turns a route's
// path pattern into a matcher, and a Route Matcher that evaluates compiled
// routes against an inbound request path in declaration order.
package route

// MatchType selects the dialect used to interpret a Route's Path.
type MatchType string

const (
	MatchExact    MatchType = "exact"    // byte-for-byte equality (default)
	MatchPrefix   MatchType = "prefix"   // unanchored byte prefix
	MatchWildcard MatchType = "wildcard" // *, **, and {name} captures
	MatchRegex    MatchType = "regex"    // arbitrary regular expression
)

// AuthType mirrors the auth block shape. The core never enforces it; it is
// carried through so a future collaborator can.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthHeader AuthType = "header"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
)

// Auth is the opaque auth block attached to a Route. The core forwards it
// unmodified and never inspects it for enforcement decisions.
type Auth struct {
	Type   AuthType `yaml:"type,omitempty"`
	Header string   `yaml:"header,omitempty"`
}

// Route is a configured mapping from an inbound path pattern and method set
// to an upstream target URL.
type Route struct {
	Path      string    `yaml:"path"`
	Target    string    `yaml:"target"`
	Methods   []string  `yaml:"methods"`
	MatchType MatchType `yaml:"match_type"`
	Auth      Auth      `yaml:"auth,omitempty"`
}

// DefaultMethods is applied to a Route whose Methods field is omitted from
// configuration entirely (as opposed to explicitly set to an empty list,
// which means "allow all" per the Method Gate contract).
var DefaultMethods = []string{"GET", "POST"}

// WithDefaults returns a copy of r with MatchType defaulted to Exact. It
// does not touch Methods: an empty Methods slice is a meaningful value
// (allow all), so defaulting it here would be unable to tell "omitted" from
// "explicitly emptied" — callers that load from YAML apply DefaultMethods
// themselves when the key is absent.
func (r Route) WithDefaults() Route {
	if r.MatchType == "" {
		r.MatchType = MatchExact
	}
	return r
}
