package route

import "testing"

func mustTable(t *testing.T, routes []Route) *Table {
	t.Helper()
	table, err := NewTable(routes)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestTable_FindMatch_ExactMatching(t *testing.T) {
	table := mustTable(t, []Route{
		{Path: "/api/users", Target: "http://users:8080", MatchType: MatchExact},
		{Path: "/api/orders", Target: "http://orders:8080", MatchType: MatchExact},
	})

	tests := []struct {
		name       string
		path       string
		wantTarget string
		wantNil    bool
	}{
		{"first route matches", "/api/users", "http://users:8080", false},
		{"second route matches", "/api/orders", "http://orders:8080", false},
		{"unknown path does not match", "/api/users/1", "", true},
		{"trailing slash is a different exact path", "/api/users/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := table.FindMatch(tt.path)
			if tt.wantNil {
				if m != nil {
					t.Fatalf("FindMatch(%q) = %+v, want nil", tt.path, m)
				}
				return
			}
			if m == nil {
				t.Fatalf("FindMatch(%q) = nil, want a match", tt.path)
			}
			if m.Route.Config.Target != tt.wantTarget {
				t.Errorf("target = %q, want %q", m.Route.Config.Target, tt.wantTarget)
			}
		})
	}
}

func TestTable_FindMatch_DeclarationOrderWins(t *testing.T) {
	table := mustTable(t, []Route{
		{Path: "/api/*", Target: "http://generic:8080", MatchType: MatchWildcard},
		{Path: "/api/users", Target: "http://users:8080", MatchType: MatchExact},
	})

	m := table.FindMatch("/api/users")
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.Index != 0 {
		t.Fatalf("index = %d, want 0 (first declared route wins, no specificity ranking)", m.Index)
	}
	if m.Route.Config.Target != "http://generic:8080" {
		t.Errorf("target = %q, want the earlier-declared wildcard route", m.Route.Config.Target)
	}
}

func TestTable_FindMatch_WildcardCaptures(t *testing.T) {
	table := mustTable(t, []Route{
		{Path: "/users/{id}/posts/{post_id}", Target: "http://posts:8080", MatchType: MatchWildcard},
	})

	m := table.FindMatch("/users/42/posts/7")
	if m == nil {
		t.Fatal("expected a match")
	}
	if len(m.Params) != 2 {
		t.Fatalf("params = %v, want 2 entries", m.Params)
	}
	if m.Params["id"] != "42" || m.Params["post_id"] != "7" {
		t.Errorf("params = %v, want id=42 post_id=7", m.Params)
	}
}

func TestTable_FindMatch_Regex(t *testing.T) {
	table := mustTable(t, []Route{
		{Path: `^/v[0-9]+/widgets$`, Target: "http://widgets:8080", MatchType: MatchRegex},
	})

	if m := table.FindMatch("/v2/widgets"); m == nil {
		t.Error("expected /v2/widgets to match")
	}
	if m := table.FindMatch("/v/widgets"); m != nil {
		t.Error("expected /v/widgets not to match")
	}
}

func TestNewTable_RejectsInvalidPatternAtomically(t *testing.T) {
	_, err := NewTable([]Route{
		{Path: "/ok", Target: "http://ok:8080", MatchType: MatchExact},
		{Path: "(unclosed", Target: "http://bad:8080", MatchType: MatchRegex},
	})
	if err == nil {
		t.Fatal("expected NewTable to reject the whole table when one pattern is invalid")
	}
}

func TestTable_Len(t *testing.T) {
	table := mustTable(t, []Route{
		{Path: "/a", Target: "http://a", MatchType: MatchExact},
		{Path: "/b", Target: "http://b", MatchType: MatchExact},
	})
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
}

func TestMethodAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		method  string
		want    bool
	}{
		{"empty list allows everything", nil, "DELETE", true},
		{"exact case match", []string{"GET", "POST"}, "GET", true},
		{"case-insensitive match", []string{"get", "post"}, "GET", true},
		{"method not in list is denied", []string{"GET"}, "POST", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MethodAllowed(tt.allowed, tt.method); got != tt.want {
				t.Errorf("MethodAllowed(%v, %q) = %v, want %v", tt.allowed, tt.method, got, tt.want)
			}
		})
	}
}

func TestRoute_WithDefaults(t *testing.T) {
	r := Route{Path: "/x", Target: "http://x"}.WithDefaults()
	if r.MatchType != MatchExact {
		t.Errorf("MatchType = %q, want %q", r.MatchType, MatchExact)
	}
	if r.Methods != nil {
		t.Errorf("Methods = %v, want untouched nil", r.Methods)
	}
}
