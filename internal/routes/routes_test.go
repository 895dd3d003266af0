package routes

import (
	"testing"

	"lambdagate/internal/supervisor"
)

func rec(id, pattern string) supervisor.WorkerRecord {
	return supervisor.WorkerRecord{ID: id, RoutePattern: pattern, EndpointName: id, Executable: "/bin/true"}
}

func TestExactMatch(t *testing.T) {
	table, err := Build([]supervisor.WorkerRecord{rec("a", "/health")})
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := table.Match("/health"); !ok || id != "a" {
		t.Fatalf("expected exact match, got %q %v", id, ok)
	}
	if _, ok := table.Match("/health/sub"); ok {
		t.Fatal("exact pattern should not match a sub-path")
	}
}

func TestWildcardMatch(t *testing.T) {
	table, err := Build([]supervisor.WorkerRecord{rec("a", "/api/*")})
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{"/api", "/api/v1", "/api/v1/items"} {
		if _, ok := table.Match(path); !ok {
			t.Fatalf("expected %q to match /api/*", path)
		}
	}
	if _, ok := table.Match("/apix"); ok {
		t.Fatal("/apix should not match /api/*")
	}
}

func TestLongestPrefixWins(t *testing.T) {
	table, err := Build([]supervisor.WorkerRecord{
		rec("general", "/api/*"),
		rec("specific", "/api/v1/*"),
	})
	if err != nil {
		t.Fatal(err)
	}

	id, ok := table.Match("/api/v1/items")
	if !ok || id != "specific" {
		t.Fatalf("expected longest prefix to win, got %q", id)
	}

	id, ok = table.Match("/api/v2/items")
	if !ok || id != "general" {
		t.Fatalf("expected fallback to shorter prefix, got %q", id)
	}
}

func TestAmbiguousRoutesRejected(t *testing.T) {
	_, err := Build([]supervisor.WorkerRecord{
		rec("a", "/api/*"),
		rec("b", "/api/*"),
	})
	if err == nil {
		t.Fatal("expected an error for two identical route prefixes")
	}
}

func TestNoRouteMatch(t *testing.T) {
	table, err := Build([]supervisor.WorkerRecord{rec("a", "/api/*")})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := table.Match("/other"); ok {
		t.Fatal("expected no match for unrelated path")
	}
}

func TestMethodAgnostic(t *testing.T) {
	// Match never looks at the method; route patterns apply uniformly
	// across verbs, so a single Match call stands in for GET/POST/etc.
	table, err := Build([]supervisor.WorkerRecord{rec("a", "/widgets")})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := table.Match("/widgets"); !ok {
		t.Fatal("expected match regardless of which HTTP method would be used")
	}
}
