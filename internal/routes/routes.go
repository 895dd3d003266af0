// Package routes compiles worker route patterns into a table that resolves
// an inbound request path to the worker that should handle it.
package routes

import (
	"fmt"
	"sort"
	"strings"

	"lambdagate/internal/supervisor"
)

// entry is one compiled route pattern.
type entry struct {
	pattern  string
	prefix   string // literal portion, with "/*" stripped
	wildcard bool
	workerID string
}

// Table is an immutable, longest-literal-prefix-wins route table. It is
// built once at startup and never mutated afterward, so lookups need no
// lock.
type Table struct {
	entries []entry // sorted by descending prefix length
}

// Build compiles the route pattern of every record into a Table. It
// rejects two records whose patterns resolve to the same literal prefix,
// since there would be no well-defined way to pick between them.
func Build(records []supervisor.WorkerRecord) (*Table, error) {
	entries := make([]entry, 0, len(records))
	seen := make(map[string]string, len(records))

	for _, r := range records {
		e, err := compile(r.RoutePattern, r.ID)
		if err != nil {
			return nil, err
		}
		if owner, ok := seen[e.prefix]; ok {
			return nil, fmt.Errorf("ambiguous route: %q (worker %s) and %q (worker %s) both resolve to prefix %q",
				r.RoutePattern, r.ID, findPattern(entries, owner), owner, e.prefix)
		}
		seen[e.prefix] = r.ID
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return len(entries[i].prefix) > len(entries[j].prefix)
	})

	return &Table{entries: entries}, nil
}

func findPattern(entries []entry, workerID string) string {
	for _, e := range entries {
		if e.workerID == workerID {
			return e.pattern
		}
	}
	return ""
}

func compile(pattern, workerID string) (entry, error) {
	if pattern == "" {
		return entry{}, fmt.Errorf("empty route pattern for worker %s", workerID)
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return entry{pattern: pattern, prefix: prefix, wildcard: true, workerID: workerID}, nil
	}

	return entry{pattern: pattern, prefix: pattern, wildcard: false, workerID: workerID}, nil
}

// Match returns the worker id whose route pattern matches path, using
// longest-literal-prefix-wins among every pattern that matches. Matching
// is method-agnostic.
func (t *Table) Match(path string) (workerID string, ok bool) {
	for _, e := range t.entries {
		if e.matches(path) {
			return e.workerID, true
		}
	}
	return "", false
}

func (e entry) matches(path string) bool {
	if !e.wildcard {
		return path == e.prefix
	}
	if path == e.prefix {
		return true
	}
	return strings.HasPrefix(path, e.prefix+"/")
}
