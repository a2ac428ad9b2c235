package diagram

import (
	"strings"
	"testing"
)

func TestDotIDStableWithinGenerator(t *testing.T) {
	g := newDotIDGenerator()
	first := g.ID("Web Server 1")
	if got := g.ID("Web Server 1"); got != first {
		t.Fatalf("same label produced different IDs: %q vs %q", first, got)
	}
}

func TestDotIDSlugShape(t *testing.T) {
	g := newDotIDGenerator()
	id := g.ID("Load Balancer")
	if !strings.HasPrefix(id, "load_balancer_") {
		t.Fatalf("id = %q, want slug prefix", id)
	}
	for _, r := range id {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Fatalf("id %q contains unsafe rune %q", id, r)
		}
	}
}

func TestDotIDNonASCIIFallsBack(t *testing.T) {
	g := newDotIDGenerator()
	id := g.ID("日本語ラベル")
	if !strings.HasPrefix(id, "node_") {
		t.Fatalf("id = %q, want node_ fallback for non-ascii label", id)
	}
}

func TestDotIDDistinctLabelsDistinctIDs(t *testing.T) {
	g := newDotIDGenerator()
	seen := make(map[string]struct{})
	for _, label := range []string{"API", "api", "A P I", "API "} {
		id := g.ID(label)
		if _, dup := seen[id]; dup {
			t.Fatalf("label %q collided on id %q", label, id)
		}
		seen[id] = struct{}{}
	}
}
