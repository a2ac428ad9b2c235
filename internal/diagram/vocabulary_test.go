package diagram

import "testing"

func TestResolveCanonicalIDs(t *testing.T) {
	v := NewVocabulary()
	for _, id := range []string{"compute", "relational-database", "load-balancer", "queue", "cache", "api-gateway", "monitoring"} {
		nt, ok := v.Resolve(id)
		if !ok {
			t.Fatalf("Resolve(%q) not recognized", id)
		}
		if nt.ID != id {
			t.Fatalf("Resolve(%q) = %q, want same ID", id, nt.ID)
		}
		if nt.Shape == "" || nt.FillColor == "" {
			t.Fatalf("Resolve(%q) missing styling: %+v", id, nt)
		}
	}
}

func TestResolveSynonyms(t *testing.T) {
	v := NewVocabulary()
	cases := map[string]string{
		"ec2":      "compute",
		"rds":      "relational-database",
		"postgres": "relational-database",
		"alb":      "load-balancer",
		"s3":       "object-storage",
		"kafka":    "queue",
		"redis":    "cache",
		"frontend": "react",
	}
	for syn, want := range cases {
		nt, ok := v.Resolve(syn)
		if !ok {
			t.Fatalf("Resolve(%q) not recognized", syn)
		}
		if nt.ID != want {
			t.Fatalf("Resolve(%q) = %q, want %q", syn, nt.ID, want)
		}
	}
}

func TestResolveNormalization(t *testing.T) {
	v := NewVocabulary()
	for _, name := range []string{"Load Balancer", "LOAD-BALANCER", "load_balancer", "  load  balancer  "} {
		nt, ok := v.Resolve(name)
		if !ok || nt.ID != "load-balancer" {
			t.Fatalf("Resolve(%q) = (%q, %v), want load-balancer", name, nt.ID, ok)
		}
	}
}

func TestResolveUnknownFallsBackToGeneric(t *testing.T) {
	v := NewVocabulary()
	nt, ok := v.Resolve("flying-widget")
	if ok {
		t.Fatal("unknown type reported as recognized")
	}
	if nt.ID != GenericTypeID {
		t.Fatalf("unknown type resolved to %q, want %q", nt.ID, GenericTypeID)
	}
	if nt.Shape == "" {
		t.Fatal("generic placeholder has no shape, would not render")
	}
}
