package diagram

import (
	"errors"
	"testing"
)

func newTestParser() *Parser {
	return NewParser(NewVocabulary(), nil)
}

func webAppPayload() Payload {
	return Payload{Structured: &StructuredPayload{
		Title: "Web Application",
		Nodes: []PayloadNode{
			{Label: "Load Balancer", Type: "load-balancer", Cluster: "Web Tier"},
			{Label: "Web Server 1", Type: "compute", Cluster: "Web Tier"},
			{Label: "Web Server 2", Type: "compute", Cluster: "Web Tier"},
			{Label: "Database", Type: "relational-database"},
		},
		Edges: []PayloadEdge{
			{From: "Load Balancer", To: "Web Server 1"},
			{From: "Load Balancer", To: "Web Server 2"},
			{From: "Web Server 1", To: "Database"},
			{From: "Web Server 2", To: "Database"},
		},
	}}
}

func TestParseStructured(t *testing.T) {
	g, err := newTestParser().Parse(webAppPayload(), FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := len(g.Nodes), 4; got != want {
		t.Fatalf("nodes = %d, want %d", got, want)
	}
	if got, want := len(g.Edges), 4; got != want {
		t.Fatalf("edges = %d, want %d", got, want)
	}
	if got, want := len(g.Clusters), 1; got != want {
		t.Fatalf("clusters = %d, want %d", got, want)
	}
	c := g.ClusterByName("Web Tier")
	if c == nil || len(c.Nodes) != 3 {
		t.Fatalf("Web Tier cluster = %+v, want 3 members", c)
	}
	if got, want := len(g.Unclustered()), 1; got != want {
		t.Fatalf("unclustered = %d, want %d", got, want)
	}
	if g.Title != "Web Application" {
		t.Fatalf("title = %q", g.Title)
	}
}

func TestParsePreservesOrder(t *testing.T) {
	g, err := newTestParser().Parse(webAppPayload(), FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantNodes := []string{"Load Balancer", "Web Server 1", "Web Server 2", "Database"}
	for i, n := range g.Nodes {
		if n.Label != wantNodes[i] {
			t.Fatalf("node[%d] = %q, want %q", i, n.Label, wantNodes[i])
		}
	}
	if g.Edges[0].From != "Load Balancer" || g.Edges[0].To != "Web Server 1" {
		t.Fatalf("edge[0] = %+v, want declared order", g.Edges[0])
	}
}

func TestParseDeclaredClustersWinOrder(t *testing.T) {
	p := Payload{Structured: &StructuredPayload{
		Clusters: []string{"B Tier", "A Tier"},
		Nodes: []PayloadNode{
			{Label: "X", Type: "compute", Cluster: "A Tier"},
			{Label: "Y", Type: "compute", Cluster: "B Tier"},
		},
	}}
	g, err := newTestParser().Parse(p, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Clusters[0].Name != "B Tier" || g.Clusters[1].Name != "A Tier" {
		t.Fatalf("cluster order = [%s, %s], want declaration order", g.Clusters[0].Name, g.Clusters[1].Name)
	}
}

func TestParseImplicitCluster(t *testing.T) {
	p := Payload{Structured: &StructuredPayload{
		Nodes: []PayloadNode{{Label: "W", Type: "compute", Cluster: "Undeclared"}},
	}}
	g, err := newTestParser().Parse(p, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c := g.ClusterByName("Undeclared"); c == nil || len(c.Nodes) != 1 {
		t.Fatalf("implicit cluster not created: %+v", g.Clusters)
	}
}

func TestParseDropsUnresolvedEdges(t *testing.T) {
	p := Payload{Structured: &StructuredPayload{
		Nodes: []PayloadNode{
			{Label: "A", Type: "compute"},
			{Label: "B", Type: "compute"},
		},
		Edges: []PayloadEdge{
			{From: "A", To: "B"},
			{From: "A", To: "Ghost"},
			{From: "Ghost", To: "B"},
		},
	}}
	g, err := newTestParser().Parse(p, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := len(g.Edges), 1; got != want {
		t.Fatalf("edges = %d, want %d (unresolved dropped)", got, want)
	}
	if g.Edges[0].From != "A" || g.Edges[0].To != "B" {
		t.Fatalf("surviving edge = %+v", g.Edges[0])
	}
	if got, want := len(g.Nodes), 2; got != want {
		t.Fatalf("nodes = %d, want %d (drop must not affect nodes)", got, want)
	}
}

func TestParseUnknownTypeBecomesGeneric(t *testing.T) {
	p := Payload{Structured: &StructuredPayload{
		Nodes: []PayloadNode{{Label: "Mystery", Type: "quantum-annealer"}},
	}}
	g, err := newTestParser().Parse(p, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Nodes[0].Type.ID != GenericTypeID {
		t.Fatalf("unknown type = %q, want generic placeholder", g.Nodes[0].Type.ID)
	}
}

func TestParseRejectsEmptyLabel(t *testing.T) {
	p := Payload{Structured: &StructuredPayload{
		Nodes: []PayloadNode{{Label: "   ", Type: "compute"}},
	}}
	_, err := newTestParser().Parse(p, FormatPNG)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestParseRejectsDuplicateLabel(t *testing.T) {
	p := Payload{Structured: &StructuredPayload{
		Nodes: []PayloadNode{
			{Label: "Server", Type: "compute"},
			{Label: "Server", Type: "compute"},
		},
	}}
	_, err := newTestParser().Parse(p, FormatPNG)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestParseRejectsEmptyRawText(t *testing.T) {
	_, err := newTestParser().Parse(Payload{RawText: "   "}, FormatPNG)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestParseRawTextRecognizesComponents(t *testing.T) {
	text := "A web application with a load balancer, two web servers and a postgres database"
	g, err := newTestParser().Parse(Payload{RawText: text}, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, want := range []string{"Load Balancer", "Web Server", "Database"} {
		if g.NodeByLabel(want) == nil {
			t.Fatalf("raw parse missing %q; nodes = %+v", want, g.Nodes)
		}
	}
	// Heuristic wiring: lb -> server -> db.
	hasEdge := func(from, to string) bool {
		for _, e := range g.Edges {
			if e.From == from && e.To == to {
				return true
			}
		}
		return false
	}
	if !hasEdge("Load Balancer", "Web Server") {
		t.Fatalf("missing lb->server edge; edges = %+v", g.Edges)
	}
	if !hasEdge("Web Server", "Database") {
		t.Fatalf("missing server->db edge; edges = %+v", g.Edges)
	}
}

func TestParseRawTextQuotedClusterGroupsComputeNodes(t *testing.T) {
	text := `A cluster named "App Tier" with a web server, plus a database and a redis cache`
	g, err := newTestParser().Parse(Payload{RawText: text}, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c := g.ClusterByName("App Tier")
	if c == nil {
		t.Fatalf("cluster not created; clusters = %+v", g.Clusters)
	}
	if g.NodeByLabel("Web Server").Cluster != "App Tier" {
		t.Fatal("web server not grouped into quoted cluster")
	}
	if g.NodeByLabel("Database").Cluster != "" {
		t.Fatal("database must stay outside the application cluster")
	}
}

func TestParseRawTextDeterministic(t *testing.T) {
	text := "microservices behind an api gateway with kafka and redis"
	p := newTestParser()
	a, err := p.Parse(Payload{RawText: text}, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := p.Parse(Payload{RawText: text}, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if Synthesize(a) != Synthesize(b) {
		t.Fatal("identical raw text produced different graphs")
	}
}

func TestParseRawTextUnrecognizedYieldsEmptyGraph(t *testing.T) {
	g, err := newTestParser().Parse(Payload{RawText: "the quick brown fox jumps over the lazy dog"}, FormatPNG)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !g.Empty() {
		t.Fatalf("expected empty graph, got %d nodes", len(g.Nodes))
	}
}
