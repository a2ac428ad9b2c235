package diagram

import "strings"

// Templates is a fixed set of canned architecture graphs used when parsing
// produced an empty graph or the service runs without a live model. Built
// once at startup, read-only afterwards.
type Templates struct {
	parser  *Parser
	entries []templateEntry
	deflt   *StructuredPayload
}

type templateEntry struct {
	keys    []string
	payload *StructuredPayload
}

// NewTemplates builds the template table. Priority is the declaration order:
// the first entry whose key substring-matches the hint wins.
func NewTemplates(vocab *Vocabulary) *Templates {
	t := &Templates{parser: NewParser(vocab, nil)}

	t.entries = []templateEntry{
		{
			keys: []string{"web app", "web application", "load balancer"},
			payload: &StructuredPayload{
				Title: "Web Application Architecture",
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
			},
		},
		{
			keys: []string{"microservice"},
			payload: &StructuredPayload{
				Title: "Microservices Architecture",
				Nodes: []PayloadNode{
					{Label: "API Gateway", Type: "api-gateway"},
					{Label: "Auth Service", Type: "compute", Cluster: "Microservices"},
					{Label: "Payment Service", Type: "compute", Cluster: "Microservices"},
					{Label: "Order Service", Type: "compute", Cluster: "Microservices"},
					{Label: "Message Queue", Type: "queue"},
					{Label: "Shared Database", Type: "relational-database"},
					{Label: "Monitoring", Type: "monitoring"},
				},
				Edges: []PayloadEdge{
					{From: "API Gateway", To: "Auth Service"},
					{From: "API Gateway", To: "Payment Service"},
					{From: "API Gateway", To: "Order Service"},
					{From: "Auth Service", To: "Message Queue"},
					{From: "Payment Service", To: "Message Queue"},
					{From: "Order Service", To: "Message Queue"},
					{From: "Auth Service", To: "Shared Database"},
					{From: "Payment Service", To: "Shared Database"},
					{From: "Order Service", To: "Shared Database"},
					{From: "Monitoring", To: "Auth Service"},
					{From: "Monitoring", To: "Payment Service"},
					{From: "Monitoring", To: "Order Service"},
				},
			},
		},
		{
			keys: []string{"event", "streaming", "pipeline"},
			payload: &StructuredPayload{
				Title: "Event Pipeline",
				Nodes: []PayloadNode{
					{Label: "Producer", Type: "compute"},
					{Label: "Queue", Type: "queue"},
					{Label: "Consumer", Type: "compute", Cluster: "Processing"},
					{Label: "Archive", Type: "object-storage"},
				},
				Edges: []PayloadEdge{
					{From: "Producer", To: "Queue"},
					{From: "Queue", To: "Consumer"},
					{From: "Consumer", To: "Archive"},
				},
			},
		},
		{
			keys: []string{"cache", "redis"},
			payload: &StructuredPayload{
				Title: "Cached Service",
				Nodes: []PayloadNode{
					{Label: "API", Type: "compute"},
					{Label: "Cache", Type: "cache"},
					{Label: "Database", Type: "relational-database"},
				},
				Edges: []PayloadEdge{
					{From: "API", To: "Cache"},
					{From: "API", To: "Database"},
				},
			},
		},
		{
			keys: []string{"database"},
			payload: &StructuredPayload{
				Title: "Database",
				Nodes: []PayloadNode{
					{Label: "Application", Type: "compute"},
					{Label: "Primary", Type: "relational-database", Cluster: "Data Tier"},
					{Label: "Replica", Type: "relational-database", Cluster: "Data Tier"},
				},
				Edges: []PayloadEdge{
					{From: "Application", To: "Primary"},
					{From: "Primary", To: "Replica"},
				},
			},
		},
		{
			keys: []string{"frontend", "react"},
			payload: &StructuredPayload{
				Title: "Frontend and Backend",
				Nodes: []PayloadNode{
					{Label: "Frontend", Type: "react"},
					{Label: "Backend API", Type: "fastapi"},
					{Label: "Database", Type: "relational-database"},
				},
				Edges: []PayloadEdge{
					{From: "Frontend", To: "Backend API"},
					{From: "Backend API", To: "Database"},
				},
			},
		},
	}

	t.deflt = &StructuredPayload{
		Title: "Custom Architecture",
		Nodes: []PayloadNode{
			{Label: "Service 1", Type: "compute", Cluster: "Main Cluster"},
			{Label: "Service 2", Type: "compute", Cluster: "Main Cluster"},
			{Label: "Database", Type: "relational-database"},
		},
		Edges: []PayloadEdge{
			{From: "Service 1", To: "Database"},
			{From: "Service 2", To: "Database"},
		},
	}
	return t
}

// Lookup returns a fresh graph for the first template whose key appears in
// the hint (case-insensitive). Falls back to the default template; never
// returns nil or an empty graph.
func (t *Templates) Lookup(hint string, format Format) *Graph {
	if t == nil {
		return nil
	}
	lower := strings.ToLower(hint)
	for _, e := range t.entries {
		for _, key := range e.keys {
			if strings.Contains(lower, key) {
				return t.build(e.payload, format)
			}
		}
	}
	return t.build(t.deflt, format)
}

// build materializes a payload through the regular parser so every template
// graph satisfies the same invariants as parsed input.
func (t *Templates) build(p *StructuredPayload, format Format) *Graph {
	g, err := t.parser.Parse(Payload{Structured: p}, format)
	if err != nil {
		// Templates are hand-authored; a parse failure is a programming error.
		panic("diagram: invalid built-in template: " + err.Error())
	}
	return g
}
