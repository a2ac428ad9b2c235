package diagram

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Payload is what the LLM collaborator hands to the parser: either a
// structured extraction or raw text when structured output was unavailable
// (mock/offline mode, malformed model JSON).
type Payload struct {
	Structured *StructuredPayload
	RawText    string
}

// StructuredPayload mirrors the JSON shape the model is asked to produce.
type StructuredPayload struct {
	Title    string        `json:"title,omitempty"`
	Nodes    []PayloadNode `json:"nodes"`
	Edges    []PayloadEdge `json:"edges"`
	Clusters []string      `json:"clusters,omitempty"`
}

// PayloadNode is one extracted component.
type PayloadNode struct {
	Label   string `json:"label"`
	Type    string `json:"type"`
	Cluster string `json:"cluster,omitempty"`
}

// PayloadEdge is one extracted connection.
type PayloadEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Parser converts payloads into normalized architecture graphs.
type Parser struct {
	vocab *Vocabulary
	log   *zap.Logger
}

func NewParser(vocab *Vocabulary, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{vocab: vocab, log: log}
}

// Parse builds a graph from either payload shape. Structured payloads take
// the validated path; raw text goes through best-effort keyword heuristics.
// A returned graph with zero nodes signals the caller to substitute a
// template; only malformed input is an error.
func (p *Parser) Parse(payload Payload, format Format) (*Graph, error) {
	if payload.Structured != nil {
		return p.parseStructured(payload.Structured, format)
	}
	text := strings.TrimSpace(payload.RawText)
	if text == "" {
		return nil, &ValidationError{Msg: "empty input text"}
	}
	return p.parseRawText(text, format), nil
}

func (p *Parser) parseStructured(sp *StructuredPayload, format Format) (*Graph, error) {
	g := NewGraph(sp.Title, format)

	// Declared clusters first so their order wins over first node mention.
	for _, name := range sp.Clusters {
		g.EnsureCluster(name)
	}

	seen := make(map[string]struct{}, len(sp.Nodes))
	for _, pn := range sp.Nodes {
		label := strings.TrimSpace(pn.Label)
		if label == "" {
			return nil, &ValidationError{Msg: "structured payload contains a node without a label"}
		}
		if _, dup := seen[label]; dup {
			return nil, &ValidationError{Msg: "structured payload contains duplicate node label " + label}
		}
		seen[label] = struct{}{}

		nt, known := p.vocab.Resolve(pn.Type)
		if !known {
			p.log.Debug("unknown node type, using generic placeholder",
				zap.String("label", label), zap.String("type", pn.Type))
		}
		// A cluster referenced by a node but never declared is created
		// implicitly, in first-mention order.
		g.AddNode(&Node{Label: label, Type: nt, Cluster: pn.Cluster})
	}

	for _, pe := range sp.Edges {
		from := strings.TrimSpace(pe.From)
		to := strings.TrimSpace(pe.To)
		if g.NodeByLabel(from) == nil || g.NodeByLabel(to) == nil {
			// Non-fatal: drop the edge, keep the rest of the graph.
			p.log.Warn("dropping edge with unresolved endpoint",
				zap.String("from", pe.From), zap.String("to", pe.To))
			continue
		}
		g.Edges = append(g.Edges, Edge{From: from, To: to})
	}
	return g, nil
}

// rawComponent is one recognizable component noun for the raw-text fallback.
type rawComponent struct {
	phrases []string
	typeID  string
	label   string
}

// Fallback vocabulary, checked in order. Intentionally small: this path is a
// degradation, not a primary algorithm, and the table is not meant to grow
// toward full coverage.
var rawComponents = []rawComponent{
	{phrases: []string{"load balancer", "alb", "elb"}, typeID: "load-balancer", label: "Load Balancer"},
	{phrases: []string{"api gateway"}, typeID: "api-gateway", label: "API Gateway"},
	{phrases: []string{"web server", "app server", "application server", "server", "ec2", "microservice"}, typeID: "compute", label: "Web Server"},
	{phrases: []string{"database", "postgres", "postgresql", "mysql", "rds"}, typeID: "relational-database", label: "Database"},
	{phrases: []string{"message queue", "queue", "sqs", "kafka", "rabbitmq"}, typeID: "queue", label: "Message Queue"},
	{phrases: []string{"cache", "redis", "memcached"}, typeID: "cache", label: "Cache"},
	{phrases: []string{"object storage", "storage", "s3", "bucket"}, typeID: "object-storage", label: "Storage"},
	{phrases: []string{"monitoring", "cloudwatch", "prometheus"}, typeID: "monitoring", label: "Monitoring"},
	{phrases: []string{"frontend", "react"}, typeID: "react", label: "Frontend"},
}

var clusterPhraseRe = regexp.MustCompile(`(?:named|called)\s+['"]([^'"]+)['"]`)

// parseRawText approximates a graph from free text by keyword matching.
// Deterministic for identical text; no consistency guarantee across wording
// variants of the same intent.
func (p *Parser) parseRawText(text string, format Format) *Graph {
	lower := strings.ToLower(text)
	g := NewGraph("", format)

	type hit struct {
		comp rawComponent
		pos  int
	}
	var hits []hit
	for _, comp := range rawComponents {
		first := -1
		for _, phrase := range comp.phrases {
			if idx := strings.Index(lower, phrase); idx >= 0 && (first < 0 || idx < first) {
				first = idx
			}
		}
		if first >= 0 {
			hits = append(hits, hit{comp: comp, pos: first})
		}
	}
	// Insertion order = first mention in the text. Stable insertion sort to
	// keep the fixed table order for equal positions.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	cluster := ""
	if m := clusterPhraseRe.FindStringSubmatch(text); m != nil {
		cluster = strings.TrimSpace(m[1])
	}

	for _, h := range hits {
		nt, _ := p.vocab.Resolve(h.comp.typeID)
		member := ""
		// A quoted cluster name groups the application-side nodes.
		if cluster != "" && (nt.Category == CategoryCompute || nt.Category == CategoryLanguage) {
			member = cluster
		}
		g.AddNode(&Node{Label: h.comp.label, Type: nt, Cluster: member})
	}
	if cluster != "" && len(g.Clusters) == 0 && len(g.Nodes) > 0 {
		// No application nodes matched; group everything instead.
		for _, n := range g.Nodes {
			n.Cluster = cluster
		}
		g.Clusters = append(g.Clusters, &Cluster{Name: cluster, Nodes: append([]*Node(nil), g.Nodes...)})
	}

	p.connectHeuristically(g)
	if g.Empty() {
		p.log.Info("raw-text parse produced no nodes, template fallback expected",
			zap.Int("text_len", len(text)))
	}
	return g
}

// connectHeuristically wires matched components with a fixed rule order so
// the fallback still produces a plausible topology.
func (p *Parser) connectHeuristically(g *Graph) {
	byType := func(id string) *Node {
		for _, n := range g.Nodes {
			if n.Type.ID == id {
				return n
			}
		}
		return nil
	}
	byCategory := func(c Category) []*Node {
		var out []*Node
		for _, n := range g.Nodes {
			if n.Type.Category == c {
				out = append(out, n)
			}
		}
		return out
	}
	addEdge := func(from, to *Node) {
		if from == nil || to == nil || from == to {
			return
		}
		g.Edges = append(g.Edges, Edge{From: from.Label, To: to.Label})
	}

	lb := byType("load-balancer")
	gw := byType("api-gateway")
	front := byType("react")
	computes := byCategory(CategoryCompute)

	addEdge(front, lb)
	addEdge(front, gw)
	for _, c := range computes {
		addEdge(lb, c)
		addEdge(gw, c)
	}
	for _, c := range computes {
		addEdge(c, byType("relational-database"))
		addEdge(c, byType("queue"))
		addEdge(c, byType("cache"))
		addEdge(c, byType("object-storage"))
	}
	for _, c := range computes {
		addEdge(byType("monitoring"), c)
	}
}
