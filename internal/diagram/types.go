package diagram

import "strings"

// Category groups node types for styling and for the raw-text heuristics.
type Category string

const (
	CategoryCompute    Category = "compute"
	CategoryStorage    Category = "storage"
	CategoryNetwork    Category = "network"
	CategorySecurity   Category = "security"
	CategoryMonitoring Category = "monitoring"
	CategoryLanguage   Category = "language"
)

// NodeType is a renderable node descriptor. Instances are defined once at
// startup in the Vocabulary and shared read-only across requests.
type NodeType struct {
	ID       string // canonical identifier, e.g. "load-balancer"
	Label    string // display label used when the instance has no better one
	Category Category
	Provider string // "aws", "onprem", "generic", ...

	// Graphviz styling.
	Shape     string
	FillColor string
}

// Node is a single placed component in a graph.
type Node struct {
	Label   string
	Type    NodeType
	Cluster string // empty = top level
}

// Cluster is a named visual grouping of nodes, in insertion order.
type Cluster struct {
	Name  string
	Nodes []*Node
}

// Edge is a directed connection between two node labels. Both endpoints are
// guaranteed resolvable by the parser.
type Edge struct {
	From string
	To   string
}

// Graph is the normalized unit handed from the parser to the synthesizer.
// It is built fresh per request and treated as immutable afterwards.
type Graph struct {
	Title    string
	Format   Format
	Clusters []*Cluster // named clusters, first-mention order
	Nodes    []*Node    // every node, insertion order
	Edges    []Edge
}

// NewGraph creates an empty graph with the given title and format.
func NewGraph(title string, format Format) *Graph {
	if strings.TrimSpace(title) == "" {
		title = "Architecture Diagram"
	}
	if format == "" {
		format = DefaultFormat
	}
	return &Graph{Title: title, Format: format}
}

// AddNode appends a node, creating its cluster on first mention.
func (g *Graph) AddNode(n *Node) {
	if g == nil || n == nil {
		return
	}
	g.Nodes = append(g.Nodes, n)
	name := strings.TrimSpace(n.Cluster)
	if name == "" {
		return
	}
	n.Cluster = name
	if c := g.ClusterByName(name); c != nil {
		c.Nodes = append(c.Nodes, n)
		return
	}
	g.Clusters = append(g.Clusters, &Cluster{Name: name, Nodes: []*Node{n}})
}

// EnsureCluster registers a cluster name without adding nodes to it.
func (g *Graph) EnsureCluster(name string) {
	if g == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" || g.ClusterByName(name) != nil {
		return
	}
	g.Clusters = append(g.Clusters, &Cluster{Name: name})
}

// ClusterByName returns the named cluster, or nil.
func (g *Graph) ClusterByName(name string) *Cluster {
	if g == nil {
		return nil
	}
	for _, c := range g.Clusters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NodeByLabel returns the node with the given label, or nil.
func (g *Graph) NodeByLabel(label string) *Node {
	if g == nil {
		return nil
	}
	for _, n := range g.Nodes {
		if n.Label == label {
			return n
		}
	}
	return nil
}

// Unclustered returns the nodes with no cluster membership, insertion order.
func (g *Graph) Unclustered() []*Node {
	if g == nil {
		return nil
	}
	var out []*Node
	for _, n := range g.Nodes {
		if strings.TrimSpace(n.Cluster) == "" {
			out = append(out, n)
		}
	}
	return out
}

// Empty reports whether the graph has no nodes at all.
func (g *Graph) Empty() bool { return g == nil || len(g.Nodes) == 0 }
