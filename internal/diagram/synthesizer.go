package diagram

import (
	"fmt"
	"strings"
)

// Synthesize translates a normalized graph into Graphviz DOT source text.
// Emission order is fixed so identical graphs always yield byte-identical
// output: canvas declaration, cluster blocks in cluster order, unclustered
// nodes, then connections in edge order. The synthesizer trusts the parser's
// invariants and performs no semantic validation of its own.
func Synthesize(g *Graph) string {
	if g == nil {
		return ""
	}
	ids := newDotIDGenerator()
	var b strings.Builder

	fmt.Fprintf(&b, "// Generated architecture diagram (format: %s)\n", g.Format)
	fmt.Fprintf(&b, "digraph %q {\n", g.Title)
	fmt.Fprintf(&b, "    graph [label=%q, labelloc=\"t\", fontname=\"Helvetica\", fontsize=20, pad=\"0.4\"];\n", g.Title)
	b.WriteString("    node [style=\"filled\", fontname=\"Helvetica\"];\n")
	b.WriteString("    edge [color=\"#5B5B5B\"];\n")

	for i, c := range g.Clusters {
		b.WriteString("\n")
		fmt.Fprintf(&b, "    subgraph cluster_%d {\n", i)
		fmt.Fprintf(&b, "        label=%q;\n", c.Name)
		b.WriteString("        style=\"rounded\";\n")
		b.WriteString("        color=\"#9AA4AD\";\n")
		for _, n := range c.Nodes {
			b.WriteString("        ")
			writeNode(&b, ids, n)
		}
		b.WriteString("    }\n")
	}

	unclustered := g.Unclustered()
	if len(unclustered) > 0 {
		b.WriteString("\n")
		for _, n := range unclustered {
			b.WriteString("    ")
			writeNode(&b, ids, n)
		}
	}

	if len(g.Edges) > 0 {
		b.WriteString("\n")
		for _, e := range g.Edges {
			fmt.Fprintf(&b, "    %s -> %s;\n", ids.ID(e.From), ids.ID(e.To))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func writeNode(b *strings.Builder, ids *dotIDGenerator, n *Node) {
	fmt.Fprintf(b, "%s [label=%q, shape=%s, fillcolor=%q];\n",
		ids.ID(n.Label), n.Label, n.Type.Shape, n.Type.FillColor)
}
