package diagram

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// dotIDGenerator derives stable DOT identifiers from instance labels and
// resolves collisions. A generated ID shape is "<slug>_<hash>" (or
// "<slug>_<hash>_N" on collision), which is safe as an unquoted Graphviz ID.
type dotIDGenerator struct {
	used    map[string]struct{}
	counter map[string]int
	byLabel map[string]string
}

func newDotIDGenerator() *dotIDGenerator {
	return &dotIDGenerator{
		used:    make(map[string]struct{}, 8),
		counter: make(map[string]int, 8),
		byLabel: make(map[string]string, 8),
	}
}

// ID returns the identifier for a label, generating it on first use.
// The same label always maps to the same identifier within one generator.
func (g *dotIDGenerator) ID(label string) string {
	if g == nil {
		g = newDotIDGenerator()
	}
	if id, ok := g.byLabel[label]; ok {
		return id
	}
	base := baseDotID(label)
	id := base
	if _, taken := g.used[base]; taken {
		n := g.counter[base]
		if n < 1 {
			n = 1
		}
		for {
			n++
			candidate := fmt.Sprintf("%s_%d", base, n)
			if _, exists := g.used[candidate]; !exists {
				id = candidate
				g.counter[base] = n
				break
			}
		}
	} else {
		g.counter[base] = 1
	}
	g.used[id] = struct{}{}
	g.byLabel[label] = id
	return id
}

func baseDotID(label string) string {
	slug := slugifyDotID(label)
	if slug == "" {
		slug = "node"
	}
	return fmt.Sprintf("%s_%s", slug, shortHashHex(label))
}

func shortHashHex(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", uint32(h.Sum64()&0xffffffff))
}

func slugifyDotID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	lastSep := false
	for _, r := range s {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastSep = false
		default:
			if !lastSep {
				b.WriteByte('_')
				lastSep = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
