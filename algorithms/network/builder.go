package network

import "fmt"

// Builder assembles a Problem from named nodes
type Builder struct {
	names   []string
	index   map[string]int
	edges   []Edge
	sources map[int]float64
	refs    []Reference
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		index:   make(map[string]int),
		sources: make(map[int]float64),
	}
}

// Node returns the index of name, creating the node on first use
func (b *Builder) Node(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	i := len(b.names)
	b.names = append(b.names, name)
	b.index[name] = i
	return i
}

// Index returns the index of an existing node
func (b *Builder) Index(name string) (int, bool) {
	i, ok := b.index[name]
	return i, ok
}

// Names returns node names in index order
func (b *Builder) Names() []string {
	return append([]string(nil), b.names...)
}

// Connect adds a resistance between two named nodes
func (b *Builder) Connect(from, to string, resistance float64, kind EdgeKind) {
	b.edges = append(b.edges, Edge{
		From:       b.Node(from),
		To:         b.Node(to),
		Resistance: resistance,
		Kind:       kind,
	})
}

// Series connects from and to through resistances in series, creating
// intermediate nodes named "<from>-><to>#i"
func (b *Builder) Series(from, to string, kind EdgeKind, resistances ...float64) {
	prev := from
	for i, r := range resistances {
		next := to
		if i < len(resistances)-1 {
			next = fmt.Sprintf("%s->%s#%d", from, to, i)
		}
		b.Connect(prev, next, r, kind)
		prev = next
	}
}

// AddSource injects flow into a named node. Repeated calls accumulate.
func (b *Builder) AddSource(name string, flow float64) {
	b.sources[b.Node(name)] += flow
}

// Fix pins the value of a named node
func (b *Builder) Fix(name string, value float64) {
	b.refs = append(b.refs, Reference{Node: b.Node(name), Value: value})
}

// Problem returns the assembled network
func (b *Builder) Problem() Problem {
	sources := make([]float64, len(b.names))
	for i, q := range b.sources {
		sources[i] = q
	}
	return Problem{
		Nodes:      len(b.names),
		Edges:      append([]Edge(nil), b.edges...),
		Sources:    sources,
		References: append([]Reference(nil), b.refs...),
	}
}

// Solve assembles and solves the network, returning values keyed by node name
func (b *Builder) Solve() (map[string]float64, error) {
	x, err := Solve(b.Problem())
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(x))
	for i, name := range b.names {
		out[name] = x[i]
	}
	return out, nil
}
