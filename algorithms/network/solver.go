// Package network solves lumped resistance networks by nodal analysis. The same
// solver serves heat flow (temperatures, watts) and any other potential/flow pair.
package network

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSingularNetwork is returned when some node has no path to a reference node
	ErrSingularNetwork = errors.New("network: conductance matrix is singular")
	// ErrNodeOutOfRange is returned for edge or reference indices outside the network
	ErrNodeOutOfRange = errors.New("network: node index out of range")
	// ErrInvalidResistance is returned for zero, negative or NaN resistances
	ErrInvalidResistance = errors.New("network: resistance must be positive")
	// ErrSourceLength is returned when the source vector does not match the node count
	ErrSourceLength = errors.New("network: source vector length differs from node count")
)

// EdgeKind names the physical mechanism behind a resistance
type EdgeKind string

const (
	KindPlaneWall       EdgeKind = "plane_wall"
	KindCylindricalWall EdgeKind = "cylindrical_wall"
	KindConvection      EdgeKind = "convection"
	KindAdvection       EdgeKind = "advection"
	KindContact         EdgeKind = "contact"
)

// Edge is a resistance between two nodes. A +Inf resistance is an open edge.
type Edge struct {
	From       int      `json:"from"`
	To         int      `json:"to"`
	Resistance float64  `json:"resistance"`
	Kind       EdgeKind `json:"kind,omitempty"`
}

// Reference fixes the value of a node
type Reference struct {
	Node  int     `json:"node"`
	Value float64 `json:"value"`
}

// Problem is a complete network description
type Problem struct {
	Nodes      int         `json:"nodes"`
	Edges      []Edge      `json:"edges"`
	Sources    []float64   `json:"sources"` // Injected flow per node; nil means none
	References []Reference `json:"references"`
}

// Validate checks indices, resistances and the source vector
func (p Problem) Validate() error {
	if p.Nodes <= 0 {
		return fmt.Errorf("network: node count must be positive: %d", p.Nodes)
	}
	if p.Sources != nil && len(p.Sources) != p.Nodes {
		return fmt.Errorf("%w: sources=%d nodes=%d", ErrSourceLength, len(p.Sources), p.Nodes)
	}
	for i, e := range p.Edges {
		if e.From < 0 || e.From >= p.Nodes || e.To < 0 || e.To >= p.Nodes {
			return fmt.Errorf("%w: edge %d (%d-%d) with %d nodes", ErrNodeOutOfRange, i, e.From, e.To, p.Nodes)
		}
		if e.From == e.To {
			return fmt.Errorf("network: edge %d connects node %d to itself", i, e.From)
		}
		if !(e.Resistance > 0) {
			return fmt.Errorf("%w: edge %d (%s) has %v", ErrInvalidResistance, i, e.Kind, e.Resistance)
		}
	}
	for _, ref := range p.References {
		if ref.Node < 0 || ref.Node >= p.Nodes {
			return fmt.Errorf("%w: reference node %d with %d nodes", ErrNodeOutOfRange, ref.Node, p.Nodes)
		}
	}
	return nil
}

// Admittance returns the symmetric matrix of inverse resistances. Parallel
// edges between the same pair of nodes add.
func (p Problem) Admittance() *mat.SymDense {
	rInv := mat.NewSymDense(p.Nodes, nil)
	for _, e := range p.Edges {
		if math.IsInf(e.Resistance, 1) {
			continue
		}
		rInv.SetSym(e.From, e.To, rInv.At(e.From, e.To)+1/e.Resistance)
	}
	return rInv
}

// Solve returns the steady-state value of every node.
//
// The conductance matrix G = diag(rowsum(R_inv)) − R_inv is assembled, every
// reference row is replaced by the identity row with the fixed value on the right
// hand side, and x = G⁻¹·b is computed by direct inversion.
func Solve(p Problem) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Nodes
	rInv := p.Admittance()

	g := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			rowSum += rInv.At(i, j)
			g.Set(i, j, -rInv.At(i, j))
		}
		g.Set(i, i, g.At(i, i)+rowSum)
	}

	b := mat.NewVecDense(n, nil)
	if p.Sources != nil {
		for i, q := range p.Sources {
			b.SetVec(i, q)
		}
	}

	for _, ref := range p.References {
		for j := 0; j < n; j++ {
			g.Set(ref.Node, j, 0)
		}
		g.Set(ref.Node, ref.Node, 1)
		b.SetVec(ref.Node, ref.Value)
	}

	var inv mat.Dense
	if err := inv.Inverse(g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularNetwork, err)
	}

	var x mat.VecDense
	x.MulVec(&inv, b)
	return mat.Col(nil, 0, &x), nil
}
