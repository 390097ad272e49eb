// Package expr models expectation computations as immutable expression
// trees: measurement leaves over diagonal observables combined by sum, list,
// or tensor composites. Trees are never edited in place; Rewrite builds new
// nodes along the rewritten path and shares the rest.
package expr

import (
	"github.com/qbitworks/qvar-estimator/internal/observable"
)

// Kind discriminates the closed set of node variants.
type Kind int

const (
	KindLeaf Kind = iota
	KindComposite
)

// Combine is a composite's combination rule. Rewriting treats it as opaque;
// only evaluation interprets it.
type Combine int

const (
	CombineSum Combine = iota
	CombineList
	CombineTensor
)

// Node is a single expression-tree node. Exactly one variant's fields are
// meaningful, selected by Kind. Nodes are immutable once built.
type Node struct {
	Kind Kind

	// Leaf fields.
	Obs     *observable.Diagonal
	Measure bool    // terminal measurement vs closed-form expectation
	Alpha   float64 // >0 marks a risk-adjusted (CVaR) measurement

	// Composite fields.
	Rule     Combine
	Children []*Node
}

// NewMeasurement returns a terminal measurement leaf for obs.
func NewMeasurement(obs *observable.Diagonal) *Node {
	return &Node{Kind: KindLeaf, Obs: obs, Measure: true}
}

// NewExact returns a closed-form expectation leaf for obs.
func NewExact(obs *observable.Diagonal) *Node {
	return &Node{Kind: KindLeaf, Obs: obs}
}

// NewRisk returns a risk-adjusted measurement leaf reporting the CVaR of
// obs's outcome distribution at quantile alpha.
func NewRisk(obs *observable.Diagonal, alpha float64) *Node {
	return &Node{Kind: KindLeaf, Obs: obs, Measure: true, Alpha: alpha}
}

// NewComposite returns a composite node combining children under rule.
func NewComposite(rule Combine, children ...*Node) *Node {
	return &Node{Kind: KindComposite, Rule: rule, Children: children}
}

// Rewrite replaces every leaf satisfying pred with transform(leaf),
// rebuilding composites along the way and returning a new tree. Composite
// rules and child order are preserved; non-matching leaves are returned as
// the original nodes (safe to share, they are off the rewritten path). The
// input tree is never mutated.
func Rewrite(n *Node, pred func(*Node) bool, transform func(*Node) *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindComposite {
		children := make([]*Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = Rewrite(c, pred, transform)
		}
		return &Node{Kind: KindComposite, Rule: n.Rule, Children: children}
	}
	if pred(n) {
		return transform(n)
	}
	return n
}

// IsMeasurement reports whether n is a terminal measurement leaf. It is the
// predicate the CVaR converter rewrites on.
func IsMeasurement(n *Node) bool {
	return n.Kind == KindLeaf && n.Measure
}

// LeafCount returns the number of leaves in the tree.
func LeafCount(n *Node) int {
	if n == nil {
		return 0
	}
	if n.Kind == KindLeaf {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += LeafCount(c)
	}
	return total
}

// Leaves returns the tree's leaves in left-to-right order.
func Leaves(n *Node) []*Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindLeaf {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, Leaves(c)...)
	}
	return out
}
