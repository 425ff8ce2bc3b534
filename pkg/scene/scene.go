// Package scene defines the flattened, pointer-free scene model produced by
// the flatten package. Every link between records is an index into one of
// the Scene slices and every buffer is owned by the Scene.
package scene

import (
	"github.com/Faultbox/scenekit/pkg/math"
)

// NoIndex marks an absent parent or material reference.
const NoIndex = -1

// Scene is the root aggregate of a flattened import.
//
// When Success is false only ErrorMessage is meaningful; Nodes, Meshes and
// Materials are empty.
type Scene struct {
	Success      bool
	ErrorMessage string
	Name         string
	Nodes        []Node
	Meshes       []Mesh
	Materials    []Material
}

// Failed returns a failure result carrying msg.
func Failed(msg string) *Scene {
	return &Scene{ErrorMessage: msg}
}

// Node is one entry of the flattened hierarchy.
//
// Nodes are stored in pre-order: Nodes[0] is the root and every other node's
// Parent is smaller than its own index.
type Node struct {
	Name        string
	Position    math.Vec3
	Orientation math.Quat
	Scale       math.Vec3
	Parent      int   // NoIndex for the root
	Children    []int // indices into Scene.Nodes, in source order
	Meshes      []int // indices into Scene.Meshes
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == NoIndex
}

// Root returns the root node, or nil for an empty or failed scene.
func (s *Scene) Root() *Node {
	if len(s.Nodes) == 0 {
		return nil
	}
	return &s.Nodes[0]
}

// Walk visits nodes in pre-order with their depth. Because nodes are stored
// in pre-order the walk only needs the children lists.
func (s *Scene) Walk(fn func(index, depth int, n *Node)) {
	if len(s.Nodes) == 0 {
		return
	}
	type item struct{ index, depth int }
	stack := []item{{0, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &s.Nodes[it.index]
		fn(it.index, it.depth, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{n.Children[i], it.depth + 1})
		}
	}
}
