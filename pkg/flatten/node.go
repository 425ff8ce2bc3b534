package flatten

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/scene"
)

// flattenNodes walks the hierarchy under root in pre-order and returns it as
// an index-linked slice with root at index 0. A node reachable a second time
// (shared subtree or cycle) is skipped and logged.
func flattenNodes(root *importer.Node, log *zap.Logger) []scene.Node {
	type frame struct {
		node   *importer.Node
		parent int
	}

	var nodes []scene.Node
	visited := make(map[*importer.Node]int)
	stack := []frame{{node: root, parent: scene.NoIndex}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		if prev, ok := visited[f.node]; ok {
			log.Warn("skipping repeated node link",
				zap.String("node", f.node.Name),
				zap.Int("first_index", prev),
				zap.Int("parent", f.parent))
			continue
		}

		idx := len(nodes)
		visited[f.node] = idx

		scale, rotation, position := f.node.Transform.Decompose()
		n := scene.Node{
			Name:        f.node.Name,
			Position:    position,
			Orientation: rotation,
			Scale:       scale,
			Parent:      f.parent,
			Children:    []int{},
			Meshes:      append([]int{}, f.node.Meshes...),
		}
		nodes = append(nodes, n)
		if f.parent != scene.NoIndex {
			nodes[f.parent].Children = append(nodes[f.parent].Children, idx)
		}

		// Push in reverse so children pop in source order.
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], parent: idx})
		}
	}
	return nodes
}
