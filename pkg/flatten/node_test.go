package flatten

import (
	stdmath "math"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
	"github.com/Faultbox/scenekit/pkg/scene"
)

func checkPreOrder(t *testing.T, nodes []scene.Node) {
	t.Helper()
	if len(nodes) == 0 {
		t.Fatal("no nodes")
	}
	if nodes[0].Parent != scene.NoIndex {
		t.Errorf("root parent = %d, want NoIndex", nodes[0].Parent)
	}
	for i := 1; i < len(nodes); i++ {
		if nodes[i].Parent < 0 || nodes[i].Parent >= i {
			t.Errorf("node %d parent = %d, want in [0, %d)", i, nodes[i].Parent, i)
		}
	}
}

func TestFlattenNodes_PreOrder(t *testing.T) {
	src := makeSourceScene()
	nodes := flattenNodes(src.Root, zap.NewNop())
	checkPreOrder(t, nodes)

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	want := []string{"root", "a", "a1", "b"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	if c := nodes[0].Children; len(c) != 2 || c[0] != 1 || c[1] != 3 {
		t.Errorf("root children = %v, want [1 3]", c)
	}
	if c := nodes[1].Children; len(c) != 1 || c[0] != 2 {
		t.Errorf("a children = %v, want [2]", c)
	}
	if nodes[2].Children == nil || len(nodes[2].Children) != 0 {
		t.Errorf("leaf children = %#v, want empty", nodes[2].Children)
	}
	if m := nodes[1].Meshes; len(m) != 1 || m[0] != 0 {
		t.Errorf("a meshes = %v, want [0]", m)
	}
}

func TestFlattenNodes_SingleNode(t *testing.T) {
	nodes := flattenNodes(importer.NewNode("only"), zap.NewNop())
	if len(nodes) != 1 || nodes[0].Parent != scene.NoIndex || len(nodes[0].Children) != 0 {
		t.Errorf("nodes = %+v", nodes)
	}
	if nodes[0].Scale != (math.Vec3{X: 1, Y: 1, Z: 1}) || nodes[0].Orientation != math.QuatIdentity() {
		t.Errorf("identity transform decomposed to %+v", nodes[0])
	}
}

func TestFlattenNodes_Decompose(t *testing.T) {
	rot := math.QuatFromAxisAngle(math.Vec3{Y: 1}, stdmath.Pi/2)
	n := importer.NewNode("n")
	n.Transform = math.Compose(math.Vec3{X: 1, Y: 2, Z: 3}, rot, math.Vec3{X: 2, Y: 3, Z: 4})

	got := flattenNodes(n, zap.NewNop())[0]

	if got.Position != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Position = %v", got.Position)
	}
	for i, pair := range [][2]float32{{got.Scale.X, 2}, {got.Scale.Y, 3}, {got.Scale.Z, 4}} {
		if stdmath.Abs(float64(pair[0]-pair[1])) > 1e-4 {
			t.Errorf("scale[%d] = %v, want %v", i, pair[0], pair[1])
		}
	}
	if d := stdmath.Abs(float64(got.Orientation.Dot(rot))); stdmath.Abs(d-1) > 1e-4 {
		t.Errorf("Orientation = %v, want ±%v", got.Orientation, rot)
	}
	q := got.Orientation
	if l := q.Dot(q); stdmath.Abs(float64(l-1)) > 1e-4 {
		t.Errorf("Orientation not unit: |q|^2 = %v", l)
	}
}

func TestFlattenNodes_SharedAndCyclic(t *testing.T) {
	shared := importer.NewNode("shared")
	root := importer.NewNode("root")
	a := importer.NewNode("a")
	root.AddChild(a)
	root.AddChild(shared)
	a.AddChild(shared)
	shared.AddChild(root) // cycle back to the root

	nodes := flattenNodes(root, zap.NewNop())
	checkPreOrder(t, nodes)
	if len(nodes) != 3 {
		t.Fatalf("nodes = %d, want 3 (each source node once)", len(nodes))
	}
	if len(nodes[0].Children) != 1 {
		t.Errorf("root children = %v, want only a", nodes[0].Children)
	}
	if len(nodes[2].Children) != 0 {
		t.Errorf("shared children = %v, want none", nodes[2].Children)
	}
}

func TestFlattenNodes_DeepChain(t *testing.T) {
	const depth = 200000
	root := importer.NewNode("n0")
	cur := root
	for i := 1; i < depth; i++ {
		next := importer.NewNode("n")
		cur.AddChild(next)
		cur = next
	}

	nodes := flattenNodes(root, zap.NewNop())
	if len(nodes) != depth {
		t.Fatalf("nodes = %d, want %d", len(nodes), depth)
	}
	if nodes[depth-1].Parent != depth-2 {
		t.Errorf("last parent = %d, want %d", nodes[depth-1].Parent, depth-2)
	}
}
