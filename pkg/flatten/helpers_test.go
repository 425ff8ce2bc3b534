package flatten

import (
	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
)

// fakeSession hands out a prepared scene. Close scribbles over every source
// buffer so tests catch output that still aliases importer memory.
type fakeSession struct {
	scene  *importer.Scene
	closed int
}

func (s *fakeSession) Scene() *importer.Scene { return s.scene }

func (s *fakeSession) Close() error {
	s.closed++
	if s.scene != nil {
		scribble(s.scene)
	}
	return nil
}

// fakeImporter returns a new session over build() on every Open.
type fakeImporter struct {
	build    func() *importer.Scene
	err      error
	sessions []*fakeSession
	lastPath string
	flags    importer.Flags
}

func (f *fakeImporter) Open(path string, flags importer.Flags) (importer.Session, error) {
	f.lastPath, f.flags = path, flags
	if f.err != nil {
		return nil, f.err
	}
	var s *importer.Scene
	if f.build != nil {
		s = f.build()
	}
	sess := &fakeSession{scene: s}
	f.sessions = append(f.sessions, sess)
	return sess, nil
}

func scribble(s *importer.Scene) {
	garbage := math.Vec3{X: 99, Y: 99, Z: 99}
	for _, m := range s.Meshes {
		for _, buf := range [][]math.Vec3{m.Positions, m.Normals, m.Tangents, m.Bitangents} {
			for i := range buf {
				buf[i] = garbage
			}
		}
		for _, buf := range m.TexCoords {
			for i := range buf {
				buf[i] = garbage
			}
		}
		for _, buf := range m.Colors {
			for i := range buf {
				buf[i] = math.Color4{R: 99, G: 99, B: 99, A: 99}
			}
		}
		for _, f := range m.Faces {
			for i := range f.Indices {
				f.Indices[i] = 0xdead
			}
		}
	}
	for _, t := range s.Textures {
		for i := range t.Texels {
			t.Texels[i] = 0xff
		}
	}
}

// makeSourceScene builds root -> (a -> a1, b) with one textured triangle mesh
// on a, one embedded compressed texture and one raw texture.
func makeSourceScene() *importer.Scene {
	tri := &importer.Mesh{
		Name:           "tri",
		PrimitiveTypes: importer.PrimitiveTriangle,
		NumVertices:    3,
		Positions:      []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Normals:        []math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
		Faces:          []importer.Face{{Indices: []uint32{0, 1, 2}}},
		AABB:           importer.AABB{Max: math.Vec3{X: 1, Y: 1}},
		MaterialIndex:  0,
	}
	tri.TexCoords[0] = []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	tri.Colors[0] = []math.Color4{{R: 1, A: 1}, {G: 1, A: 1}, {B: 1, A: 1}}

	mat := importer.NewMaterial("painted").
		SetColor3(importer.KeyColorDiffuse, math.Color3{R: 0.5, G: 0.5, B: 0.5}).
		AddTexture(importer.TextureDiffuse, "*0").
		AddTexture(importer.TextureDiffuse, "textures/wall.png").
		AddTexture(importer.TextureBaseColor, "*0").
		AddTexture(importer.TextureNormals, "*1")

	a := importer.NewNode("a")
	a.Transform = math.Translate(1, 2, 3)
	a.Meshes = []int{0}
	a.AddChild(importer.NewNode("a1"))

	root := importer.NewNode("root")
	root.AddChild(a)
	root.AddChild(importer.NewNode("b"))

	return &importer.Scene{
		Name:      "fixture",
		Root:      root,
		Meshes:    []*importer.Mesh{tri},
		Materials: []*importer.Material{mat},
		Textures: []*importer.EmbeddedTexture{
			{Width: 5, Height: 0, FormatHint: "png", Texels: []byte{1, 2, 3, 4, 5}},
			{Width: 2, Height: 1, Texels: []byte{10, 20, 30, 255, 40, 50, 60, 255}},
		},
	}
}
