// Package gltfimport imports glTF 2.0 (.gltf, .glb) files into the importer
// scene model.
package gltfimport

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
)

// Extensions handled by the importer.
var Extensions = []string{".gltf", ".glb"}

// Import errors.
var (
	ErrNoPositions = errors.New("primitive has no POSITION attribute")
	ErrNoNodes     = errors.New("document has no nodes")
)

// defaultMaterialName names the material given to primitives without one.
const defaultMaterialName = "DefaultMaterial"

// Importer reads glTF documents.
type Importer struct {
	log *zap.Logger
}

var _ importer.Importer = &Importer{}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(imp *Importer) {
		if l != nil {
			imp.log = l
		}
	}
}

// New creates a glTF importer.
func New(opts ...Option) *Importer {
	imp := &Importer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Register adds the importer to r under Extensions.
func (imp *Importer) Register(r *importer.Registry) {
	r.Register(imp, Extensions...)
}

// Open decodes path and applies the post-processing selected by flags.
func (imp *Importer) Open(path string, flags importer.Flags) (importer.Session, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF %s: %w", path, err)
	}

	s, err := convert(doc, sceneName(doc, path), imp.log.With(zap.String("path", path)))
	if err != nil {
		return nil, fmt.Errorf("converting glTF %s: %w", path, err)
	}

	importer.PostProcess(s, flags)
	imp.log.Debug("glTF imported",
		zap.String("path", path),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
		zap.Int("textures", len(s.Textures)),
		zap.Stringer("flags", flags))

	return importer.NewSession(s, nil), nil
}

func sceneName(doc *gltf.Document, path string) string {
	if idx := activeScene(doc); idx >= 0 && doc.Scenes[idx].Name != "" {
		return doc.Scenes[idx].Name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// activeScene returns the index of the scene to import, or -1.
func activeScene(doc *gltf.Document) int {
	if len(doc.Scenes) == 0 {
		return -1
	}
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return *doc.Scene
	}
	return 0
}

// convert builds the importer scene from a decoded document.
func convert(doc *gltf.Document, name string, log *zap.Logger) (*importer.Scene, error) {
	s := &importer.Scene{Name: name}

	imageSlots := embedImages(doc, s, log)

	for _, mat := range doc.Materials {
		s.Materials = append(s.Materials, convertMaterial(doc, mat, imageSlots))
	}

	// meshRange[i] holds the first primitive mesh of glTF mesh i and its count.
	meshRange := make([][2]int, len(doc.Meshes))
	defaultMaterial := -1
	for mi, mesh := range doc.Meshes {
		meshRange[mi] = [2]int{len(s.Meshes), len(mesh.Primitives)}
		for pi, prim := range mesh.Primitives {
			m, err := convertPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			m.Name = mesh.Name
			if len(mesh.Primitives) > 1 {
				m.Name = fmt.Sprintf("%s.%d", mesh.Name, pi)
			}
			if prim.Material != nil {
				m.MaterialIndex = *prim.Material
			} else {
				if defaultMaterial < 0 {
					defaultMaterial = len(s.Materials)
					s.Materials = append(s.Materials, importer.NewMaterial(defaultMaterialName).
						SetInt(importer.KeyShadingModel, importer.ShadingPbrBrdf))
				}
				m.MaterialIndex = defaultMaterial
			}
			s.Meshes = append(s.Meshes, m)
		}
	}

	root, err := buildNodes(doc, meshRange)
	if err != nil {
		return nil, err
	}
	s.Root = root
	return s, nil
}

// embedImages moves images stored in buffer views or data URIs into the
// embedded texture table. The result maps image index to table index, -1
// for external and unreadable images. Unreadable images are logged and
// left out of every material.
func embedImages(doc *gltf.Document, s *importer.Scene, log *zap.Logger) []int {
	slots := make([]int, len(doc.Images))
	for i, img := range doc.Images {
		slots[i] = -1

		var data []byte
		switch {
		case img.BufferView != nil && *img.BufferView < len(doc.BufferViews):
			b, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				log.Warn("skipping unreadable image", zap.Int("image", i), zap.Error(err))
				continue
			}
			data = b
		case img.IsEmbeddedResource():
			b, err := img.MarshalData()
			if err != nil {
				log.Warn("skipping unreadable image", zap.Int("image", i), zap.Error(err))
				continue
			}
			data = b
		default:
			continue
		}

		slots[i] = len(s.Textures)
		s.Textures = append(s.Textures, &importer.EmbeddedTexture{
			Width:      uint32(len(data)),
			Height:     0,
			FormatHint: formatHint(img),
			Texels:     data,
		})
	}
	return slots
}

// formatHint derives a short extension-like hint ("png", "jpg").
func formatHint(img *gltf.Image) string {
	mime := img.MimeType
	if mime == "" && strings.HasPrefix(img.URI, "data:") {
		if end := strings.IndexByte(img.URI, ';'); end > 0 {
			mime = img.URI[len("data:"):end]
		}
	}
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/ktx2":
		return "ktx2"
	}
	if ext := strings.TrimPrefix(filepath.Ext(img.URI), "."); ext != "" && !strings.HasPrefix(img.URI, "data:") {
		return strings.ToLower(ext)
	}
	return ""
}

// buildNodes creates the node hierarchy of the active scene. Several scene
// roots are gathered under a synthetic ROOT node.
func buildNodes(doc *gltf.Document, meshRange [][2]int) (*importer.Node, error) {
	if len(doc.Nodes) == 0 {
		root := importer.NewNode("ROOT")
		// A document with meshes but no nodes still exposes its meshes.
		for _, r := range meshRange {
			for k := 0; k < r[1]; k++ {
				root.Meshes = append(root.Meshes, r[0]+k)
			}
		}
		return root, nil
	}

	nodes := make([]*importer.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := &importer.Node{Name: gn.Name, Transform: nodeTransform(gn)}
		if n.Name == "" {
			n.Name = fmt.Sprintf("node_%d", i)
		}
		if gn.Mesh != nil && *gn.Mesh < len(meshRange) {
			r := meshRange[*gn.Mesh]
			for k := 0; k < r[1]; k++ {
				n.Meshes = append(n.Meshes, r[0]+k)
			}
		}
		nodes[i] = n
	}

	isChild := make([]bool, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("node %d: child %d out of range", i, c)
			}
			nodes[i].AddChild(nodes[c])
			isChild[c] = true
		}
	}

	var roots []int
	if idx := activeScene(doc); idx >= 0 {
		roots = doc.Scenes[idx].Nodes
	} else {
		for i := range nodes {
			if !isChild[i] {
				roots = append(roots, i)
			}
		}
	}

	switch len(roots) {
	case 0:
		return nil, ErrNoNodes
	case 1:
		if roots[0] < 0 || roots[0] >= len(nodes) {
			return nil, fmt.Errorf("scene root %d out of range", roots[0])
		}
		return nodes[roots[0]], nil
	}

	root := importer.NewNode("ROOT")
	for _, r := range roots {
		if r < 0 || r >= len(nodes) {
			return nil, fmt.Errorf("scene root %d out of range", r)
		}
		root.AddChild(nodes[r])
	}
	return root, nil
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeTransform returns the node's local matrix from either its matrix or
// its TRS properties.
func nodeTransform(n *gltf.Node) math.Mat4 {
	if n.Matrix != identity64 && n.Matrix != [16]float64{} {
		var m math.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := mgl32.Vec3{float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2])}

	rot := mgl32.QuatIdent()
	if n.Rotation != [4]float64{} {
		rot = mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}.Normalize()
	}

	sc := mgl32.Vec3{1, 1, 1}
	if n.Scale != [3]float64{} {
		sc = mgl32.Vec3{float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2])}
	}

	m := mgl32.Translate3D(t.X(), t.Y(), t.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(sc.X(), sc.Y(), sc.Z()))
	return math.Mat4(m)
}
