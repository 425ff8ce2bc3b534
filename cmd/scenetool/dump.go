package main

import (
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenekit/pkg/math"
	"github.com/Faultbox/scenekit/pkg/scene"
)

// The dump types are a YAML view of a flat scene: counts and metadata,
// no vertex data.

type sceneDump struct {
	Name      string         `yaml:"name"`
	Stats     statsDump      `yaml:"stats"`
	Nodes     []nodeDump     `yaml:"nodes"`
	Meshes    []meshDump     `yaml:"meshes"`
	Materials []materialDump `yaml:"materials"`
}

type statsDump struct {
	Vertices         int `yaml:"vertices"`
	Indices          int `yaml:"indices"`
	Textures         int `yaml:"textures"`
	EmbeddedTextures int `yaml:"embedded_textures"`
	MaxDepth         int `yaml:"max_depth"`
}

type nodeDump struct {
	Name        string     `yaml:"name"`
	Parent      int        `yaml:"parent"`
	Children    []int      `yaml:"children,flow"`
	Meshes      []int      `yaml:"meshes,flow,omitempty"`
	Position    [3]float32 `yaml:"position,flow"`
	Orientation [4]float32 `yaml:"orientation,flow"`
	Scale       [3]float32 `yaml:"scale,flow"`
}

type meshDump struct {
	Name      string        `yaml:"name"`
	Primitive string        `yaml:"primitive"`
	Material  int           `yaml:"material"`
	Vertices  int           `yaml:"vertices"`
	Indices   int           `yaml:"indices"`
	Bounds    [2][3]float32 `yaml:"bounds,flow"`
	Channels  []string      `yaml:"channels,flow"`
}

type materialDump struct {
	Name      string                   `yaml:"name"`
	Shading   string                   `yaml:"shading"`
	Blend     string                   `yaml:"blend"`
	Diffuse   [3]float32               `yaml:"diffuse,flow"`
	BaseColor [3]float32               `yaml:"base_color,flow"`
	Opacity   float32                  `yaml:"opacity"`
	TwoSided  bool                     `yaml:"two_sided,omitempty"`
	Roughness *float32                 `yaml:"roughness,omitempty"`
	Metallic  *float32                 `yaml:"metallic,omitempty"`
	Textures  map[string][]textureDump `yaml:"textures,omitempty"`
}

type textureDump struct {
	Key    string `yaml:"key"`
	File   string `yaml:"file,omitempty"`
	Bytes  int    `yaml:"bytes,omitempty"`
	Width  uint32 `yaml:"width,omitempty"`
	Height uint32 `yaml:"height,omitempty"`
}

func marshalScene(s *scene.Scene) ([]byte, error) {
	st := s.Stats()
	d := sceneDump{
		Name: s.Name,
		Stats: statsDump{
			Vertices:         st.Vertices,
			Indices:          st.Indices,
			Textures:         st.Textures,
			EmbeddedTextures: st.EmbeddedTextures,
			MaxDepth:         st.MaxDepth,
		},
		Nodes:     make([]nodeDump, len(s.Nodes)),
		Meshes:    make([]meshDump, len(s.Meshes)),
		Materials: make([]materialDump, len(s.Materials)),
	}

	for i := range s.Nodes {
		n := &s.Nodes[i]
		q := n.Orientation
		d.Nodes[i] = nodeDump{
			Name:        n.Name,
			Parent:      n.Parent,
			Children:    n.Children,
			Meshes:      n.Meshes,
			Position:    n.Position.Array(),
			Orientation: [4]float32{q.X, q.Y, q.Z, q.W},
			Scale:       n.Scale.Array(),
		}
	}

	for i := range s.Meshes {
		m := &s.Meshes[i]
		d.Meshes[i] = meshDump{
			Name:      m.Name,
			Primitive: m.Primitive.String(),
			Material:  m.Material,
			Vertices:  m.VertexCount,
			Indices:   len(m.Indices),
			Bounds:    [2][3]float32{m.Bounds.Min.Array(), m.Bounds.Max.Array()},
			Channels:  channels(m),
		}
	}

	for i := range s.Materials {
		d.Materials[i] = dumpMaterial(&s.Materials[i])
	}

	return yaml.Marshal(d)
}

// channels names the vertex channels holding non-zero data.
func channels(m *scene.Mesh) []string {
	var out []string
	if anyNonZero(m.Normals) {
		out = append(out, "normals")
	}
	if anyNonZero(m.Tangents) {
		out = append(out, "tangents")
	}
	for k, c := range m.Colors {
		if k == 1 && m.SharedColor1 {
			continue
		}
		for _, v := range c {
			if v != (math.Color4{}) {
				out = append(out, "color"+string(rune('0'+k)))
				break
			}
		}
	}
	for k, uv := range m.UVs {
		if anyNonZero(uv) {
			out = append(out, "uv"+string(rune('0'+k)))
		}
	}
	return out
}

func anyNonZero(vs []math.Vec3) bool {
	for _, v := range vs {
		if v != (math.Vec3{}) {
			return true
		}
	}
	return false
}

func dumpMaterial(m *scene.Material) materialDump {
	md := materialDump{
		Name:      m.Name,
		Shading:   m.Shading.String(),
		Blend:     m.Blend.String(),
		Diffuse:   [3]float32{m.Diffuse.R, m.Diffuse.G, m.Diffuse.B},
		BaseColor: [3]float32{m.BaseColor.R, m.BaseColor.G, m.BaseColor.B},
		Opacity:   m.Opacity,
		TwoSided:  m.TwoSided,
		Roughness: m.Roughness,
		Metallic:  m.Metallic,
	}
	for slot := scene.TextureSlot(0); slot < scene.NumTextureSlots; slot++ {
		refs := m.Slot(slot)
		if len(refs) == 0 {
			continue
		}
		if md.Textures == nil {
			md.Textures = make(map[string][]textureDump)
		}
		for _, r := range refs {
			md.Textures[slot.String()] = append(md.Textures[slot.String()], textureDump{
				Key:    r.Key,
				File:   r.FileName,
				Bytes:  len(r.Content),
				Width:  r.Width,
				Height: r.Height,
			})
		}
	}
	return md
}
