package flatten

import (
	"testing"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
	"github.com/Faultbox/scenekit/pkg/scene"
)

func allZero[T comparable](buf []T) bool {
	var zero T
	for _, v := range buf {
		if v != zero {
			return false
		}
	}
	return true
}

func TestFlattenMesh_NormalsAbsent(t *testing.T) {
	src := &importer.Mesh{
		NumVertices: 3,
		Positions:   []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 7, Y: 8, Z: 9}},
	}
	m := flattenMesh(src, 3, 0)

	for i, p := range src.Positions {
		if m.Positions[i] != p {
			t.Errorf("position %d = %v, want %v", i, m.Positions[i], p)
		}
	}
	if len(m.Normals) != 3 || !allZero(m.Normals) {
		t.Errorf("Normals = %v, want three zero vectors", m.Normals)
	}
}

func TestFlattenMesh_DefaultedBuffers(t *testing.T) {
	src := &importer.Mesh{NumVertices: 5}
	m := flattenMesh(src, 5, 0)

	vecs := map[string][]math.Vec3{
		"positions":  m.Positions,
		"normals":    m.Normals,
		"tangents":   m.Tangents,
		"bitangents": m.Bitangents,
	}
	for i, uv := range m.UVs {
		vecs["uv"+string(rune('0'+i))] = uv
	}
	for name, buf := range vecs {
		if len(buf) != 5 || !allZero(buf) {
			t.Errorf("%s = %v, want 5 zero elements", name, buf)
		}
	}
	for i, c := range m.Colors {
		if len(c) != 5 || !allZero(c) {
			t.Errorf("colors[%d] = %v, want 5 zero elements", i, c)
		}
	}
}

func TestFlattenMesh_TangentPair(t *testing.T) {
	tangents := []math.Vec3{{X: 1}, {X: 1}}
	bitangents := []math.Vec3{{Y: 1}, {Y: 1}}

	tests := []struct {
		name       string
		tangents   []math.Vec3
		bitangents []math.Vec3
		wantReal   bool
	}{
		{"both present", tangents, bitangents, true},
		{"tangents only", tangents, nil, false},
		{"bitangents only", nil, bitangents, false},
		{"neither", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &importer.Mesh{NumVertices: 2, Tangents: tt.tangents, Bitangents: tt.bitangents}
			m := flattenMesh(src, 2, 0)
			if len(m.Tangents) != 2 || len(m.Bitangents) != 2 {
				t.Fatalf("lengths = %d/%d, want 2/2", len(m.Tangents), len(m.Bitangents))
			}
			if tt.wantReal {
				if m.Tangents[0] != (math.Vec3{X: 1}) || m.Bitangents[0] != (math.Vec3{Y: 1}) {
					t.Errorf("real pair not copied: %v %v", m.Tangents, m.Bitangents)
				}
				return
			}
			if !allZero(m.Tangents) || !allZero(m.Bitangents) {
				t.Errorf("pair should be defaulted together: %v %v", m.Tangents, m.Bitangents)
			}
		})
	}
}

func TestFlattenMesh_ColorChannelOne(t *testing.T) {
	red := []math.Color4{{R: 1, A: 1}, {R: 1, A: 1}}
	blue := []math.Color4{{B: 1, A: 1}, {B: 1, A: 1}}

	tests := []struct {
		name       string
		c0, c1     []math.Color4
		wantShared bool
		want1      []math.Color4
	}{
		{"channel 0 real, 1 absent", red, nil, true, red},
		{"both absent", nil, nil, true, []math.Color4{{}, {}}},
		{"both real", red, blue, false, blue},
		{"channel 0 absent, 1 real", nil, blue, false, blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &importer.Mesh{NumVertices: 2}
			src.Colors[0], src.Colors[1] = tt.c0, tt.c1

			m := flattenMesh(src, 2, 0)
			if m.SharedColor1 != tt.wantShared {
				t.Errorf("SharedColor1 = %v, want %v", m.SharedColor1, tt.wantShared)
			}
			if tt.wantShared && &m.Colors[1][0] != &m.Colors[0][0] {
				t.Error("channel 1 should be the channel 0 buffer")
			}
			if !tt.wantShared && &m.Colors[1][0] == &m.Colors[0][0] {
				t.Error("channel 1 should have its own buffer")
			}
			for i := range tt.want1 {
				if m.Colors[1][i] != tt.want1[i] {
					t.Errorf("colors[1] = %v, want %v", m.Colors[1], tt.want1)
				}
			}
			// Other channels are always independent.
			if &m.Colors[2][0] == &m.Colors[0][0] {
				t.Error("channel 2 aliases channel 0")
			}
		})
	}
}

func TestFlattenMesh_Indices(t *testing.T) {
	src := &importer.Mesh{
		NumVertices: 5,
		Faces: []importer.Face{
			{Indices: []uint32{0, 1, 2}},
			{Indices: []uint32{1, 2, 3, 4}},
		},
	}
	m := flattenMesh(src, 5, 0)

	want := []uint32{0, 1, 2, 1, 2, 3, 4}
	if len(m.Indices) != 7 {
		t.Fatalf("Indices = %v, want %v", m.Indices, want)
	}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Errorf("Indices = %v, want %v", m.Indices, want)
			break
		}
	}
}

func TestFlattenMesh_NoFaces(t *testing.T) {
	m := flattenMesh(&importer.Mesh{NumVertices: 2}, 2, 0)
	if m.Indices == nil || len(m.Indices) != 0 {
		t.Errorf("Indices = %#v, want empty non-nil", m.Indices)
	}
}

func TestPrimitiveKind(t *testing.T) {
	tests := []struct {
		mask importer.PrimitiveType
		want scene.PrimitiveKind
	}{
		{importer.PrimitivePoint, scene.PrimitivePoint},
		{importer.PrimitiveLine, scene.PrimitiveLine},
		{importer.PrimitiveTriangle, scene.PrimitiveTriangle},
		{importer.PrimitivePolygon, scene.PrimitiveTriangle},
		{importer.PrimitivePoint | importer.PrimitiveLine, scene.PrimitiveTriangle},
		{importer.PrimitiveLine | importer.PrimitiveTriangle, scene.PrimitiveTriangle},
		{0, scene.PrimitiveTriangle},
		{0x40, scene.PrimitiveTriangle},
	}
	for _, tt := range tests {
		if got := primitiveKind(tt.mask); got != tt.want {
			t.Errorf("primitiveKind(%b) = %v, want %v", tt.mask, got, tt.want)
		}
	}
}

func TestFlattenMesh_CopiesMetadata(t *testing.T) {
	src := makeSourceScene().Meshes[0]
	m := flattenMesh(src, src.NumVertices, 1)

	if m.Name != "tri" || m.VertexCount != 3 || m.Material != 0 {
		t.Errorf("metadata = %q %d %d", m.Name, m.VertexCount, m.Material)
	}
	if m.Bounds.Max != (math.Vec3{X: 1, Y: 1}) || m.Bounds.Min != (math.Vec3{}) {
		t.Errorf("Bounds = %v", m.Bounds)
	}

	if got := flattenMesh(src, src.NumVertices, 0).Material; got != scene.NoIndex {
		t.Errorf("material out of range = %d, want NoIndex", got)
	}
}

func TestFlattenMesh_Independent(t *testing.T) {
	src := makeSourceScene()
	m := flattenMesh(src.Meshes[0], 3, 1)

	scribble(src)
	if m.Positions[1] != (math.Vec3{X: 1}) {
		t.Errorf("positions changed with the source: %v", m.Positions)
	}
	if m.Colors[0][0] != (math.Color4{R: 1, A: 1}) {
		t.Errorf("colors changed with the source: %v", m.Colors[0])
	}
	if m.Indices[2] != 2 {
		t.Errorf("indices changed with the source: %v", m.Indices)
	}
}
