package flatten

import (
	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
	"github.com/Faultbox/scenekit/pkg/scene"
)

// flattenMesh copies every channel of m into buffers of exactly vertexCount
// elements, zero-filling absent channels. A material index outside
// [0, materialCount) becomes scene.NoIndex.
//
// Tangents and bitangents are taken from the source only as a pair. When
// the source has no second color set, Colors[1] is the Colors[0] slice
// itself and SharedColor1 is set.
func flattenMesh(m *importer.Mesh, vertexCount, materialCount int) scene.Mesh {
	out := scene.Mesh{
		Name:        m.Name,
		Primitive:   primitiveKind(m.PrimitiveTypes),
		Material:    m.MaterialIndex,
		VertexCount: vertexCount,
		Bounds: scene.BoundingBox{
			Min: m.AABB.Min,
			Max: m.AABB.Max,
		},
	}

	if m.MaterialIndex < 0 || m.MaterialIndex >= materialCount {
		out.Material = scene.NoIndex
	}

	out.Positions = channel(m.Positions, vertexCount)
	out.Normals = channel(m.Normals, vertexCount)

	if m.Tangents != nil && m.Bitangents != nil {
		out.Tangents = copyBuffer(m.Tangents, vertexCount)
		out.Bitangents = copyBuffer(m.Bitangents, vertexCount)
	} else {
		out.Tangents = zeroBuffer[math.Vec3](vertexCount)
		out.Bitangents = zeroBuffer[math.Vec3](vertexCount)
	}

	for i := range out.Colors {
		if i == 1 && m.Colors[1] == nil {
			out.Colors[1] = out.Colors[0]
			out.SharedColor1 = true
			continue
		}
		out.Colors[i] = channel(m.Colors[i], vertexCount)
	}
	for i := range out.UVs {
		out.UVs[i] = channel(m.TexCoords[i], vertexCount)
	}

	out.Indices = make([]uint32, 0, m.NumIndices())
	for _, f := range m.Faces {
		out.Indices = append(out.Indices, f.Indices...)
	}
	return out
}

// primitiveKind maps the source mask: exactly point to Point, exactly line
// to Line, anything else to Triangle.
func primitiveKind(mask importer.PrimitiveType) scene.PrimitiveKind {
	switch mask {
	case importer.PrimitivePoint:
		return scene.PrimitivePoint
	case importer.PrimitiveLine:
		return scene.PrimitiveLine
	default:
		return scene.PrimitiveTriangle
	}
}
