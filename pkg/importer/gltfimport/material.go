package gltfimport

import (
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
)

// convertMaterial maps a metallic-roughness material onto importer
// properties and texture stacks.
func convertMaterial(doc *gltf.Document, mat *gltf.Material, imageSlots []int) *importer.Material {
	m := importer.NewMaterial(mat.Name)
	m.SetInt(importer.KeyShadingModel, importer.ShadingPbrBrdf)

	base := math.Color4{R: 1, G: 1, B: 1, A: 1}
	metallic, roughness := float32(1), float32(1)

	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			base = math.Color4{R: float32(f[0]), G: float32(f[1]), B: float32(f[2]), A: float32(f[3])}
		}
		if pbr.MetallicFactor != nil {
			metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			roughness = float32(*pbr.RoughnessFactor)
		}
		if ti := pbr.BaseColorTexture; ti != nil {
			addTexture(doc, m, imageSlots, ti.Index, importer.TextureBaseColor, importer.TextureDiffuse)
		}
		if ti := pbr.MetallicRoughnessTexture; ti != nil {
			addTexture(doc, m, imageSlots, ti.Index, importer.TextureMetalness, importer.TextureDiffuseRoughness)
		}
	}

	m.SetColor(importer.KeyBaseColor, base)
	m.SetColor(importer.KeyColorDiffuse, base)
	m.SetFloat(importer.KeyOpacity, base.A)
	m.SetFloat(importer.KeyMetallicFactor, metallic)
	m.SetFloat(importer.KeyRoughnessFactor, roughness)

	e := mat.EmissiveFactor
	m.SetColor3(importer.KeyColorEmissive, math.Color3{R: float32(e[0]), G: float32(e[1]), B: float32(e[2])})
	m.SetBool(importer.KeyTwoSided, mat.DoubleSided)
	m.SetInt(importer.KeyBlendFunc, importer.BlendDefault)

	if nt := mat.NormalTexture; nt != nil && nt.Index != nil {
		addTexture(doc, m, imageSlots, *nt.Index, importer.TextureNormals)
	}
	if ot := mat.OcclusionTexture; ot != nil && ot.Index != nil {
		addTexture(doc, m, imageSlots, *ot.Index, importer.TextureAmbientOcclusion, importer.TextureLightmap)
	}
	if et := mat.EmissiveTexture; et != nil {
		addTexture(doc, m, imageSlots, et.Index, importer.TextureEmissive)
	}
	return m
}

// addTexture binds glTF texture tex to each of types. Embedded images are
// referenced through the embedded marker, others by URI. Images that should
// be embedded but could not be read are skipped.
func addTexture(doc *gltf.Document, m *importer.Material, imageSlots []int, tex int, types ...importer.TextureType) {
	if tex < 0 || tex >= len(doc.Textures) || doc.Textures[tex].Source == nil {
		return
	}
	src := *doc.Textures[tex].Source
	if src < 0 || src >= len(doc.Images) {
		return
	}

	img := doc.Images[src]
	path := img.URI
	switch {
	case imageSlots[src] >= 0:
		path = importer.EmbeddedPath(imageSlots[src])
	case img.BufferView != nil || img.IsEmbeddedResource():
		return
	}
	if path == "" {
		return
	}
	for _, t := range types {
		m.AddTexture(t, path)
	}
}
