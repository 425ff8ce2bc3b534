package flatten

import (
	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
	"github.com/Faultbox/scenekit/pkg/scene"
)

// slotTypes maps each flat texture slot to the importer texture type it is
// read from.
var slotTypes = [scene.NumTextureSlots]importer.TextureType{
	scene.SlotDiffuse:          importer.TextureDiffuse,
	scene.SlotSpecular:         importer.TextureSpecular,
	scene.SlotAmbient:          importer.TextureAmbient,
	scene.SlotEmission:         importer.TextureEmissive,
	scene.SlotHeight:           importer.TextureHeight,
	scene.SlotNormal:           importer.TextureNormals,
	scene.SlotShininess:        importer.TextureShininess,
	scene.SlotOpacity:          importer.TextureOpacity,
	scene.SlotDisplacement:     importer.TextureDisplacement,
	scene.SlotLightmap:         importer.TextureLightmap,
	scene.SlotReflection:       importer.TextureReflection,
	scene.SlotBaseColor:        importer.TextureBaseColor,
	scene.SlotNormalCamera:     importer.TextureNormalCamera,
	scene.SlotEmissionColor:    importer.TextureEmissionColor,
	scene.SlotMetallic:         importer.TextureMetalness,
	scene.SlotRoughness:        importer.TextureDiffuseRoughness,
	scene.SlotAmbientOcclusion: importer.TextureAmbientOcclusion,
	scene.SlotSheen:            importer.TextureSheen,
	scene.SlotClearcoat:        importer.TextureClearcoat,
	scene.SlotTransmission:     importer.TextureTransmission,
	scene.SlotUnknown:          importer.TextureUnknown,
}

// textureIssue records a texture reference that could not be resolved.
type textureIssue struct {
	slot scene.TextureSlot
	err  error
}

// extractMaterial reads every property of m independently, leaving the
// default for each one that is absent, and resolves all texture slots.
// Unresolvable texture references are dropped and reported.
func extractMaterial(m *importer.Material, res *textureResolver) (scene.Material, []textureIssue) {
	out := scene.DefaultMaterial()
	out.Name = m.Name()

	color3 := func(k importer.PropertyKey, dst *math.Color3) {
		if c, ok := m.Color3(k); ok {
			*dst = c
		}
	}
	float := func(k importer.PropertyKey, dst *float32) {
		if f, ok := m.Float(k); ok {
			*dst = f
		}
	}
	optional := func(k importer.PropertyKey) *float32 {
		if f, ok := m.Float(k); ok {
			return &f
		}
		return nil
	}

	color3(importer.KeyColorAmbient, &out.Ambient)
	color3(importer.KeyColorDiffuse, &out.Diffuse)
	color3(importer.KeyColorSpecular, &out.Specular)
	color3(importer.KeyColorEmissive, &out.Emission)
	color3(importer.KeyColorTransparent, &out.Transparent)
	color3(importer.KeyBaseColor, &out.BaseColor)

	var reflective math.Color3
	color3(importer.KeyColorReflective, &reflective)
	out.Reflection = math.Color4{R: reflective.R, G: reflective.G, B: reflective.B}
	float(importer.KeyReflectivity, &out.Reflection.A)

	out.Roughness = optional(importer.KeyRoughnessFactor)
	out.Metallic = optional(importer.KeyMetallicFactor)

	float(importer.KeyRefractiveIndex, &out.RefractiveIndex)
	float(importer.KeyShininess, &out.Shininess)
	float(importer.KeyShininessStrength, &out.ShininessStrength)
	float(importer.KeyOpacity, &out.Opacity)

	if b, ok := m.Bool(importer.KeyEnableWireframe); ok {
		out.Wireframe = b
	}
	if b, ok := m.Bool(importer.KeyTwoSided); ok {
		out.TwoSided = b
	}
	if i, ok := m.Int(importer.KeyShadingModel); ok {
		out.Shading = scene.ShadingModel(i)
	}
	if i, ok := m.Int(importer.KeyBlendFunc); ok {
		out.Blend = scene.BlendMode(i)
	}

	var issues []textureIssue
	for slot, t := range slotTypes {
		refs, err := res.resolve(m, t)
		out.Textures[slot] = refs
		if err != nil {
			issues = append(issues, textureIssue{slot: scene.TextureSlot(slot), err: err})
		}
	}
	return out, issues
}
