package scene

import (
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

// ShadingModel mirrors the importer's shading mode values.
type ShadingModel int

const (
	ShadingFlat         ShadingModel = 1
	ShadingGouraud      ShadingModel = 2
	ShadingPhong        ShadingModel = 3
	ShadingBlinn        ShadingModel = 4
	ShadingToon         ShadingModel = 5
	ShadingOrenNayar    ShadingModel = 6
	ShadingMinnaert     ShadingModel = 7
	ShadingCookTorrance ShadingModel = 8
	ShadingNoShading    ShadingModel = 9
	ShadingUnlit                     = ShadingNoShading
	ShadingFresnel      ShadingModel = 10
	ShadingPbrBrdf      ShadingModel = 11
)

var shadingNames = map[ShadingModel]string{
	ShadingFlat:         "Flat",
	ShadingGouraud:      "Gouraud",
	ShadingPhong:        "Phong",
	ShadingBlinn:        "Blinn",
	ShadingToon:         "Toon",
	ShadingOrenNayar:    "OrenNayar",
	ShadingMinnaert:     "Minnaert",
	ShadingCookTorrance: "CookTorrance",
	ShadingNoShading:    "NoShading",
	ShadingFresnel:      "Fresnel",
	ShadingPbrBrdf:      "PbrBrdf",
}

// String returns a human-readable shading model name.
func (s ShadingModel) String() string {
	if name, ok := shadingNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// BlendMode is the framebuffer blend function.
type BlendMode int

const (
	BlendDefault  BlendMode = 0
	BlendAdditive BlendMode = 1
)

// String returns a human-readable blend mode name.
func (b BlendMode) String() string {
	switch b {
	case BlendDefault:
		return "Default"
	case BlendAdditive:
		return "Additive"
	default:
		return fmt.Sprintf("Unknown(%d)", int(b))
	}
}

// TextureSlot indexes Material.Textures.
type TextureSlot int

const (
	SlotDiffuse TextureSlot = iota
	SlotSpecular
	SlotAmbient
	SlotEmission
	SlotHeight
	SlotNormal
	SlotShininess
	SlotOpacity
	SlotDisplacement
	SlotLightmap
	SlotReflection
	SlotBaseColor
	SlotNormalCamera
	SlotEmissionColor
	SlotMetallic
	SlotRoughness
	SlotAmbientOcclusion
	SlotSheen
	SlotClearcoat
	SlotTransmission
	SlotUnknown

	NumTextureSlots
)

var slotNames = [NumTextureSlots]string{
	"diffuse", "specular", "ambient", "emission", "height", "normal",
	"shininess", "opacity", "displacement", "lightmap", "reflection",
	"base_color", "normal_camera", "emission_color", "metallic",
	"roughness", "ambient_occlusion", "sheen", "clearcoat",
	"transmission", "unknown",
}

// String returns the snake_case slot name.
func (s TextureSlot) String() string {
	if s >= 0 && s < NumTextureSlots {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// TextureRef identifies one texture used by a material.
//
// External textures have Key == FileName == the referenced path and no
// Content. Embedded textures have an empty FileName, a content-derived Key
// and own a copy of the texel bytes: Height == 0 means Content is a
// compressed image of Width bytes, otherwise Content is Width*Height RGBA8
// pixels.
type TextureRef struct {
	Key      string
	FileName string
	Content  []byte
	Width    uint32
	Height   uint32
}

// Embedded reports whether the texture carries its own content.
func (t TextureRef) Embedded() bool {
	return t.Content != nil
}

// Compressed reports whether embedded content is a compressed image file.
func (t TextureRef) Compressed() bool {
	return t.Embedded() && t.Height == 0
}

// Material is a flattened material. Fields keep their defaults when the
// source does not define the corresponding property.
type Material struct {
	Name string

	Ambient     math.Color3
	Diffuse     math.Color3
	Specular    math.Color3
	Emission    math.Color3
	Transparent math.Color3
	BaseColor   math.Color3
	Reflection  math.Color4 // RGB reflective color, A reflectivity

	// Roughness and Metallic are nil when the source does not define them.
	Roughness *float32
	Metallic  *float32

	RefractiveIndex   float32
	Shininess         float32
	ShininessStrength float32
	Opacity           float32

	Wireframe bool
	TwoSided  bool

	Shading ShadingModel
	Blend   BlendMode

	Textures [NumTextureSlots][]TextureRef
}

// DefaultMaterial returns a material with every field at its default.
func DefaultMaterial() Material {
	return Material{
		ShininessStrength: 1,
		Opacity:           1,
		Shading:           ShadingBlinn,
		Blend:             BlendDefault,
	}
}

// Slot returns the textures bound to s.
func (m *Material) Slot(s TextureSlot) []TextureRef {
	if s < 0 || s >= NumTextureSlots {
		return nil
	}
	return m.Textures[s]
}

// TextureCount returns the number of textures over all slots.
func (m *Material) TextureCount() int {
	n := 0
	for _, refs := range m.Textures {
		n += len(refs)
	}
	return n
}
