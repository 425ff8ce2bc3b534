package importer

import (
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

// PropertyKey names a material property.
type PropertyKey string

// Material property keys.
const (
	KeyName              PropertyKey = "?mat.name"
	KeyColorAmbient      PropertyKey = "$clr.ambient"
	KeyColorDiffuse      PropertyKey = "$clr.diffuse"
	KeyColorSpecular     PropertyKey = "$clr.specular"
	KeyColorEmissive     PropertyKey = "$clr.emissive"
	KeyColorTransparent  PropertyKey = "$clr.transparent"
	KeyColorReflective   PropertyKey = "$clr.reflective"
	KeyBaseColor         PropertyKey = "$clr.base"
	KeyReflectivity      PropertyKey = "$mat.reflectivity"
	KeyRoughnessFactor   PropertyKey = "$mat.roughnessFactor"
	KeyMetallicFactor    PropertyKey = "$mat.metallicFactor"
	KeyRefractiveIndex   PropertyKey = "$mat.refracti"
	KeyShininess         PropertyKey = "$mat.shininess"
	KeyShininessStrength PropertyKey = "$mat.shinpercent"
	KeyOpacity           PropertyKey = "$mat.opacity"
	KeyEnableWireframe   PropertyKey = "$mat.wireframe"
	KeyTwoSided          PropertyKey = "$mat.twosided"
	KeyShadingModel      PropertyKey = "$mat.shadingm"
	KeyBlendFunc         PropertyKey = "$mat.blend"
)

// Shading mode values stored under KeyShadingModel.
const (
	ShadingFlat         = 1
	ShadingGouraud      = 2
	ShadingPhong        = 3
	ShadingBlinn        = 4
	ShadingToon         = 5
	ShadingOrenNayar    = 6
	ShadingMinnaert     = 7
	ShadingCookTorrance = 8
	ShadingNoShading    = 9
	ShadingFresnel      = 10
	ShadingPbrBrdf      = 11
)

// Blend function values stored under KeyBlendFunc.
const (
	BlendDefault  = 0
	BlendAdditive = 1
)

// TextureType selects one of a material's texture stacks.
type TextureType int

const (
	TextureNone TextureType = iota
	TextureDiffuse
	TextureSpecular
	TextureAmbient
	TextureEmissive
	TextureHeight
	TextureNormals
	TextureShininess
	TextureOpacity
	TextureDisplacement
	TextureLightmap
	TextureReflection
	TextureBaseColor
	TextureNormalCamera
	TextureEmissionColor
	TextureMetalness
	TextureDiffuseRoughness
	TextureAmbientOcclusion
	TextureUnknown
	TextureSheen
	TextureClearcoat
	TextureTransmission

	numTextureTypes
)

// Material is a property bag plus per-type texture path lists. Getters
// return ok == false when the property is absent or has an incompatible type.
type Material struct {
	props    map[PropertyKey]any
	textures [numTextureTypes][]string
}

// NewMaterial returns an empty material with the given name.
func NewMaterial(name string) *Material {
	m := &Material{props: make(map[PropertyKey]any)}
	if name != "" {
		m.SetString(KeyName, name)
	}
	return m
}

func (m *Material) set(k PropertyKey, v any) *Material {
	if m.props == nil {
		m.props = make(map[PropertyKey]any)
	}
	m.props[k] = v
	return m
}

// SetColor stores an RGBA color.
func (m *Material) SetColor(k PropertyKey, c math.Color4) *Material { return m.set(k, c) }

// SetColor3 stores an RGB color.
func (m *Material) SetColor3(k PropertyKey, c math.Color3) *Material { return m.set(k, c) }

// SetFloat stores a scalar.
func (m *Material) SetFloat(k PropertyKey, f float32) *Material { return m.set(k, f) }

// SetInt stores an integer.
func (m *Material) SetInt(k PropertyKey, i int) *Material { return m.set(k, i) }

// SetBool stores a boolean as the integers 0 and 1.
func (m *Material) SetBool(k PropertyKey, b bool) *Material {
	if b {
		return m.set(k, 1)
	}
	return m.set(k, 0)
}

// SetString stores a string.
func (m *Material) SetString(k PropertyKey, s string) *Material { return m.set(k, s) }

// Has reports whether k is set.
func (m *Material) Has(k PropertyKey) bool {
	_, ok := m.props[k]
	return ok
}

// Color returns k as an RGBA color. RGB properties get alpha 1.
func (m *Material) Color(k PropertyKey) (math.Color4, bool) {
	switch v := m.props[k].(type) {
	case math.Color4:
		return v, true
	case math.Color3:
		return math.Color4{R: v.R, G: v.G, B: v.B, A: 1}, true
	}
	return math.Color4{}, false
}

// Color3 returns k as an RGB color.
func (m *Material) Color3(k PropertyKey) (math.Color3, bool) {
	c, ok := m.Color(k)
	return c.RGB(), ok
}

// Float returns k as a scalar, converting integers.
func (m *Material) Float(k PropertyKey) (float32, bool) {
	switch v := m.props[k].(type) {
	case float32:
		return v, true
	case int:
		return float32(v), true
	}
	return 0, false
}

// Int returns k as an integer, truncating scalars.
func (m *Material) Int(k PropertyKey) (int, bool) {
	switch v := m.props[k].(type) {
	case int:
		return v, true
	case float32:
		return int(v), true
	}
	return 0, false
}

// Bool returns k as a boolean (nonzero integer).
func (m *Material) Bool(k PropertyKey) (bool, bool) {
	i, ok := m.Int(k)
	return i != 0, ok
}

// String returns k as a string.
func (m *Material) String(k PropertyKey) (string, bool) {
	s, ok := m.props[k].(string)
	return s, ok
}

// Name returns the material name, or "" when unnamed.
func (m *Material) Name() string {
	s, _ := m.String(KeyName)
	return s
}

// AddTexture appends a texture path to the t stack.
func (m *Material) AddTexture(t TextureType, path string) *Material {
	if t < 0 || t >= numTextureTypes {
		panic(fmt.Sprintf("importer: invalid texture type %d", t))
	}
	m.textures[t] = append(m.textures[t], path)
	return m
}

// TextureCount returns the number of textures of type t.
func (m *Material) TextureCount(t TextureType) int {
	if t < 0 || t >= numTextureTypes {
		return 0
	}
	return len(m.textures[t])
}

// Texture returns the i-th path of type t.
func (m *Material) Texture(t TextureType, i int) (string, bool) {
	if i < 0 || i >= m.TextureCount(t) {
		return "", false
	}
	return m.textures[t][i], true
}
