package flatten

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/scene"
)

// ErrMalformedEmbeddedReference is returned for an embedded texture path
// whose index is not a non-negative integer or is out of range.
var ErrMalformedEmbeddedReference = errors.New("malformed embedded texture reference")

// EmbeddedKeyPrefix starts the key of every embedded TextureRef.
const EmbeddedKeyPrefix = "embedded:"

// textureResolver turns material texture paths into TextureRefs. Embedded
// textures are copied once per load and shared by every reference to them.
type textureResolver struct {
	textures []*importer.EmbeddedTexture

	mu    sync.Mutex
	cache map[int]scene.TextureRef
}

func newTextureResolver(textures []*importer.EmbeddedTexture) *textureResolver {
	return &textureResolver{
		textures: textures,
		cache:    make(map[int]scene.TextureRef),
	}
}

// resolve returns the references of texture type t, in order. On a
// malformed reference it returns the references resolved so far, plus the
// error for each bad path joined together.
func (r *textureResolver) resolve(m *importer.Material, t importer.TextureType) ([]scene.TextureRef, error) {
	n := m.TextureCount(t)
	refs := make([]scene.TextureRef, 0, n)
	var errs []error
	for i := 0; i < n; i++ {
		path, _ := m.Texture(t, i)
		ref, err := r.resolvePath(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errors.Join(errs...)
}

func (r *textureResolver) resolvePath(path string) (scene.TextureRef, error) {
	if len(path) == 0 || path[0] != importer.EmbeddedMarker {
		return scene.TextureRef{Key: path, FileName: path}, nil
	}

	idx, err := strconv.Atoi(path[1:])
	if err != nil || idx < 0 || path[1] == '+' || path[1] == '-' {
		return scene.TextureRef{}, fmt.Errorf("%w: %q", ErrMalformedEmbeddedReference, path)
	}
	if idx >= len(r.textures) || r.textures[idx] == nil {
		return scene.TextureRef{}, fmt.Errorf("%w: %q (%d embedded textures)",
			ErrMalformedEmbeddedReference, path, len(r.textures))
	}
	return r.embedded(idx), nil
}

// embedded returns the cached reference for table entry idx.
func (r *textureResolver) embedded(idx int) scene.TextureRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.cache[idx]; ok {
		return ref
	}

	tex := r.textures[idx]
	content := copyBuffer(tex.Texels, tex.Size())
	sum := sha256.Sum256(content)
	ref := scene.TextureRef{
		Key:     EmbeddedKeyPrefix + hex.EncodeToString(sum[:]),
		Content: content,
		Width:   tex.Width,
		Height:  tex.Height,
	}
	r.cache[idx] = ref
	return ref
}
