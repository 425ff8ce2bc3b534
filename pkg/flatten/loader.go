// Package flatten converts an importer scene into the pointer-free
// scene.Scene model.
//
// A Loader opens a model through an importer.Importer, copies everything it
// needs into freshly allocated buffers and closes the importer session
// before returning. The result never shares memory with the session.
package flatten

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/scene"
)

// Loader flattens scenes produced by an importer.
type Loader struct {
	imp            importer.Importer
	log            *zap.Logger
	workers        int
	strictTextures bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// WithWorkers extracts materials and meshes on up to n goroutines. Values
// below 2 keep extraction sequential. Output order never depends on n.
func WithWorkers(n int) LoaderOption {
	return func(ld *Loader) {
		ld.workers = n
	}
}

// WithStrictTextures makes an unresolvable embedded texture reference fail
// the whole load. By default the reference is dropped with a warning.
func WithStrictTextures(strict bool) LoaderOption {
	return func(ld *Loader) {
		ld.strictTextures = strict
	}
}

// NewLoader creates a Loader reading through imp.
func NewLoader(imp importer.Importer, opts ...LoaderOption) *Loader {
	ld := &Loader{
		imp:     imp,
		log:     zap.NewNop(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadDefault loads path with importer.DefaultFlags.
func (ld *Loader) LoadDefault(path string) *scene.Scene {
	return ld.Load(path, importer.DefaultFlags)
}

// Load imports path and flattens it. Import problems are reported through
// Scene.Success and Scene.ErrorMessage, never as a panic or error value.
func (ld *Loader) Load(path string, flags importer.Flags) *scene.Scene {
	start := time.Now()
	log := ld.log.With(zap.String("path", path))
	log.Debug("loading scene", zap.Stringer("flags", flags))

	sess, err := ld.imp.Open(path, flags)
	if err != nil {
		log.Warn("import failed", zap.Error(err))
		return scene.Failed(err.Error())
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("closing import session", zap.Error(err))
		}
	}()

	src := sess.Scene()
	switch {
	case src == nil:
		return ld.fail(log, "importer returned no scene")
	case src.Incomplete():
		msg := src.Message
		if msg == "" {
			msg = "unknown reason"
		}
		return ld.fail(log, "incomplete scene: "+msg)
	case src.Root == nil:
		return ld.fail(log, "scene has no root node")
	}

	out, err := ld.flatten(src, log)
	if err != nil {
		return ld.fail(log, err.Error())
	}

	log.Info("scene loaded",
		zap.String("name", out.Name),
		zap.Int("nodes", len(out.Nodes)),
		zap.Int("meshes", len(out.Meshes)),
		zap.Int("materials", len(out.Materials)),
		zap.Duration("elapsed", time.Since(start)))
	return out
}

func (ld *Loader) fail(log *zap.Logger, msg string) *scene.Scene {
	log.Warn("import failed", zap.String("reason", msg))
	return scene.Failed(msg)
}

// flatten runs the material, mesh and node passes over a valid source scene.
func (ld *Loader) flatten(src *importer.Scene, log *zap.Logger) (*scene.Scene, error) {
	res := newTextureResolver(src.Textures)

	materials := make([]scene.Material, len(src.Materials))
	issues := make([][]textureIssue, len(src.Materials))
	ld.forEach(len(src.Materials), func(i int) {
		materials[i], issues[i] = extractMaterial(src.Materials[i], res)
	})

	for i, list := range issues {
		for _, issue := range list {
			if ld.strictTextures {
				return nil, fmt.Errorf("material %d (%s) %s texture: %w",
					i, materials[i].Name, issue.slot, issue.err)
			}
			log.Warn("dropping texture reference",
				zap.Int("material", i),
				zap.String("name", materials[i].Name),
				zap.Stringer("slot", issue.slot),
				zap.Error(issue.err))
		}
	}

	meshes := make([]scene.Mesh, len(src.Meshes))
	ld.forEach(len(src.Meshes), func(i int) {
		m := src.Meshes[i]
		meshes[i] = flattenMesh(m, m.NumVertices, len(materials))
		if meshes[i].Material == scene.NoIndex && m.MaterialIndex != scene.NoIndex {
			log.Warn("dropping material reference",
				zap.Int("mesh", i),
				zap.String("name", m.Name),
				zap.Int("material", m.MaterialIndex),
				zap.Int("materials", len(materials)))
		}
	})

	return &scene.Scene{
		Success:   true,
		Name:      src.Name,
		Nodes:     flattenNodes(src.Root, log),
		Meshes:    meshes,
		Materials: materials,
	}, nil
}

// forEach calls fn for 0..n-1, concurrently when the loader has more than
// one worker. Each call writes only its own output slot.
func (ld *Loader) forEach(n int, fn func(i int)) {
	if ld.workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(ld.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
