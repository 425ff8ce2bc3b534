package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// ErrUnsupportedFormat is returned when no importer handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Importer opens a model file and applies the requested post-processing.
type Importer interface {
	Open(path string, flags Flags) (Session, error)
}

// Session owns an imported scene. All data reachable from Scene is invalid
// after Close.
type Session interface {
	Scene() *Scene
	Close() error
}

// ImporterFunc adapts a function to the Importer interface.
type ImporterFunc func(path string, flags Flags) (Session, error)

// Open calls f(path, flags).
func (f ImporterFunc) Open(path string, flags Flags) (Session, error) {
	return f(path, flags)
}

// session is the Session returned by NewSession.
type session struct {
	mu      sync.Mutex
	scene   *Scene
	release func() error
}

var _ Session = &session{}

// NewSession wraps a scene in a Session. release, if not nil, runs once on
// the first Close.
func NewSession(s *Scene, release func() error) Session {
	return &session{scene: s, release: release}
}

// Scene returns the scene, or nil after Close.
func (s *session) Scene() *Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// Close drops the scene and runs the release hook.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = nil
	if s.release == nil {
		return nil
	}
	release := s.release
	s.release = nil
	return release()
}

// Registry dispatches Open to an importer chosen by file extension.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]Importer
}

var _ Importer = &Registry{}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Importer)}
}

// Register binds imp to the given extensions (".glb" or "glb").
func (r *Registry) Register(imp Importer, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range exts {
		r.byExt[normalizeExt(ext)] = imp
	}
}

// Lookup returns the importer registered for path's extension.
func (r *Registry) Lookup(path string) (Importer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	imp, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return imp, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Open implements Importer.
func (r *Registry) Open(path string, flags Flags) (Session, error) {
	imp, ok := r.Lookup(path)
	if !ok {
		ext := filepath.Ext(path)
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return imp.Open(path, flags)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
