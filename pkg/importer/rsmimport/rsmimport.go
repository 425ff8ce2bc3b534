// Package rsmimport imports Ragnarok Online RSM models into the importer
// scene model. Models are read from disk or, when missing there, from a
// list of GRF archives.
package rsmimport

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/pkg/formats"
	"github.com/Faultbox/scenekit/pkg/grf"
	"github.com/Faultbox/scenekit/pkg/importer"
)

// Extensions handled by the importer.
var Extensions = []string{".rsm"}

// ErrNoNodes is returned for models without a node hierarchy.
var ErrNoNodes = errors.New("model has no nodes")

// TextureDir is the archive directory RSM texture names are relative to.
const TextureDir = "data/texture/"

// Importer reads RSM models.
type Importer struct {
	log      *zap.Logger
	archives []string
}

var _ importer.Importer = &Importer{}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(imp *Importer) {
		if l != nil {
			imp.log = l
		}
	}
}

// WithArchives sets the GRF archives searched, in order, for models that
// are not on disk.
func WithArchives(paths ...string) Option {
	return func(imp *Importer) {
		imp.archives = append(imp.archives[:0], paths...)
	}
}

// New creates an RSM importer.
func New(opts ...Option) *Importer {
	imp := &Importer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Register adds the importer to r under Extensions.
func (imp *Importer) Register(r *importer.Registry) {
	r.Register(imp, Extensions...)
}

// Open decodes file and applies the post-processing selected by flags.
func (imp *Importer) Open(file string, flags importer.Flags) (importer.Session, error) {
	data, err := imp.read(file)
	if err != nil {
		return nil, err
	}

	rsm, err := formats.ParseRSM(data)
	if err != nil {
		return nil, fmt.Errorf("parsing RSM %s: %w", file, err)
	}

	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	name := strings.TrimSuffix(base, path.Ext(base))
	s, err := convert(rsm, name, imp.log)
	if err != nil {
		return nil, fmt.Errorf("converting RSM %s: %w", file, err)
	}

	importer.PostProcess(s, flags)
	imp.log.Debug("RSM imported",
		zap.String("path", file),
		zap.Stringer("version", rsm.Version),
		zap.Int("nodes", len(rsm.Nodes)),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
	)
	return importer.NewSession(s, nil), nil
}

// read loads file from disk, falling back to the archives.
func (imp *Importer) read(file string) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || len(imp.archives) == 0 {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}

	set, err := grf.OpenSet(imp.archives)
	if err != nil {
		return nil, err
	}
	defer set.Close()

	data, err = set.Read(file)
	if err != nil {
		return nil, fmt.Errorf("reading RSM from archives: %w", err)
	}
	imp.log.Debug("RSM read from archive", zap.String("path", file))
	return data, nil
}
