package scene

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrFailedScene     = errors.New("scene load failed")
	ErrEmptyScene      = errors.New("scene has no nodes")
	ErrInvalidParent   = errors.New("invalid parent index")
	ErrInvalidChild    = errors.New("invalid child index")
	ErrInvalidMesh     = errors.New("invalid mesh index")
	ErrInvalidMaterial = errors.New("invalid material index")
	ErrInvalidBuffer   = errors.New("buffer length does not match vertex count")
	ErrInvalidIndex    = errors.New("vertex index out of range")
)

// Validate checks the index and buffer invariants of a successful scene.
func (s *Scene) Validate() error {
	if !s.Success {
		return fmt.Errorf("%w: %s", ErrFailedScene, s.ErrorMessage)
	}
	if len(s.Nodes) == 0 {
		return ErrEmptyScene
	}
	if s.Nodes[0].Parent != NoIndex {
		return fmt.Errorf("%w: root has parent %d", ErrInvalidParent, s.Nodes[0].Parent)
	}

	for i := 1; i < len(s.Nodes); i++ {
		if p := s.Nodes[i].Parent; p < 0 || p >= i {
			return fmt.Errorf("%w: node %d has parent %d", ErrInvalidParent, i, p)
		}
	}

	for i := range s.Nodes {
		n := &s.Nodes[i]
		for _, c := range n.Children {
			if c <= i || c >= len(s.Nodes) || s.Nodes[c].Parent != i {
				return fmt.Errorf("%w: node %d lists child %d", ErrInvalidChild, i, c)
			}
		}
		for _, m := range n.Meshes {
			if m < 0 || m >= len(s.Meshes) {
				return fmt.Errorf("%w: node %d references mesh %d", ErrInvalidMesh, i, m)
			}
		}
	}

	for i := range s.Meshes {
		if err := s.validateMesh(i); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) validateMesh(i int) error {
	m := &s.Meshes[i]
	if m.Material != NoIndex && (m.Material < 0 || m.Material >= len(s.Materials)) {
		return fmt.Errorf("%w: mesh %d references material %d", ErrInvalidMaterial, i, m.Material)
	}

	n := m.VertexCount
	check := func(name string, l int) error {
		if l != n {
			return fmt.Errorf("%w: mesh %d %s has %d, want %d", ErrInvalidBuffer, i, name, l, n)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		l    int
	}{
		{"positions", len(m.Positions)},
		{"normals", len(m.Normals)},
		{"tangents", len(m.Tangents)},
		{"bitangents", len(m.Bitangents)},
	} {
		if err := check(c.name, c.l); err != nil {
			return err
		}
	}
	for k := range m.Colors {
		if err := check(fmt.Sprintf("colors[%d]", k), len(m.Colors[k])); err != nil {
			return err
		}
	}
	for k := range m.UVs {
		if err := check(fmt.Sprintf("uvs[%d]", k), len(m.UVs[k])); err != nil {
			return err
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: mesh %d index %d, %d vertices", ErrInvalidIndex, i, idx, n)
		}
	}
	return nil
}

// Stats summarizes a scene.
type Stats struct {
	Nodes            int
	Meshes           int
	Materials        int
	Vertices         int
	Indices          int
	Textures         int
	EmbeddedTextures int // distinct embedded keys
	MaxDepth         int
}

// Stats computes summary counts.
func (s *Scene) Stats() Stats {
	st := Stats{
		Nodes:     len(s.Nodes),
		Meshes:    len(s.Meshes),
		Materials: len(s.Materials),
	}
	for i := range s.Meshes {
		st.Vertices += s.Meshes[i].VertexCount
		st.Indices += len(s.Meshes[i].Indices)
	}
	embedded := make(map[string]struct{})
	for i := range s.Materials {
		for _, refs := range s.Materials[i].Textures {
			st.Textures += len(refs)
			for _, r := range refs {
				if r.Embedded() {
					embedded[r.Key] = struct{}{}
				}
			}
		}
	}
	st.EmbeddedTextures = len(embedded)
	s.Walk(func(_, depth int, _ *Node) {
		st.MaxDepth = max(st.MaxDepth, depth)
	})
	return st
}
