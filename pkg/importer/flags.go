package importer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownFlag is returned by ParseFlags for an unrecognized flag name.
var ErrUnknownFlag = errors.New("unknown processing flag")

// Flags selects post-processing steps an importer applies before handing a
// scene over. Values match the Open Asset Import Library bits so flag sets
// can be exchanged with tools built on it.
type Flags uint32

const (
	CalcTangentSpace      Flags = 0x1
	JoinIdenticalVertices Flags = 0x2
	Triangulate           Flags = 0x8
	GenNormals            Flags = 0x20
	SplitLargeMeshes      Flags = 0x80
	ValidateDataStructure Flags = 0x400
	SortByPType           Flags = 0x8000
	GenUVCoords           Flags = 0x40000
	GenBoundingBoxes      Flags = 0x80000000
)

// DefaultFlags is the flag set used when the caller does not choose one.
const DefaultFlags = SortByPType | ValidateDataStructure | SplitLargeMeshes |
	JoinIdenticalVertices | Triangulate | CalcTangentSpace | GenNormals |
	GenBoundingBoxes | GenUVCoords

var flagNames = []struct {
	flag Flags
	name string
}{
	{CalcTangentSpace, "calc_tangent_space"},
	{JoinIdenticalVertices, "join_identical_vertices"},
	{Triangulate, "triangulate"},
	{GenNormals, "gen_normals"},
	{SplitLargeMeshes, "split_large_meshes"},
	{ValidateDataStructure, "validate_data_structure"},
	{SortByPType, "sort_by_ptype"},
	{GenUVCoords, "gen_uv_coords"},
	{GenBoundingBoxes, "gen_bounding_boxes"},
}

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// String returns the flag names joined with '|'.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	rest := f
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseFlags converts flag names to a bitset. Matching ignores case and the
// separators '_', '-' and ' ', so "gen_normals", "GenNormals" and
// "GEN-NORMALS" are equivalent. The name "default" expands to DefaultFlags and
// "none" contributes nothing.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, raw := range names {
		name := compactFlagName(raw)
		switch name {
		case "":
			continue
		case "default":
			f |= DefaultFlags
			continue
		case "none":
			continue
		}

		found := false
		for _, fn := range flagNames {
			if compactFlagName(fn.name) == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, raw)
		}
	}
	return f, nil
}

func compactFlagName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '\t':
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
