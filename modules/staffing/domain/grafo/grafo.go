// Package grafo decodes the ancestor path ("grafo") carried by every position record.
//
// A path lists unit codes root first, joined by Separator: "DG-DAF-CTB" is the unit CTB,
// child of DAF, grandchild of DG.
package grafo

import (
	"errors"
	"fmt"
	"strings"
)

const Separator = "-"

var ErrInvalidPath = errors.New("invalid ancestor path")

type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid ancestor path %q: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Is(target error) bool { return target == ErrInvalidPath }

type Path struct {
	Own       string
	Parent    string
	Ancestors []string
}

func (p Path) IsRoot() bool { return p.Parent == "" }

func (p Path) Depth() int { return len(p.Ancestors) - 1 }

// Top is the first segment, the top-level unit of the branch.
func (p Path) Top() string {
	if len(p.Ancestors) == 0 {
		return ""
	}
	return p.Ancestors[0]
}

func Decode(path string) (Path, error) {
	if strings.TrimSpace(path) == "" {
		return Path{}, &InvalidPathError{Path: path, Reason: "empty"}
	}
	segments := Segments(path)
	for i, s := range segments {
		if s == "" {
			return Path{}, &InvalidPathError{Path: path, Reason: fmt.Sprintf("empty segment at position %d", i)}
		}
	}

	out := Path{
		Own:       segments[len(segments)-1],
		Ancestors: segments,
	}
	if len(segments) > 1 {
		out.Parent = segments[len(segments)-2]
	}
	return out, nil
}

func Encode(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Segments splits path without validating it. Surrounding whitespace of each segment is dropped.
func Segments(path string) []string {
	parts := strings.Split(strings.TrimSpace(path), Separator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// HasSegment reports whether code is one of path's segments (exact match, not substring).
func HasSegment(path, code string) bool {
	if code == "" {
		return false
	}
	for _, s := range Segments(path) {
		if s == code {
			return true
		}
	}
	return false
}

// IsBlank reports whether a record carrying path is outside the organization.
func IsBlank(path string) bool {
	return strings.TrimSpace(path) == ""
}
