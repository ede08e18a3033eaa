// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cc

// Location is a compact opaque handle a SourceManager can decode into
// (file-id, line, column) and back into the surrounding source line.
// The zero value NoLocation means "no location".
type Location uint32

// NoLocation is the sentinel meaning "no location is associated".
const NoLocation Location = 0

// IsValid reports whether l carries real position information.
func (l Location) IsValid() bool { return l != NoLocation }

// ExpansionKind classifies one link in a LocationTree chain.
type ExpansionKind uint8

const (
	ExpansionNone ExpansionKind = iota
	ExpansionMacro
	ExpansionInclude
)

// expansionNode is one (parent, kind, site) record in the location
// tree, arena-allocated; Location values referring into an expansion
// index into this tree via the SourceManager that owns it.
type expansionNode struct {
	kind ExpansionKind
	// site is the location the expansion/inclusion happened at: the
	// macro invocation's location, or the #include directive's location.
	site Location
	// name is the macro name for ExpansionMacro, or empty for includes.
	name string
	// parent chains outward; ExpansionNone terminates the walk.
	parent int32
}

// DecodedLocation is the fully materialized form of a Location, as
// returned by SourceManager.Decode: enough to render a diagnostic line
// with a caret and to walk the "included from" / "in expansion of"
// chain.
type DecodedLocation struct {
	File   string
	Line   int
	Column int
	// SourceLine is the full text of the physical line containing the
	// location, for caret rendering.
	SourceLine string
	// Chain walks outward from the immediate location: each entry is one
	// enclosing macro expansion or #include site.
	Chain []ExpansionFrame
}

// ExpansionFrame is one entry in a DecodedLocation's expansion chain.
type ExpansionFrame struct {
	Kind ExpansionKind
	Name string // macro name, for ExpansionKind == ExpansionMacro
	Loc  DecodedLocation
}
