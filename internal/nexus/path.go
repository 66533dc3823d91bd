// Package nexus interprets nexus-style metadata trees into an h5
// hierarchy. Metadata leaves may be reference strings of the form
// #bluesky/<kind>[/<stream>](/<key>)*[@<attr>] pointing into the
// separately-populated /bluesky document hierarchy; the interpreter
// resolves them to hard links.
package nexus

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrPathSyntax is returned when a reference string does not match the
// document path grammar.
var ErrPathSyntax = errors.New("malformed bluesky document path")

// ReferencePrefix marks a metadata string value as a pointer into the
// bluesky document hierarchy rather than literal data. The full syntax
// is a persisted-in-metadata convention; it must not change.
const ReferencePrefix = "#bluesky"

// Document kinds addressable by a reference.
const (
	DocStart = "start"
	DocStop  = "stop"
	DocDesc  = "desc"
)

// DocumentPath is the decoded form of one reference string.
//
// Attr is recognized by the grammar but never consumed during
// resolution: a reference carrying @attr resolves to the node and the
// selector is ignored, with no error. Kept as an explicit field rather
// than silently dropped so the unused selector stays visible to callers.
type DocumentPath struct {
	Kind   string
	Stream string // set only when Kind is DocDesc
	Keys   []string
	Attr   string
}

// IsReference reports whether v is a string carrying the reference prefix.
func IsReference(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, ReferencePrefix)
}

// ParseDocumentPath parses a reference string into a DocumentPath.
// Zero traversal keys is valid: the path then names a document-level
// node. The desc kind consumes the segment after it as the stream name
// and fails without one.
func ParseDocumentPath(ref string) (*DocumentPath, error) {
	body, ok := strings.CutPrefix(ref, ReferencePrefix+"/")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPathSyntax, ref)
	}

	var attr string
	if i := strings.IndexByte(body, '@'); i >= 0 {
		body, attr = body[:i], body[i+1:]
		if !isWord(attr) {
			return nil, fmt.Errorf("%w: bad attribute selector in %q", ErrPathSyntax, ref)
		}
	}

	segs := strings.Split(body, "/")
	for _, s := range segs {
		if !isWord(s) {
			return nil, fmt.Errorf("%w: bad segment %q in %q", ErrPathSyntax, s, ref)
		}
	}

	p := &DocumentPath{Kind: segs[0], Attr: attr}
	rest := segs[1:]
	switch p.Kind {
	case DocStart, DocStop:
	case DocDesc:
		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: desc requires a stream segment in %q", ErrPathSyntax, ref)
		}
		p.Stream, rest = rest[0], rest[1:]
	default:
		return nil, fmt.Errorf("%w: unknown document kind %q in %q", ErrPathSyntax, p.Kind, ref)
	}
	p.Keys = rest
	return p, nil
}

// isWord matches the \w+ segment rule: letters, digits, underscore.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
