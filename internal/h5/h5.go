// Package h5 models the destination hierarchical file: a tree of groups
// and datasets carrying attributes, plus hard links that alias other
// nodes. Storage is behind the Store interface so the same handle API
// works against the in-memory backend (tests) and the SQLite-backed
// single-file backend (real exports).
package h5

import "errors"

var (
	// ErrNotFound is returned when a path or attribute does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrExists is returned when creating a child under a name already taken.
	ErrExists = errors.New("object already exists")

	// ErrUnsupportedType is returned when a value cannot be stored natively
	// as dataset data or an attribute. Callers that want JSON fallback
	// encoding check for this error specifically.
	ErrUnsupportedType = errors.New("unsupported value type")
)

// Kind discriminates stored node types.
type Kind int

const (
	KindGroup Kind = iota
	KindDataset
	KindLink
)

// Node is the stored form of one object in the hierarchy.
// Path is slash-separated with no leading slash; the root is "".
type Node struct {
	Path   string
	Kind   Kind
	Value  any            // dataset payload (KindDataset only)
	Attrs  map[string]any // nil when the node carries no attributes
	Target string         // alias target path (KindLink only)
}

// Store is the persistence interface for hierarchy nodes.
// PutNode upserts by path; implementations must preserve child creation
// order in ListChildren.
type Store interface {
	GetNode(path string) (*Node, error)
	PutNode(n *Node) error
	ListChildren(path string) ([]string, error)
}
