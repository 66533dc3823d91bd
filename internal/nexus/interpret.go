package nexus

import (
	"fmt"
	"sort"

	"github.com/jklynch/suitcase-sas/internal/h5"
)

// Reserved keys in a nexus metadata tree.
const (
	keyAttributes = "_attributes"
	keyData       = "_data"
	keyLink       = "_link"
)

// nodeShape is the one-pass classification of a metadata mapping: which
// reserved markers it carries. Link and inline data are mutually
// exclusive by convention; when both appear the link wins, matching the
// fixed rule order.
type nodeShape struct {
	attrs   map[string]any
	link    string
	data    any
	hasData bool
}

func classify(m map[string]any) (nodeShape, error) {
	var s nodeShape
	if v, ok := m[keyAttributes]; ok {
		attrs, ok := v.(map[string]any)
		if !ok {
			return s, fmt.Errorf("%s must be a mapping, got %T", keyAttributes, v)
		}
		s.attrs = attrs
	}
	if v, ok := m[keyLink]; ok {
		ref, ok := v.(string)
		if !ok {
			return s, fmt.Errorf("%s must be a reference string, got %T", keyLink, v)
		}
		s.link = ref
	}
	if v, ok := m[keyData]; ok {
		s.data = v
		s.hasData = true
	}
	return s, nil
}

// CopyTree materializes a nexus metadata tree under dest, recursively.
// Per key, in fixed priority order:
//
//   - a mapping with _link becomes a hard link to the referenced
//     document node; the mapping's other keys then apply to the link's
//     target (so _attributes alongside _link land on the linked node);
//   - a mapping with _data (and no _link) becomes a dataset holding the
//     _data value, with the mapping's _attributes on the dataset;
//   - any other mapping becomes a child group;
//   - a bare #bluesky reference string becomes a hard link with no
//     attributes;
//   - any other leaf becomes a dataset holding the value.
//
// _attributes entries are set directly on the destination with no JSON
// fallback: an unsupported value surfaces as a storage error. Storage
// and resolution failures propagate unmodified; there is no partial
// recovery or cleanup.
func CopyTree(tree map[string]any, dest h5.Object) error {
	shape, err := classify(tree)
	if err != nil {
		return err
	}
	return copyShaped(tree, shape, dest)
}

func copyShaped(m map[string]any, shape nodeShape, dest h5.Object) error {
	for _, name := range sortedKeys(shape.attrs) {
		if err := dest.SetAttr(name, shape.attrs[name]); err != nil {
			return err
		}
	}

	for _, key := range sortedKeys(m) {
		if key == keyAttributes || key == keyData || key == keyLink {
			// consumed by the shape pass
			continue
		}
		// Every remaining key creates a child, which needs a group.
		// Recursing into a dataset is only valid for reserved keys.
		group, ok := dest.(*h5.Group)
		if !ok {
			return fmt.Errorf("cannot create %q under dataset %s", key, dest.Path())
		}

		switch v := m[key].(type) {
		case map[string]any:
			child, err := classify(v)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", dest.Path(), key, err)
			}
			switch {
			case child.link != "":
				if err := linkTo(group, key, child.link); err != nil {
					return err
				}
				obj, err := group.Child(key)
				if err != nil {
					return err
				}
				if err := copyShaped(v, child, obj); err != nil {
					return err
				}
			case child.hasData:
				ds, err := group.CreateDataset(key, child.data)
				if err != nil {
					return err
				}
				if err := copyShaped(v, child, ds); err != nil {
					return err
				}
			default:
				sub, err := group.CreateGroup(key)
				if err != nil {
					return err
				}
				if err := copyShaped(v, child, sub); err != nil {
					return err
				}
			}
		case string:
			if IsReference(v) {
				// shorthand link form, no attributes possible
				if err := linkTo(group, key, v); err != nil {
					return err
				}
				continue
			}
			if _, err := group.CreateDataset(key, v); err != nil {
				return err
			}
		default:
			if _, err := group.CreateDataset(key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkTo parses and resolves ref, then creates a hard link to it.
func linkTo(g *h5.Group, name, ref string) error {
	p, err := ParseDocumentPath(ref)
	if err != nil {
		return err
	}
	target, err := ResolveDocumentPath(g.File(), p)
	if err != nil {
		return err
	}
	return g.Link(name, target)
}

// sortedKeys gives the walk a deterministic order. Key order within a
// mapping carries no meaning.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
