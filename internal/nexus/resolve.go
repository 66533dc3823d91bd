package nexus

import (
	"fmt"

	"github.com/jklynch/suitcase-sas/internal/h5"
)

// blueskyGroup is the fixed top-level container the document hierarchy
// lives under.
const blueskyGroup = "bluesky"

// ResolveDocumentPath walks the /bluesky hierarchy to the node named by
// p: the document kind, then the stream for desc paths, then each
// traversal key in order. Resolution is a pure lookup — every segment
// must already exist, so callers populate the document hierarchy before
// interpreting metadata that references it. Missing segments surface as
// h5.ErrNotFound. The Attr selector, if any, is not consumed.
func ResolveDocumentPath(f *h5.File, p *DocumentPath) (h5.Object, error) {
	var obj h5.Object = f.Root()
	segs := make([]string, 0, len(p.Keys)+3)
	segs = append(segs, blueskyGroup, p.Kind)
	if p.Stream != "" {
		segs = append(segs, p.Stream)
	}
	segs = append(segs, p.Keys...)

	for _, seg := range segs {
		g, ok := obj.(*h5.Group)
		if !ok {
			return nil, fmt.Errorf("%s is a dataset, cannot descend into %q: %w", obj.Path(), seg, h5.ErrNotFound)
		}
		var err error
		obj, err = g.Child(seg)
		if err != nil {
			return nil, err
		}
	}
	return obj, nil
}
