// Package export orchestrates a full run export: it lands the bluesky
// documents in the destination file first, then interprets the nexus
// metadata template against them, so every reference in the template
// resolves.
package export

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/oj"

	"github.com/jklynch/suitcase-sas/internal/h5"
	"github.com/jklynch/suitcase-sas/internal/nexus"
)

// RunDocuments is the bundle of bluesky documents for one run.
type RunDocuments struct {
	Start       map[string]any
	Stop        map[string]any
	Descriptors map[string]map[string]any // stream name → descriptor document
	Metadata    map[string]any            // run-level metadata, stored as attributes
}

// Exporter reads export inputs through a billy filesystem and writes
// them into an h5 file. The logger is injected and shared with the
// copiers.
type Exporter struct {
	fs  billy.Filesystem
	log *slog.Logger
}

func New(fs billy.Filesystem, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Exporter{fs: fs, log: log}
}

// LoadTemplate reads a JSON nexus metadata template.
func (e *Exporter) LoadTemplate(path string) (map[string]any, error) {
	m, err := e.loadObject(path)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return m, nil
}

// LoadDocuments reads a JSON document bundle of the form
//
//	{"start": {...}, "stop": {...},
//	 "descriptors": {"<stream>": {...}},
//	 "metadata": {...}}
//
// Absent sections are allowed and come back empty.
func (e *Exporter) LoadDocuments(path string) (*RunDocuments, error) {
	m, err := e.loadObject(path)
	if err != nil {
		return nil, fmt.Errorf("documents %s: %w", path, err)
	}

	docs := &RunDocuments{Descriptors: make(map[string]map[string]any)}
	if docs.Start, err = section(m, "start"); err != nil {
		return nil, fmt.Errorf("documents %s: %w", path, err)
	}
	if docs.Stop, err = section(m, "stop"); err != nil {
		return nil, fmt.Errorf("documents %s: %w", path, err)
	}
	if docs.Metadata, err = section(m, "metadata"); err != nil {
		return nil, fmt.Errorf("documents %s: %w", path, err)
	}

	descs, err := section(m, "descriptors")
	if err != nil {
		return nil, fmt.Errorf("documents %s: %w", path, err)
	}
	for stream, doc := range descs {
		d, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("documents %s: descriptor %q must be an object, got %T", path, stream, doc)
		}
		docs.Descriptors[stream] = d
	}
	return docs, nil
}

func (e *Exporter) loadObject(path string) (map[string]any, error) {
	b, err := util.ReadFile(e.fs, path)
	if err != nil {
		return nil, err
	}
	v, err := oj.Parse(b)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be an object, got %T", v)
	}
	return m, nil
}

func section(m map[string]any, name string) (map[string]any, error) {
	v, ok := m[name]
	if !ok {
		return map[string]any{}, nil
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q must be an object, got %T", name, v)
	}
	return sub, nil
}

// Export writes the document hierarchy under /bluesky, then interprets
// tmpl against the file root. Document datasets are written with the
// dataset copier so they can serve as link targets; run-level metadata
// goes in as attributes under /bluesky/metadata.
func (e *Exporter) Export(f *h5.File, tmpl map[string]any, docs *RunDocuments) error {
	c := nexus.NewCopier(e.log)

	bluesky, err := f.Root().CreateGroup("bluesky")
	if err != nil {
		return err
	}

	start, err := bluesky.CreateGroup(nexus.DocStart)
	if err != nil {
		return err
	}
	if err := c.CopyDatasets(docs.Start, start); err != nil {
		return fmt.Errorf("copy start document: %w", err)
	}

	stop, err := bluesky.CreateGroup(nexus.DocStop)
	if err != nil {
		return err
	}
	if err := c.CopyDatasets(docs.Stop, stop); err != nil {
		return fmt.Errorf("copy stop document: %w", err)
	}

	desc, err := bluesky.CreateGroup(nexus.DocDesc)
	if err != nil {
		return err
	}
	for _, stream := range sortedStreams(docs.Descriptors) {
		sg, err := desc.CreateGroup(stream)
		if err != nil {
			return err
		}
		if err := c.CopyDatasets(docs.Descriptors[stream], sg); err != nil {
			return fmt.Errorf("copy descriptor %q: %w", stream, err)
		}
	}

	if len(docs.Metadata) > 0 {
		mg, err := bluesky.CreateGroup("metadata")
		if err != nil {
			return err
		}
		if err := c.CopyAttributes(docs.Metadata, mg); err != nil {
			return fmt.Errorf("copy run metadata: %w", err)
		}
	}

	if err := nexus.CopyTree(tmpl, f.Root()); err != nil {
		return fmt.Errorf("interpret metadata tree: %w", err)
	}
	e.log.Info("export complete", "streams", len(docs.Descriptors))
	return nil
}

func sortedStreams(descs map[string]map[string]any) []string {
	streams := make([]string, 0, len(descs))
	for s := range descs {
		streams = append(streams, s)
	}
	sort.Strings(streams)
	return streams
}
