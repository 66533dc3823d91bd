package nexus

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ohler55/ojg/oj"

	"github.com/jklynch/suitcase-sas/internal/h5"
)

// Copier copies flat metadata mappings (no reserved keys, no references)
// into the hierarchy as nested groups carrying either attributes or
// datasets. The logger is injected; its lifecycle belongs to the caller.
type Copier struct {
	log *slog.Logger
}

// NewCopier builds a Copier around the given logger. A nil logger
// discards everything.
func NewCopier(log *slog.Logger) *Copier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Copier{log: log}
}

// CopyAttributes reproduces a flat metadata mapping under dest as nested
// groups carrying attributes, no datasets. nil values are stored as the
// string "None". A value the format rejects as an attribute is stored as
// its JSON text instead; any other failure propagates.
func (c *Copier) CopyAttributes(m map[string]any, dest *h5.Group) error {
	for _, key := range sortedKeys(m) {
		value := m[key]
		if sub, ok := value.(map[string]any); ok {
			child, err := dest.CreateGroup(key)
			if err != nil {
				return err
			}
			if err := c.CopyAttributes(sub, child); err != nil {
				return err
			}
			continue
		}

		if value == nil {
			value = "None"
		}
		err := dest.SetAttr(key, value)
		if errors.Is(err, h5.ErrUnsupportedType) {
			err = dest.SetAttr(key, oj.JSON(value))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyDatasets is the same recursion with datasets for leaves, used when
// attributes are not wanted — for example when the resulting nodes must
// be link targets. Normalizations, in order:
//
//   - nil is stored as the string "None";
//   - a single NUL byte is stored as the empty string (variable-length
//     strings cannot hold embedded NULs);
//   - a string or an all-string sequence is stored as a variable-length
//     string array;
//   - a value the format rejects is stored as its JSON text, as one
//     variable-length string.
//
// Any other storage failure is logged with full context and returned.
func (c *Copier) CopyDatasets(m map[string]any, dest *h5.Group) error {
	for _, key := range sortedKeys(m) {
		value := m[key]
		if sub, ok := value.(map[string]any); ok {
			child, err := dest.CreateGroup(key)
			if err != nil {
				return err
			}
			c.log.Debug("created group", "path", child.Path())
			if err := c.CopyDatasets(sub, child); err != nil {
				return err
			}
			continue
		}

		if value == nil {
			value = "None"
		} else if isNUL(value) {
			value = ""
		}
		if ss, ok := stringSlice(value); ok {
			value = ss
		}

		ds, err := dest.CreateDataset(key, value)
		if errors.Is(err, h5.ErrUnsupportedType) {
			c.log.Info("JSON-encoding value",
				"group", dest.Path(), "key", key, "reason", err)
			ds, err = dest.CreateDataset(key, oj.JSON(value))
		}
		if err != nil {
			c.log.Error("failed to create dataset",
				"group", dest.Path(), "key", key, "value", fmt.Sprint(value), "err", err)
			return err
		}
		c.log.Debug("created dataset", "path", ds.Path())
	}
	return nil
}

// isNUL reports whether v is the single NUL byte, in byte or text form.
func isNUL(v any) bool {
	switch v := v.(type) {
	case []byte:
		return len(v) == 1 && v[0] == 0
	case string:
		return v == "\x00"
	}
	return false
}

// stringSlice converts a sequence whose elements are all strings into
// []string for variable-length string array storage.
func stringSlice(v any) ([]string, bool) {
	switch v := v.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, len(v))
		for i, el := range v {
			s, ok := el.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
