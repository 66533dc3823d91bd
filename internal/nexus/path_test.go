package nexus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentPath(t *testing.T) {
	t.Run("start with keys", func(t *testing.T) {
		p, err := ParseDocumentPath("#bluesky/start/blah/bleh")
		require.NoError(t, err)
		assert.Equal(t, DocStart, p.Kind)
		assert.Empty(t, p.Stream)
		assert.Equal(t, []string{"blah", "bleh"}, p.Keys)
		assert.Empty(t, p.Attr)
	})

	t.Run("stop with zero keys selects the document root", func(t *testing.T) {
		p, err := ParseDocumentPath("#bluesky/stop")
		require.NoError(t, err)
		assert.Equal(t, DocStop, p.Kind)
		assert.Empty(t, p.Keys)
	})

	t.Run("desc consumes the stream segment", func(t *testing.T) {
		p, err := ParseDocumentPath("#bluesky/desc/primary/blah/bleh")
		require.NoError(t, err)
		assert.Equal(t, DocDesc, p.Kind)
		assert.Equal(t, "primary", p.Stream)
		assert.Equal(t, []string{"blah", "bleh"}, p.Keys)
	})

	t.Run("desc without a stream fails", func(t *testing.T) {
		_, err := ParseDocumentPath("#bluesky/desc")
		assert.ErrorIs(t, err, ErrPathSyntax)
	})

	t.Run("attribute selector is captured", func(t *testing.T) {
		p, err := ParseDocumentPath("#bluesky/start/blah/bleh@blih")
		require.NoError(t, err)
		assert.Equal(t, []string{"blah", "bleh"}, p.Keys)
		assert.Equal(t, "blih", p.Attr)
	})

	t.Run("attribute selector directly on the document", func(t *testing.T) {
		p, err := ParseDocumentPath("#bluesky/start@uid")
		require.NoError(t, err)
		assert.Equal(t, DocStart, p.Kind)
		assert.Empty(t, p.Keys)
		assert.Equal(t, "uid", p.Attr)
	})

	t.Run("unknown document kind fails", func(t *testing.T) {
		_, err := ParseDocumentPath("#bluesky/event/foo")
		assert.ErrorIs(t, err, ErrPathSyntax)
	})

	t.Run("missing prefix fails", func(t *testing.T) {
		_, err := ParseDocumentPath("bluesky/start")
		assert.ErrorIs(t, err, ErrPathSyntax)
	})

	t.Run("bare prefix fails", func(t *testing.T) {
		_, err := ParseDocumentPath("#bluesky")
		assert.ErrorIs(t, err, ErrPathSyntax)
	})

	t.Run("empty segment fails", func(t *testing.T) {
		_, err := ParseDocumentPath("#bluesky/start//bleh")
		assert.ErrorIs(t, err, ErrPathSyntax)
	})

	t.Run("non-word segment fails", func(t *testing.T) {
		_, err := ParseDocumentPath("#bluesky/start/foo-bar")
		assert.ErrorIs(t, err, ErrPathSyntax)
	})

	t.Run("empty attribute selector fails", func(t *testing.T) {
		_, err := ParseDocumentPath("#bluesky/start/blah@")
		assert.ErrorIs(t, err, ErrPathSyntax)
	})
}

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("#bluesky/start/uid"))
	assert.False(t, IsReference("EPICS areaDetector"))
	assert.False(t, IsReference(42))
	assert.False(t, IsReference(map[string]any{}))
}
