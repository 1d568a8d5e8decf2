package assets

import (
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	fsys := fstest.MapFS{
		"coin.png":       {Data: []byte("png")},
		"boosters/x.svg": {Data: []byte("<svg/>")},
	}
	r, err := NewResolver(fsys, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	tests := []struct {
		key  string
		ok   bool
		kind string
	}{
		{key: "coin", ok: true, kind: "image/png"},
		{key: "boosters/x", ok: true, kind: "image/svg+xml"},
		{key: "missing"},
		{key: ""},
		{key: "../coin"},
		{key: "coin.png"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			icon, ok := r.Icon(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, icon.ContentType)
		})
	}
}

func TestResolverCachesHits(t *testing.T) {
	fsys := fstest.MapFS{"coin.png": {Data: []byte("png")}}
	r, err := NewResolver(fsys, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, ok := r.Icon("coin")
	require.True(t, ok)
	delete(fsys, "coin.png")

	icon, ok := r.Icon("coin")
	require.True(t, ok)
	assert.Equal(t, []byte("png"), icon.Data)
	assert.Equal(t, 1, r.Cached())

	_, ok = r.Icon("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Cached())
}
