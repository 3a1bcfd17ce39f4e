package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cxxlint/cxxlint/internal/diag"
	"github.com/cxxlint/cxxlint/internal/position"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func sampleDiags() []diag.Diagnostic {
	span := position.Span{
		Start: position.Position{Filename: "a.cpp", Line: 3, Column: 5, Offset: 42},
		End:   position.Position{Filename: "a.cpp", Line: 3, Column: 20, Offset: 57},
	}

	return []diag.Diagnostic{
		diag.New("redundantcast").
			Warning().
			Message("redundant const_cast from char * lvalue to char * prvalue").
			Span(span).
			Build(),
	}
}

func TestGetMissOnEmptyStore(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get("a.cpp", "h1", "c1")
	require.True(t, errors.Is(err, ErrMiss))
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTemp(t)
	want := sampleDiags()
	require.NoError(t, s.Put("a.cpp", "h1", "c1", want))

	got, err := s.Get("a.cpp", "h1", "c1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestContentChangeMisses(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("a.cpp", ContentHash([]byte("old")), "c1", sampleDiags()))

	_, err := s.Get("a.cpp", ContentHash([]byte("new")), "c1")
	require.True(t, errors.Is(err, ErrMiss))
}

func TestConfigChangeMisses(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("a.cpp", "h1", "c1", sampleDiags()))

	_, err := s.Get("a.cpp", "h1", "c2")
	require.True(t, errors.Is(err, ErrMiss))
}

func TestPutEvictsStaleContent(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("a.cpp", "h1", "c1", sampleDiags()))
	require.NoError(t, s.Put("a.cpp", "h2", "c1", nil))

	_, err := s.Get("a.cpp", "h1", "c1")
	require.True(t, errors.Is(err, ErrMiss))

	got, err := s.Get("a.cpp", "h2", "c1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCleanFileStoresEmptySlice(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("clean.cpp", "h1", "c1", nil))

	got, err := s.Get("clean.cpp", "h1", "c1")
	require.NoError(t, err)
	require.Len(t, got, 0)
}

func TestPrune(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("a.cpp", "h1", "c1", sampleDiags()))

	n, err := s.Prune(time.Hour)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.Prune(-time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.Get("a.cpp", "h1", "c1")
	require.True(t, errors.Is(err, ErrMiss))
}

func TestContentHashStable(t *testing.T) {
	if ContentHash([]byte("abc")) != ContentHash([]byte("abc")) {
		t.Error("hash not deterministic")
	}
	if ContentHash([]byte("abc")) == ContentHash([]byte("abd")) {
		t.Error("distinct content collided")
	}
}
