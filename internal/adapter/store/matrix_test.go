package store

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatrix() [][]float32 {
	return [][]float32{
		{0.25, -1.5, 3.0},
		{0.0001, 42.0, -0.75},
	}
}

func TestMatrixStore_RoundTrip(t *testing.T) {
	s := NewMatrixStore(filepath.Join(t.TempDir(), "embeddings.bin"))
	matrix := testMatrix()

	require.NoError(t, s.Save("all-minilm", matrix))

	loaded, err := s.Load("all-minilm", len(matrix))
	require.NoError(t, err)
	require.Len(t, loaded, len(matrix))
	for i := range matrix {
		require.Len(t, loaded[i], len(matrix[i]))
		for j := range matrix[i] {
			assert.InDelta(t, matrix[i][j], loaded[i][j], 1e-5)
		}
	}
}

func TestMatrixStore_MissingFile(t *testing.T) {
	s := NewMatrixStore(filepath.Join(t.TempDir(), "embeddings.bin"))

	_, err := s.Load("all-minilm", 2)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMatrixStore_ModelMismatch(t *testing.T) {
	s := NewMatrixStore(filepath.Join(t.TempDir(), "embeddings.bin"))
	require.NoError(t, s.Save("all-minilm", testMatrix()))

	_, err := s.Load("bge-m3", 2)
	assert.ErrorIs(t, err, ErrCacheMismatch)
}

func TestMatrixStore_RowCountMismatch(t *testing.T) {
	s := NewMatrixStore(filepath.Join(t.TempDir(), "embeddings.bin"))
	require.NoError(t, s.Save("all-minilm", testMatrix()))

	_, err := s.Load("all-minilm", 5)
	assert.ErrorIs(t, err, ErrCacheMismatch)
}

func TestMatrixStore_RejectsEmptyMatrix(t *testing.T) {
	s := NewMatrixStore(filepath.Join(t.TempDir(), "embeddings.bin"))

	assert.Error(t, s.Save("all-minilm", nil))
	assert.Error(t, s.Save("all-minilm", [][]float32{{}}))
}

func TestMatrixStore_RejectsRaggedMatrix(t *testing.T) {
	s := NewMatrixStore(filepath.Join(t.TempDir(), "embeddings.bin"))

	err := s.Save("all-minilm", [][]float32{{1, 2, 3}, {1, 2}})
	assert.Error(t, err)
}
