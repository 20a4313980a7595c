package store

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// File layout: magic, format version, model name, row count, dimension,
// then count*dim little-endian float32 values in catalog row order.
var magic = [4]byte{'M', 'V', 'E', 'C'}

const formatVersion uint32 = 1

// ErrCacheMismatch is returned when a cache file exists but its fingerprint
// (model name, row count) no longer matches the live catalog and encoder.
var ErrCacheMismatch = errors.New("embedding cache does not match catalog")

// MatrixStore persists the catalog embedding matrix as a single binary file.
// The fingerprint in the header prevents silently reusing vectors computed by
// a different model or for a different catalog size.
type MatrixStore struct {
	path string
}

// NewMatrixStore creates a store backed by the file at path.
func NewMatrixStore(path string) *MatrixStore {
	return &MatrixStore{path: path}
}

// Load reads the cached matrix, verifying that it was produced by modelName
// for a catalog of n rows. It returns ErrCacheMismatch when the fingerprint
// disagrees, and the underlying fs error when the file is absent.
func (s *MatrixStore) Load(modelName string, n int) ([][]float32, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("read embedding cache header: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCacheMismatch)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read embedding cache header: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: format version %d", ErrCacheMismatch, version)
	}

	var modelLen uint32
	if err := binary.Read(r, binary.LittleEndian, &modelLen); err != nil {
		return nil, fmt.Errorf("read embedding cache header: %w", err)
	}
	model := make([]byte, modelLen)
	if _, err := io.ReadFull(r, model); err != nil {
		return nil, fmt.Errorf("read embedding cache header: %w", err)
	}
	if string(model) != modelName {
		return nil, fmt.Errorf("%w: cache built with model %q, encoder is %q", ErrCacheMismatch, model, modelName)
	}

	var count, dim uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read embedding cache header: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read embedding cache header: %w", err)
	}
	if int(count) != n {
		return nil, fmt.Errorf("%w: cache has %d rows, catalog has %d", ErrCacheMismatch, count, n)
	}
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero dimension", ErrCacheMismatch)
	}

	matrix := make([][]float32, count)
	buf := make([]byte, dim*4)
	for i := range matrix {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read embedding row %d: %w", i, err)
		}
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
		matrix[i] = row
	}
	return matrix, nil
}

// Save writes the full matrix atomically (temp file + rename) with a
// fingerprint header naming the encoder model.
func (s *MatrixStore) Save(modelName string, matrix [][]float32) error {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return fmt.Errorf("save embedding cache: empty matrix")
	}
	dim := len(matrix[0])
	for i, row := range matrix {
		if len(row) != dim {
			return fmt.Errorf("save embedding cache: row %d has dimension %d, want %d", i, len(row), dim)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".embeddings-*")
	if err != nil {
		return fmt.Errorf("create embedding cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("write embedding cache: %w", err)
	}
	for _, v := range []uint32{formatVersion, uint32(len(modelName))} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write embedding cache: %w", err)
		}
	}
	if _, err := w.WriteString(modelName); err != nil {
		return fmt.Errorf("write embedding cache: %w", err)
	}
	for _, v := range []uint32{uint32(len(matrix)), uint32(dim)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write embedding cache: %w", err)
		}
	}

	buf := make([]byte, dim*4)
	for _, row := range matrix {
		for j, v := range row {
			binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write embedding cache: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush embedding cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close embedding cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename embedding cache: %w", err)
	}
	return nil
}
