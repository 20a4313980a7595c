package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanmoure/reelmind/internal/adapter/store"
	"github.com/ivanmoure/reelmind/internal/domain"
	"github.com/ivanmoure/reelmind/internal/port"
)

type fakeEncoder struct {
	model      string
	vectors    map[string][]float32
	embedCalls int
	batchCalls int
	batchErr   error
}

func (f *fakeEncoder) ModelName() string { return f.model }

func (f *fakeEncoder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls++
	v, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("model cannot process %q", text)
	}
	return v, nil
}

func (f *fakeEncoder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("model cannot process %q", text)
		}
		out[i] = v
	}
	return out, nil
}

type fakePoster struct {
	mu    sync.Mutex
	urls  map[string]string
	fails map[string]bool
	calls int
}

func (f *fakePoster) Lookup(_ context.Context, title string) (port.PosterResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fails[title] {
		return port.PosterResult{}, errors.New("lookup unavailable")
	}
	if url, ok := f.urls[title]; ok {
		return port.PosterResult{URL: url, Found: true}, nil
	}
	return port.PosterResult{}, nil
}

func testCatalog() []domain.Movie {
	movies := []domain.Movie{
		{Index: 0, Title: "Space Adventure", Rating: 8.0, Votes: 1000},
		{Index: 1, Title: "Romance in Paris", Rating: 6.0, Votes: 200},
		{Index: 2, Title: "Space Pirates", Rating: 7.0, Votes: 500},
	}
	for i := range movies {
		movies[i].SearchText = movies[i].Title
	}
	return movies
}

func testEncoder() *fakeEncoder {
	return &fakeEncoder{
		model: "fake-model",
		vectors: map[string][]float32{
			"Space Adventure":  {0.9, 0.1, 0},
			"Romance in Paris": {0, 1, 0},
			"Space Pirates":    {0.95, 0.05, 0},
			"space battle":     {1, 0, 0},
		},
	}
}

func newTestService(t *testing.T, encoder *fakeEncoder, posters port.PosterProvider) *RecommendService {
	t.Helper()
	cachePath := filepath.Join(t.TempDir(), "embeddings.bin")
	return newTestServiceAt(encoder, posters, cachePath)
}

func newTestServiceAt(encoder *fakeEncoder, posters port.PosterProvider, cachePath string) *RecommendService {
	return NewRecommendService(
		encoder, posters, testCatalog(), store.NewMatrixStore(cachePath), 100, 3,
	)
}

func TestEnsureEmbeddings_EmptyCatalogIsFatal(t *testing.T) {
	svc := NewRecommendService(
		testEncoder(), &fakePoster{}, nil,
		store.NewMatrixStore(filepath.Join(t.TempDir(), "embeddings.bin")), 100, 5,
	)

	err := svc.EnsureEmbeddings(context.Background())
	assert.ErrorIs(t, err, port.ErrEmptyCatalog)
}

func TestEnsureEmbeddings_ColdStartWritesCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "embeddings.bin")
	encoder := testEncoder()
	svc := newTestServiceAt(encoder, &fakePoster{}, cachePath)

	require.NoError(t, svc.EnsureEmbeddings(context.Background()))

	assert.Equal(t, 1, encoder.batchCalls)
	_, err := os.Stat(cachePath)
	assert.NoError(t, err)
}

func TestEnsureEmbeddings_WarmStartSkipsEncoder(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "embeddings.bin")
	require.NoError(t, newTestServiceAt(testEncoder(), &fakePoster{}, cachePath).EnsureEmbeddings(context.Background()))

	// Same model name, but batch encoding would now fail: a valid cache must
	// be loaded verbatim without touching the encoder.
	broken := testEncoder()
	broken.batchErr = errors.New("encoder offline")
	svc := newTestServiceAt(broken, &fakePoster{}, cachePath)

	require.NoError(t, svc.EnsureEmbeddings(context.Background()))
	assert.Equal(t, 0, broken.batchCalls)

	recs, err := svc.Recommend(context.Background(), "space battle")
	require.NoError(t, err)
	assert.Equal(t, "Space Adventure", recs[0].Title)
}

func TestEnsureEmbeddings_ModelChangeInvalidatesCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "embeddings.bin")
	require.NoError(t, newTestServiceAt(testEncoder(), &fakePoster{}, cachePath).EnsureEmbeddings(context.Background()))

	other := testEncoder()
	other.model = "other-model"
	svc := newTestServiceAt(other, &fakePoster{}, cachePath)

	require.NoError(t, svc.EnsureEmbeddings(context.Background()))
	assert.Equal(t, 1, other.batchCalls)
}

func TestRecommend_EmptyQueryShortCircuits(t *testing.T) {
	encoder := testEncoder()
	svc := newTestService(t, encoder, &fakePoster{})
	require.NoError(t, svc.EnsureEmbeddings(context.Background()))
	encoder.embedCalls = 0

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := svc.Recommend(context.Background(), query)
		assert.ErrorIs(t, err, port.ErrEmptyQuery)
	}
	assert.Equal(t, 0, encoder.embedCalls, "empty input must not reach the encoder")
}

func TestRecommend_EncodingFailureIsRequestFatal(t *testing.T) {
	svc := newTestService(t, testEncoder(), &fakePoster{})
	require.NoError(t, svc.EnsureEmbeddings(context.Background()))

	_, err := svc.Recommend(context.Background(), "\x00pathological")
	assert.ErrorIs(t, err, port.ErrEncodingFailed)
}

func TestRecommend_BlendedRankingOrder(t *testing.T) {
	svc := newTestService(t, testEncoder(), &fakePoster{})
	require.NoError(t, svc.EnsureEmbeddings(context.Background()))

	recs, err := svc.Recommend(context.Background(), "space battle")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// Both space movies outrank the romance; between them, the blended score
	// favors "Space Adventure" despite its lower raw similarity.
	assert.Equal(t, "Space Adventure", recs[0].Title)
	assert.Equal(t, "Space Pirates", recs[1].Title)
	assert.Equal(t, "Romance in Paris", recs[2].Title)
	assert.Greater(t, recs[1].Score, recs[0].Score, "raw similarity should still favor Space Pirates")
}

func TestRecommend_PosterFailuresDegradeToNull(t *testing.T) {
	posters := &fakePoster{
		urls:  map[string]string{"Space Adventure": "https://image.tmdb.org/t/p/w500/adventure.jpg"},
		fails: map[string]bool{"Space Pirates": true},
	}
	svc := newTestService(t, testEncoder(), posters)
	require.NoError(t, svc.EnsureEmbeddings(context.Background()))

	recs, err := svc.Recommend(context.Background(), "space battle")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	require.NotNil(t, recs[0].Poster)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/adventure.jpg", *recs[0].Poster)
	assert.Nil(t, recs[1].Poster, "lookup failure must degrade to null")
	assert.Nil(t, recs[2].Poster, "no match must degrade to null")
	assert.Equal(t, 3, posters.calls)
}

func TestRecommend_Idempotent(t *testing.T) {
	svc := newTestService(t, testEncoder(), &fakePoster{})
	require.NoError(t, svc.EnsureEmbeddings(context.Background()))

	first, err := svc.Recommend(context.Background(), "space battle")
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), "space battle")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
