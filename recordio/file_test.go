package recordio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerank/core"
)

func TestSaveAndLoadFused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fused_rankings.csv")
	ranking := []*core.FusedMovie{
		{MovieRecord: core.MovieRecord{Title: "Up", Year: "2009", Genres: []string{"Animation"}, PopularityRank: 1, RatingRank: 2}, FinalScore: 1.75, FinalRank: 1},
	}
	require.NoError(t, SaveFused(path, ranking))

	back, err := LoadFused(path)
	require.NoError(t, err)
	assert.Equal(t, ranking, back)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed into place")
}

func TestCSVSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "popular.csv")
	require.NoError(t, SaveSources(path, []core.MovieRecord{{Title: "Heat", PopularityRank: 1}}, Popularity))

	src := &CSVSource{Path: path, Kind: Popularity}
	assert.Equal(t, "popularity_rank:popular.csv", src.Name())

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].PopularityRank)

	_, err = (&CSVSource{Path: filepath.Join(dir, "missing.csv"), Kind: Popularity}).Load(context.Background())
	assert.Error(t, err)
}

func TestLoadRatings_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("title,rating\nHeat,ten\n"), 0o644))

	_, err := LoadRatings(path)
	assert.True(t, core.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "ratings.csv")
}
