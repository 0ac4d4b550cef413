package fusion

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerank/core"
)

func pop(title string, rank int, genres ...string) core.MovieRecord {
	return core.MovieRecord{Title: title, Year: "2000", Genres: genres, PopularityRank: rank}
}

func rat(title string, rank int, genres ...string) core.MovieRecord {
	return core.MovieRecord{Title: title, Year: "2000", Genres: genres, RatingRank: rank}
}

func byTitle(fused []*core.FusedMovie) map[string]*core.FusedMovie {
	out := make(map[string]*core.FusedMovie, len(fused))
	for _, m := range fused {
		out[m.Title] = m
	}
	return out
}

func TestFuse_MissingRankImputedWithMaxRank(t *testing.T) {
	popular := []core.MovieRecord{pop("P1", 1), pop("P2", 2), pop("P3", 3), pop("P4", 4), pop("Lonely", 5)}
	rated := make([]core.MovieRecord, 0, 100)
	for i := 1; i <= 100; i++ {
		rated = append(rated, rat(fmt.Sprintf("R%d", i), i))
	}

	fused, err := Fuse(popular, rated, core.DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, fused, 105)

	lonely := byTitle(fused)["Lonely"]
	require.NotNil(t, lonely)
	assert.InDelta(t, 76.25, lonely.FinalScore, 1e-9)
	assert.Equal(t, 5, lonely.PopularityRank)
	assert.False(t, lonely.HasRatingRank())

	r1 := byTitle(fused)["R1"]
	assert.InDelta(t, 0.25*100+0.75*1, r1.FinalScore, 1e-9)
}

func TestFuse_RanksArePermutationOrderedByScore(t *testing.T) {
	popular := []core.MovieRecord{pop("Heat", 1), pop("Alien", 2), pop("Up", 3), pop("Jaws", 4)}
	rated := []core.MovieRecord{rat("Up", 1), rat("Se7en", 2), rat("Heat", 3), rat("Ran", 4), rat("Ikiru", 5)}

	fused, err := Fuse(popular, rated, core.DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, fused, 7)

	for i, m := range fused {
		assert.Equal(t, i+1, m.FinalRank)
		if i > 0 {
			assert.LessOrEqual(t, fused[i-1].FinalScore, m.FinalScore)
		}
	}
	assert.Equal(t, "Up", fused[0].Title)
}

func TestFuse_Deterministic(t *testing.T) {
	popular := []core.MovieRecord{pop("A", 1), pop("B", 2), pop("C", 3)}
	rated := []core.MovieRecord{rat("C", 1), rat("D", 2), rat("A", 3)}

	first, err := Fuse(popular, rated, core.DefaultPolicy())
	require.NoError(t, err)
	second, err := Fuse(popular, rated, core.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFuse_TieBreak(t *testing.T) {
	policy := core.DefaultPolicy()
	policy.PopularityWeight, policy.RatingWeight = 0.5, 0.5

	// max_rank = 3；X 与 Z 同分 2.0，X 的热度排名更好。B 与 A 同分且都没有热度排名，按片名。
	popular := []core.MovieRecord{pop("X", 1)}
	rated := []core.MovieRecord{rat("Z", 1), rat("B", 2), rat("A", 2)}

	fused, err := Fuse(popular, rated, policy)
	require.NoError(t, err)

	titles := make([]string, 0, len(fused))
	for _, m := range fused {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"X", "Z", "A", "B"}, titles)
}

func TestFuse_PrefersPopularityFields(t *testing.T) {
	popular := []core.MovieRecord{{Title: "Heat", Year: "1995", Genres: []string{"Crime"}, PopularityRank: 1}}
	rated := []core.MovieRecord{{Title: "Heat", Year: "1996", Genres: []string{"Drama"}, RatingRank: 2}}

	fused, err := Fuse(popular, rated, core.DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, fused, 1)
	assert.Equal(t, "1995", fused[0].Year)
	assert.Equal(t, []string{"Crime"}, fused[0].Genres)
	assert.Equal(t, 2, fused[0].RatingRank)
}

func TestFuse_DuplicateTitleLastRowWins(t *testing.T) {
	popular := []core.MovieRecord{pop("Heat", 1), pop("Up", 2), pop("Heat", 3)}

	fused, err := Fuse(popular, nil, core.DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, fused, 2)
	assert.Equal(t, 3, byTitle(fused)["Heat"].PopularityRank)
}

func TestFuse_NormalizedKeys(t *testing.T) {
	popular := []core.MovieRecord{pop("Se7en:", 1)}
	rated := []core.MovieRecord{rat("Se7en", 1)}

	fused, err := Fuse(popular, rated, core.DefaultPolicy())
	require.NoError(t, err)
	assert.Len(t, fused, 2, "raw titles join exactly by default")

	policy := core.DefaultPolicy()
	policy.NormalizeFusionKeys = true
	fused, err = Fuse(popular, rated, policy)
	require.NoError(t, err)
	require.Len(t, fused, 1)
	assert.Equal(t, "Se7en:", fused[0].Title)
	assert.InDelta(t, 1.0, fused[0].FinalScore, 1e-9)
}

func TestFuse_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		popular []core.MovieRecord
		rated   []core.MovieRecord
	}{
		{name: "empty title", popular: []core.MovieRecord{pop("", 1)}},
		{name: "missing popularity rank", popular: []core.MovieRecord{pop("Heat", 0)}},
		{name: "missing rating rank", rated: []core.MovieRecord{rat("Heat", 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fuse(tt.popular, tt.rated, core.DefaultPolicy())
			assert.True(t, core.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestFuse_Empty(t *testing.T) {
	fused, err := Fuse(nil, nil, core.DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, fused)
}
