package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerank/core"
)

func rated(title string, rating float64, genres ...string) core.RatedMovie {
	return core.RatedMovie{Title: title, Genres: genres, Rating: rating, HasRating: true}
}

func TestBuild(t *testing.T) {
	p := Build([]core.RatedMovie{
		rated("A", 4.0, "Drama"),
		rated("B", 2.0, "Drama", "Comedy"),
	})
	assert.Equal(t, core.GenreProfile{
		"Drama":  {Score: 3.0, Count: 2},
		"Comedy": {Score: 2.0, Count: 1},
	}, p)
}

func TestBuild_SkipsMissingRatingsAndGenres(t *testing.T) {
	p := Build([]core.RatedMovie{
		rated("A", 5.0),
		{Title: "B", Genres: []string{"Horror"}},
		rated("C", 3.0, "Horror", "Horror"),
	})
	assert.Equal(t, core.GenreProfile{"Horror": {Score: 3.0, Count: 1}}, p)
	assert.Empty(t, Build(nil))
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name  string
		rated []core.RatedMovie
		want  float64
	}{
		{name: "empty", want: 0},
		{name: "movies without genres still count", rated: []core.RatedMovie{rated("A", 4), rated("B", 2, "Drama")}, want: 3},
		{name: "missing ratings ignored", rated: []core.RatedMovie{rated("A", 5), {Title: "B"}}, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AverageRating(tt.rated), 1e-9)
		})
	}
}

func TestRelative(t *testing.T) {
	p := core.GenreProfile{
		"Drama":  {Score: 3.0, Count: 2},
		"Comedy": {Score: 2.0, Count: 1},
	}
	rel, err := Relative(p, 3.0, core.DefaultPolicy())
	require.NoError(t, err)

	drama := rel["Drama"]
	assert.Equal(t, 1.0, drama.Score, "boundary value stays exactly 1")
	assert.InDelta(t, 1.0, drama.Weight, 1e-12)

	comedy := rel["Comedy"]
	assert.InDelta(t, 2.0/3.0, comedy.Score, 1e-12)
	assert.InDelta(t, 0.5+0.5*math.Sqrt(0.5), comedy.Weight, 1e-12)
}

func TestRelative_WeightRange(t *testing.T) {
	p := core.GenreProfile{
		"Drama":   {Score: 4, Count: 100},
		"Western": {Score: 1, Count: 1},
	}
	rel, err := Relative(p, 3.5, core.DefaultPolicy())
	require.NoError(t, err)
	for g, s := range rel {
		assert.GreaterOrEqual(t, s.Weight, 0.5, g)
		assert.LessOrEqual(t, s.Weight, 1.0, g)
	}
	assert.InDelta(t, 0.55, rel["Western"].Weight, 1e-12)
}

func TestRelative_EmptyProfile(t *testing.T) {
	rel, err := Relative(core.GenreProfile{}, 3.0, core.DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, rel)
}

func TestRelative_NonPositiveAverage(t *testing.T) {
	_, err := Relative(core.GenreProfile{"Drama": {Score: 0, Count: 1}}, 0, core.DefaultPolicy())
	assert.True(t, core.IsMissingPrecondition(err))
}
