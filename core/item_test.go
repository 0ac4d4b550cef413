package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerank/pkg/utils"
)

func TestGenreSet(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		want   []string
	}{
		{name: "nil", genres: nil, want: nil},
		{name: "sorted and deduped", genres: []string{"Thriller", "Crime", "Thriller"}, want: []string{"Crime", "Thriller"}},
		{name: "blank entries dropped", genres: []string{" Drama ", "", "  "}, want: []string{"Drama"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenreSet(tt.genres))
		})
	}
}

func TestNewItems(t *testing.T) {
	ranking := []*FusedMovie{
		{MovieRecord: MovieRecord{Title: "Se7en:", Genres: []string{"Thriller", "Crime"}}, FinalScore: 3, FinalRank: 1},
		nil,
		{MovieRecord: MovieRecord{Title: "Heat"}, FinalScore: 5, FinalRank: 2},
	}
	items := NewItems(ranking)
	require.Len(t, items, 2)
	assert.Equal(t, "se7en", items[0].ID)
	assert.Equal(t, 3.0, items[0].Score)
	assert.Equal(t, []string{"Crime", "Thriller"}, items[0].SortedGenres())
	assert.Equal(t, []string{"Thriller", "Crime"}, ranking[0].Genres, "record genres must stay untouched")
	assert.Nil(t, items[1].SortedGenres())
}

func TestItem_PutLabelMerges(t *testing.T) {
	it := NewItem(&FusedMovie{MovieRecord: MovieRecord{Title: "Heat"}})
	it.PutLabel("rank_boost", utils.Label{Value: "Crime", Source: "rank"})
	it.PutLabel("rank_boost", utils.Label{Value: "Drama", Source: "rank"})

	lbl := it.Labels["rank_boost"]
	assert.Equal(t, "Crime|Drama", lbl.Value)
	assert.Equal(t, "rank", lbl.Source)
}

func TestValidRatings(t *testing.T) {
	rated := []RatedMovie{
		{Title: "A", Rating: 4, HasRating: true},
		{Title: "B"},
		{Title: "C", Rating: 0, HasRating: true},
	}
	valid := ValidRatings(rated)
	require.Len(t, valid, 2)
	assert.Equal(t, "A", valid[0].Title)
	assert.Equal(t, "C", valid[1].Title)
}
