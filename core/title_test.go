package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "trailing colon", title: "Se7en:", want: "se7en"},
		{name: "colon and hyphen", title: "Spider-Man: No Way Home", want: "spider man no way home"},
		{name: "collapse whitespace", title: "  The   Matrix ", want: "the matrix"},
		{name: "already normalized", title: "heat", want: "heat"},
		{name: "empty", title: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.title))
		})
	}
}

func TestNormalizeTitle_Idempotent(t *testing.T) {
	for _, title := range []string{"Se7en:", "Spider-Man: Across the Spider-Verse", "Mission: Impossible - Fallout"} {
		once := NormalizeTitle(title)
		assert.Equal(t, once, NormalizeTitle(once), title)
	}
}

func TestWatchedSet(t *testing.T) {
	set := WatchedSet([]RatedMovie{
		{Title: "Se7en", Rating: 4, HasRating: true},
		{Title: "Spider-Man: No Way Home", HasRating: false},
	})
	assert.Len(t, set, 2)
	assert.Contains(t, set, "se7en")
	assert.Contains(t, set, "spider man no way home")
}
