package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerank/core"
)

func items(genres ...[]string) []*core.Item {
	out := make([]*core.Item, 0, len(genres))
	for i, g := range genres {
		out = append(out, core.NewItem(&core.FusedMovie{
			MovieRecord: core.MovieRecord{Title: string(rune('A' + i)), Genres: g},
			FinalScore:  float64(i),
		}))
	}
	return out
}

func TestTopNNode(t *testing.T) {
	pool := items(nil, nil, nil)
	policy := core.DefaultPolicy()

	tests := []struct {
		name string
		node *TopNNode
		rctx *core.RecommendContext
		want int
	}{
		{name: "pool smaller than policy top n", node: &TopNNode{}, rctx: &core.RecommendContext{Policy: policy}, want: 3},
		{name: "explicit n", node: &TopNNode{N: 2}, rctx: &core.RecommendContext{Policy: policy}, want: 2},
		{name: "pool smaller than explicit n", node: &TopNNode{N: 25}, want: 3},
		{name: "no limit anywhere", node: &TopNNode{}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.node.Process(context.Background(), tt.rctx, pool)
			require.NoError(t, err)
			assert.Len(t, out, tt.want)
		})
	}
}

func TestTopNNode_KeepsOrder(t *testing.T) {
	policy := core.DefaultPolicy()
	policy.TopN = 2
	out, err := (&TopNNode{}).Process(context.Background(), &core.RecommendContext{Policy: policy}, items(nil, nil, nil))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Movie.Title)
	assert.Equal(t, "B", out[1].Movie.Title)
}

func TestGenreCap(t *testing.T) {
	pool := items(
		[]string{"Drama", "Crime"},
		[]string{"Crime"},
		nil,
		[]string{"Drama"},
		[]string{"Crime", "Thriller"},
	)
	out, err := (&GenreCap{MaxPerGenre: 1}).Process(context.Background(), nil, pool)
	require.NoError(t, err)

	titles := make([]string, 0, len(out))
	for _, it := range out {
		titles = append(titles, it.Movie.Title)
	}
	// A 与 B、E 的主类型都是 Crime
	assert.Equal(t, []string{"A", "C", "D"}, titles)
	assert.Equal(t, "Crime", out[0].Labels["primary_genre"].Value)
}

func TestGenreCap_Disabled(t *testing.T) {
	pool := items([]string{"Drama"}, []string{"Drama"})
	out, err := (&GenreCap{}).Process(context.Background(), nil, pool)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
