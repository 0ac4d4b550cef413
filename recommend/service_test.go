package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/filter"
	"github.com/rushteam/cinerank/pipeline"
	"github.com/rushteam/cinerank/rank"
)

func fused(title string, score float64, genres ...string) *core.FusedMovie {
	return &core.FusedMovie{MovieRecord: core.MovieRecord{Title: title, Genres: genres}, FinalScore: score}
}

func rated(title string, rating float64, genres ...string) core.RatedMovie {
	return core.RatedMovie{Title: title, Genres: genres, Rating: rating, HasRating: true}
}

func titles(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Movie.Title)
	}
	return out
}

func TestRecommend(t *testing.T) {
	svc := New(core.DefaultPolicy(), nil)
	res, err := svc.Recommend(context.Background(), Request{
		UserID: "alice",
		Rated: []core.RatedMovie{
			rated("A", 4.0, "Drama"),
			rated("B", 2.0, "Drama", "Comedy"),
			rated("Se7en", 5.0, "Crime"),
		},
		Ranking: []*core.FusedMovie{
			fused("Se7en:", 1, "Crime"),
			fused("Funny", 2, "Comedy"),
			fused("Sad", 4, "Drama"),
			fused("Cowboys", 3, "Western"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.RatedCount)
	assert.InDelta(t, 11.0/3.0, res.AverageRating, 1e-12)
	assert.Equal(t, core.GenreStat{Score: 3.0, Count: 2}, res.Profile["Drama"])
	assert.NotEmpty(t, res.RunID)

	// Se7en 已看；Drama 相对分 3/(11/3) < 1 仍比未知类型的 Western 惩罚轻
	assert.NotContains(t, titles(res.Items), "Se7en:")
	require.Len(t, res.Items, 3)
	for i := 1; i < len(res.Items); i++ {
		assert.LessOrEqual(t, res.Items[i-1].Score, res.Items[i].Score)
	}
}

func TestRecommend_TopN(t *testing.T) {
	ranking := make([]*core.FusedMovie, 0, 30)
	for i := 0; i < 30; i++ {
		ranking = append(ranking, fused(string(rune('A'+i)), float64(i+1)))
	}
	req := Request{UserID: "u", Rated: []core.RatedMovie{rated("Other", 3)}, Ranking: ranking}
	svc := New(core.DefaultPolicy(), nil)

	res, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Items, 25)

	req.TopN = 5
	res, err = svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, titles(res.Items))

	req.TopN = 25
	req.Ranking = ranking[:3]
	res, err = svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
}

func TestRecommend_Preconditions(t *testing.T) {
	svc := New(core.DefaultPolicy(), nil)
	tests := []struct {
		name string
		req  Request
	}{
		{name: "no ratings", req: Request{Ranking: []*core.FusedMovie{fused("A", 1)}}},
		{name: "only unparseable ratings", req: Request{
			Rated:   []core.RatedMovie{{Title: "A"}},
			Ranking: []*core.FusedMovie{fused("B", 1)},
		}},
		{name: "empty ranking", req: Request{Rated: []core.RatedMovie{rated("A", 3)}}},
		{name: "all ratings zero", req: Request{
			Rated:   []core.RatedMovie{rated("A", 0)},
			Ranking: []*core.FusedMovie{fused("B", 1)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Recommend(context.Background(), tt.req)
			assert.True(t, core.IsMissingPrecondition(err), "got %v", err)
		})
	}
}

func TestRecommend_WatchedIncludesUnratedEntries(t *testing.T) {
	svc := New(core.DefaultPolicy(), nil)
	res, err := svc.Recommend(context.Background(), Request{
		Rated:   []core.RatedMovie{rated("A", 4), {Title: "Heat"}},
		Ranking: []*core.FusedMovie{fused("Heat", 1), fused("Up", 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Up"}, titles(res.Items))
}

func TestNewPipeline_Options(t *testing.T) {
	exclude, err := filter.NewExprFilter(`"Horror" in movie.genres`)
	require.NoError(t, err)
	p := NewPipeline(Options{Exclude: []filter.Filter{exclude}, MaxPerGenre: 1})
	require.Len(t, p.Nodes, 4)

	res, err := New(core.DefaultPolicy(), p).Recommend(context.Background(), Request{
		Rated: []core.RatedMovie{rated("A", 4, "Drama")},
		Ranking: []*core.FusedMovie{
			fused("Alien", 1, "Horror"),
			fused("Ran", 2, "Drama"),
			fused("Ikiru", 3, "Drama"),
			fused("Up", 4, "Animation"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ran", "Up"}, titles(res.Items))
}

func TestRecommend_CustomPipelineKeepsGuarantees(t *testing.T) {
	// 只有排序节点：没有 watched 过滤，也没有 rerank.topn
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{&rank.GenreAffinityNode{}}}
	svc := New(core.DefaultPolicy(), p)

	req := Request{
		UserID: "bob",
		Rated: []core.RatedMovie{
			rated("Se7en:", 5, "Crime"),
			rated("Heat", 3, "Crime"),
		},
		Ranking: []*core.FusedMovie{
			fused("se7en", 1, "Crime"),
			fused("Ran", 2, "Drama"),
			fused("Up", 3, "Animation"),
		},
		TopN: 1,
	}
	res, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ran"}, titles(res.Items))

	req.TopN = 0
	res, err = svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ran", "Up"}, titles(res.Items))
}
