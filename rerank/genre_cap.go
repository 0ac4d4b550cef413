package rerank

import (
	"context"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/pipeline"
	"github.com/rushteam/cinerank/pkg/utils"
)

// GenreCap 是一个简单的多样性重排：每个主类型（字典序第一个类型）最多保留 MaxPerGenre 个候选，
// 超出的候选被丢弃，保持原有顺序。没有类型的候选不受限制。
type GenreCap struct {
	MaxPerGenre int // <= 0 时不做限制
}

func (n *GenreCap) Name() string {
	return "rerank.genre_cap"
}

func (n *GenreCap) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *GenreCap) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.MaxPerGenre <= 0 || len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		genres := it.SortedGenres()
		if len(genres) == 0 {
			out = append(out, it)
			continue
		}
		primary := genres[0]
		if seen[primary] >= n.MaxPerGenre {
			continue
		}
		seen[primary]++
		it.PutLabel("primary_genre", utils.Label{Value: primary, Source: "rerank"})
		out = append(out, it)
	}

	return out, nil
}
