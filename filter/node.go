package filter

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/pipeline"
	"github.com/rushteam/cinerank/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该候选就会被过滤掉。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	filtered := make(map[string]int, len(n.Filters))

	for _, item := range items {
		if item == nil {
			continue
		}

		reason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				log.Warn().Err(err).Str("filter", f.Name()).Str("title", item.Movie.Title).Msg("filter failed, keeping item")
				continue
			}
			if ok {
				reason = f.Name()
				break
			}
		}

		if reason != "" {
			filtered[reason]++
			item.PutLabel("filtered", utils.Label{Value: "true", Source: reason})
			continue
		}

		out = append(out, item)
	}

	for name, count := range filtered {
		log.Debug().Str("filter", name).Int("filtered", count).Msg("items filtered")
	}
	return out, nil
}
