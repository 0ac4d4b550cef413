package filter

import (
	"context"

	"github.com/rushteam/cinerank/core"
)

// WatchedFilter 过滤掉用户已经评过分的电影。
// 片名按 core.NormalizeTitle 规范化后与 rctx.Watched 比较，
// 无论候选的调权分数多高都会被剔除。
type WatchedFilter struct{}

func (f *WatchedFilter) Name() string {
	return "filter.watched"
}

func (f *WatchedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Movie == nil {
		return true, nil
	}
	return rctx.HasWatched(item.Movie.Title), nil
}
