package filter

import (
	"context"

	"github.com/rushteam/cinerank/core"
)

// BlacklistFilter 是片名黑名单过滤器，比较前对两边都做 NormalizeTitle。
type BlacklistFilter struct {
	titles map[string]struct{}
}

// NewBlacklistFilter 创建一个片名黑名单过滤器。
func NewBlacklistFilter(titles []string) *BlacklistFilter {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if n := core.NormalizeTitle(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return &BlacklistFilter{titles: set}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.titles[item.ID]
	return ok, nil
}
