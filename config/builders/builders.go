package builders

import (
	"fmt"

	"github.com/rushteam/cinerank/config"
	"github.com/rushteam/cinerank/filter"
	"github.com/rushteam/cinerank/pipeline"
	"github.com/rushteam/cinerank/pkg/conv"
	"github.com/rushteam/cinerank/rank"
	"github.com/rushteam/cinerank/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rank.genre_affinity", BuildGenreAffinityNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.genre_cap", BuildGenreCapNode)
}

// BuildFilterNode 支持的过滤器：watched、blacklist(titles)、expr(expr)。
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "watched":
			filters = append(filters, &filter.WatchedFilter{})
		case "blacklist":
			filters = append(filters, filter.NewBlacklistFilter(conv.SliceAnyToString(filterMap["titles"])))
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, fmt.Errorf("expr filter: %w", err)
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildGenreAffinityNode(map[string]interface{}) (pipeline.Node, error) {
	return &rank.GenreAffinityNode{}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildGenreCapNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "max_per_genre", 0)
	if n <= 0 {
		return nil, fmt.Errorf("max_per_genre must be positive")
	}
	return &rerank.GenreCap{MaxPerGenre: int(n)}, nil
}
