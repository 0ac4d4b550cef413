package rerank

import (
	"context"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/pipeline"
)

// TopNNode 在排序之后截取前 N 个候选。
// 候选不足 N 个时原样返回，不视为错误。
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &filter.FilterNode{...},
//	        &rank.GenreAffinityNode{},
//	        &rerank.TopNNode{N: 25},
//	    },
//	}
type TopNNode struct {
	// N 要保留的数量；N <= 0 时使用 rctx.Policy.TopN，仍 <= 0 则不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Policy.TopN
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
