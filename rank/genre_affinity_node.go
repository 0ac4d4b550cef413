package rank

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/pipeline"
	"github.com/rushteam/cinerank/pkg/utils"
)

// GenreAffinityNode 按用户的相对类型偏好对候选的融合分数做乘性调权，
// 然后按调权后的分数升序排序（越低越好，分数相同保持输入顺序）。
// - 写入 labels：rank_boost / rank_penalty / rank_unknown（命中的类型）
type GenreAffinityNode struct {
	// Policy 为 nil 时使用 rctx.Policy
	Policy *core.Policy
}

func (n *GenreAffinityNode) Name() string        { return "rank.genre_affinity" }
func (n *GenreAffinityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *GenreAffinityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	policy := core.DefaultPolicy()
	var relative core.RelativeGenreScore
	if rctx != nil {
		policy = rctx.Policy
		relative = rctx.Relative
	}
	if n.Policy != nil {
		policy = *n.Policy
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Movie == nil {
			continue
		}
		it.Score = Adjust(it, relative, policy)
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out, nil
}

// Adjust 计算单个候选的 adjusted_score：
//  1. 从 final_score 开始
//  2. 按字典序遍历类型，第 i 个类型的位置权重 w = 1/(i+1)，阻尼后 dw = 1 + (w-1)*Dampening
//  3. 相对分 >= 1：除以 (BoostBase*score)^(dw*(0.5+weight))，提升
//  4. 相对分 <  1：除以 (PenaltyBase*score)^(dw*(0.5+weight))，除数 < 1，等价于惩罚
//  5. 画像中没有该类型（或相对分为 0）：乘以 UnknownGenreBase^dw
//  6. 保留 Precision 位小数
func Adjust(it *core.Item, relative core.RelativeGenreScore, policy core.Policy) float64 {
	score := it.Movie.FinalScore
	for i, genre := range it.SortedGenres() {
		w := 1 / float64(i+1)
		dw := 1 + (w-1)*policy.Dampening

		rs, ok := relative.Lookup(genre)
		if !ok {
			score *= math.Pow(policy.UnknownGenreBase, dw)
			it.PutLabel("rank_unknown", utils.Label{Value: genre, Source: "rank"})
			continue
		}
		exp := dw * (0.5 + rs.Weight)
		if rs.Score >= 1 {
			score /= math.Pow(policy.BoostBase*rs.Score, exp)
			it.PutLabel("rank_boost", utils.Label{Value: genre, Source: "rank"})
		} else {
			score /= math.Pow(policy.PenaltyBase*rs.Score, exp)
			it.PutLabel("rank_penalty", utils.Label{Value: genre, Source: "rank"})
		}
	}
	score = Round(score, policy.Precision)
	it.PutLabel("rank_model", utils.Label{Value: "genre_affinity", Source: "rank"})
	return score
}

// Round 按 digits 位小数四舍五入（远离零）。
func Round(v float64, digits int) float64 {
	if digits < 0 {
		return v
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
