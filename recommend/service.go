// Package recommend 串起个性化推荐：校验前置条件、学习类型画像、执行推荐 Pipeline。
package recommend

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/filter"
	"github.com/rushteam/cinerank/pipeline"
	"github.com/rushteam/cinerank/profile"
	"github.com/rushteam/cinerank/rank"
	"github.com/rushteam/cinerank/rerank"
)

// Request 是一次推荐的输入。
type Request struct {
	UserID  string
	Rated   []core.RatedMovie
	Ranking []*core.FusedMovie

	// TopN <= 0 时使用 Policy.TopN
	TopN int
}

// Result 是推荐结果以及中间画像（用于展示）。
type Result struct {
	RunID         string
	RatedCount    int
	AverageRating float64
	Profile       core.GenreProfile
	Relative      core.RelativeGenreScore
	Items         []*core.Item
}

// Service 执行推荐。Pipeline 为 nil 时使用 DefaultPipeline。
type Service struct {
	Policy   core.Policy
	Pipeline *pipeline.Pipeline
}

// New 创建推荐服务。
func New(policy core.Policy, p *pipeline.Pipeline) *Service {
	if p == nil {
		p = DefaultPipeline()
	}
	return &Service{Policy: policy, Pipeline: p}
}

// Options 调整默认链路。
type Options struct {
	// Exclude 追加在已看过滤之后的过滤器
	Exclude []filter.Filter
	// MaxPerGenre > 0 时在截断前按主类型限量
	MaxPerGenre int
}

// DefaultPipeline 返回默认链路：已看过滤(+额外过滤器) -> 类型调权排序 -> TopN。
func DefaultPipeline(extra ...filter.Filter) *pipeline.Pipeline {
	return NewPipeline(Options{Exclude: extra})
}

// NewPipeline 按 Options 组装链路。
func NewPipeline(opts Options) *pipeline.Pipeline {
	filters := append([]filter.Filter{&filter.WatchedFilter{}}, opts.Exclude...)
	nodes := []pipeline.Node{
		&filter.FilterNode{Filters: filters},
		&rank.GenreAffinityNode{},
	}
	if opts.MaxPerGenre > 0 {
		nodes = append(nodes, &rerank.GenreCap{MaxPerGenre: opts.MaxPerGenre})
	}
	nodes = append(nodes, &rerank.TopNNode{})
	return &pipeline.Pipeline{Nodes: nodes}
}

// Recommend 先校验前置条件，再计算画像并运行 Pipeline。
// 没有有效评分或融合排名为空时返回 MISSING_PRECONDITION，不做任何打分。
// 无论 Pipeline 如何配置，输出都不含已看片名，且不超过 TopN 条。
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	valid := core.ValidRatings(req.Rated)
	if len(valid) == 0 {
		return nil, core.MissingPrecondition(core.ModuleRecommend, "user %q has no valid ratings", req.UserID)
	}
	if len(req.Ranking) == 0 {
		return nil, core.MissingPrecondition(core.ModuleRecommend, "fused ranking is empty")
	}

	average := profile.AverageRating(valid)
	genreProfile := profile.Build(valid)
	relative, err := profile.Relative(genreProfile, average, s.Policy)
	if err != nil {
		return nil, err
	}

	policy := s.Policy
	if req.TopN > 0 {
		policy.TopN = req.TopN
	}
	rctx := &core.RecommendContext{
		UserID:        req.UserID,
		RunID:         uuid.New().String(),
		Watched:       core.WatchedSet(req.Rated),
		Profile:       genreProfile,
		Relative:      relative,
		AverageRating: average,
		Policy:        policy,
	}

	items, err := s.Pipeline.Run(ctx, rctx, core.NewItems(req.Ranking))
	if err != nil {
		return nil, err
	}
	items = finalize(rctx, items)

	log.Info().
		Str("run", rctx.RunID).
		Str("user", req.UserID).
		Int("rated", len(valid)).
		Int("genres", len(genreProfile)).
		Float64("average", average).
		Int("candidates", len(req.Ranking)).
		Int("results", len(items)).
		Msg("recommendations ready")

	return &Result{
		RunID:         rctx.RunID,
		RatedCount:    len(valid),
		AverageRating: average,
		Profile:       genreProfile,
		Relative:      relative,
		Items:         items,
	}, nil
}

// finalize 在 Pipeline 之后再次剔除已看片名并按 Policy.TopN 截断，
// 自定义链路缺少 watched 过滤或 rerank.topn 时结果仍然成立。
func finalize(rctx *core.RecommendContext, items []*core.Item) []*core.Item {
	out := items[:0]
	for _, it := range items {
		if it == nil || it.Movie == nil || rctx.HasWatched(it.Movie.Title) {
			continue
		}
		out = append(out, it)
	}
	if n := rctx.Policy.TopN; n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
