package core

import "github.com/rushteam/cinerank/pkg/utils"

// RecommendContext 承载一次推荐请求的用户级数据，贯穿整个 Pipeline 只读透传。
type RecommendContext struct {
	// UserID 是用户名（例如 Letterboxd 用户名）
	UserID string

	// RunID 标识一次运行，用于日志关联
	RunID string

	// Watched 是规范化后的已看片名集合
	Watched map[string]struct{}

	// Profile 是类型画像，Relative 是相对偏好
	Profile  GenreProfile
	Relative RelativeGenreScore

	// AverageRating 是用户全部有效评分的均值
	AverageRating float64

	// Policy 是本次运行使用的打分策略
	Policy Policy

	// Labels 是用户级标签
	Labels map[string]utils.Label

	// Params 请求级参数
	Params map[string]any
}

// HasWatched 检查片名（任意写法）是否在已看集合中。
func (rctx *RecommendContext) HasWatched(title string) bool {
	if rctx == nil || len(rctx.Watched) == 0 {
		return false
	}
	_, ok := rctx.Watched[NormalizeTitle(title)]
	return ok
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
