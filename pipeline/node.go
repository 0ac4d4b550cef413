package pipeline

import (
	"context"

	"github.com/rushteam/cinerank/core"
)

// Kind 用于标记 Node 类型，方便观测/编排。
type Kind string

const (
	KindFilter Kind = "filter" // 过滤阶段：剔除已看/不符合规则的候选
	KindRank   Kind = "rank"   // 排序阶段：按用户画像调权并排序
	KindReRank Kind = "rerank" // 重排阶段：截断/多样性
)

// Node 是 Pipeline 的最小可扩展单元，统一采用“输入 items -> 输出 items”的形态。
// Node 不应修改 items 中的 Movie（融合记录只读），只能改 Score 与 Labels。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(map[string]interface{}) (Node, error)
