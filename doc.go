// Package cinerank 是一个电影榜单融合与个性化推荐工具包。
//
// 设计要点：
// - 融合与推荐分离：fusion 产出与用户无关的融合排名，recommend 在其之上做个性化
// - Pipeline-first: 推荐逻辑通过 Node 串联（Filter → Rank → ReRank）
// - 外部数据源（评分历史、类型元数据）失败不会中断打分，只会让数据变少
package cinerank

import "github.com/rushteam/cinerank/pipeline"

// 轻量 facade：便于用户直接 import "cinerank" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
