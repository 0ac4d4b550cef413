// Package dsl 提供基于 CEL (Common Expression Language) 的候选规则表达式。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/cinerank/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("movie", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("user", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的表达式，可并发复用。
//
// 可用变量：
//   - movie.title / movie.year / movie.genres / movie.popularity_rank / movie.rating_rank
//     movie.final_score / movie.final_rank / movie.score（调权后的分数）
//   - label.<key>：候选上的 label 值
//   - user.id / user.average_rating / user.genres（画像中出现过的类型）
//
// 缺失的排名为 0。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式返回错误。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对一个候选求值，表达式必须返回布尔值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]interface{} {
	movie := map[string]interface{}{}
	labels := map[string]interface{}{}
	if item != nil {
		movie["score"] = item.Score
		if m := item.Movie; m != nil {
			genres := m.Genres
			if genres == nil {
				genres = []string{}
			}
			movie["title"] = m.Title
			movie["year"] = m.Year
			movie["genres"] = genres
			movie["popularity_rank"] = int64(m.PopularityRank)
			movie["rating_rank"] = int64(m.RatingRank)
			movie["final_score"] = m.FinalScore
			movie["final_rank"] = int64(m.FinalRank)
		}
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
	}

	user := map[string]interface{}{
		"id":             "",
		"average_rating": 0.0,
		"genres":         []string{},
	}
	if rctx != nil {
		genres := make([]string, 0, len(rctx.Profile))
		for g := range rctx.Profile {
			genres = append(genres, g)
		}
		user["id"] = rctx.UserID
		user["average_rating"] = rctx.AverageRating
		user["genres"] = genres
	}

	return map[string]interface{}{
		"movie": movie,
		"label": labels,
		"user":  user,
	}
}
