package filter

import (
	"context"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述排除规则，表达式为 true 的候选被过滤。
//
// 示例：
//   - `"Horror" in movie.genres`
//   - `movie.year != "" && int(movie.year) < 1970`
//   - `movie.rating_rank == 0`（只在热度榜出现）
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式，编译失败直接返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Movie == nil {
		return true, nil
	}
	return f.program.Eval(item, rctx)
}
