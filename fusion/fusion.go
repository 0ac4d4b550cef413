// Package fusion 把“热度榜”和“评分榜”两份按片名索引的记录融合成一份统一排名。
package fusion

import (
	"sort"

	"github.com/rushteam/cinerank/core"
)

// index 保存一个来源中每个片名的记录与首次出现的位置。
// 同一片名重复出现时，后出现的记录覆盖前者，位置保持首次出现。
type index struct {
	keys    []string
	records map[string]core.MovieRecord
}

func buildIndex(records []core.MovieRecord, keyOf func(string) string) index {
	idx := index{
		keys:    make([]string, 0, len(records)),
		records: make(map[string]core.MovieRecord, len(records)),
	}
	for _, r := range records {
		k := keyOf(r.Title)
		if _, ok := idx.records[k]; !ok {
			idx.keys = append(idx.keys, k)
		}
		idx.records[k] = r
	}
	return idx
}

// Fuse 对两个来源的片名并集逐一生成 FusedMovie：
//   - 只在一个来源出现的片名，缺失的排名按 max_rank 补齐（两个来源中较大的条目数）
//   - 片名/年份/类型优先取热度来源
//   - final_score = PopularityWeight*popularity_rank + RatingWeight*rating_rank，越低越好
//   - 按 final_score 升序，其次有效热度排名、片名，最后保持输入顺序（稳定排序）
//
// 输出不截断，final_rank 为 1..N 的连续排名。
func Fuse(popular, rated []core.MovieRecord, policy core.Policy) ([]*core.FusedMovie, error) {
	for i, r := range popular {
		if r.Title == "" {
			return nil, core.InvalidInput(core.ModuleFusion, nil, "popularity row %d: empty title", i+1)
		}
		if !r.HasPopularityRank() {
			return nil, core.InvalidInput(core.ModuleFusion, nil, "popularity row %d (%q): missing popularity_rank", i+1, r.Title)
		}
	}
	for i, r := range rated {
		if r.Title == "" {
			return nil, core.InvalidInput(core.ModuleFusion, nil, "rating row %d: empty title", i+1)
		}
		if !r.HasRatingRank() {
			return nil, core.InvalidInput(core.ModuleFusion, nil, "rating row %d (%q): missing rating_rank", i+1, r.Title)
		}
	}

	keyOf := func(title string) string { return title }
	if policy.NormalizeFusionKeys {
		keyOf = core.NormalizeTitle
	}

	pop := buildIndex(popular, keyOf)
	rat := buildIndex(rated, keyOf)

	maxRank := len(pop.keys)
	if len(rat.keys) > maxRank {
		maxRank = len(rat.keys)
	}

	// 输入顺序：热度来源顺序，然后是只在评分来源中出现的片名
	order := make([]string, 0, len(pop.keys)+len(rat.keys))
	order = append(order, pop.keys...)
	for _, k := range rat.keys {
		if _, ok := pop.records[k]; !ok {
			order = append(order, k)
		}
	}

	fused := make([]*core.FusedMovie, 0, len(order))
	for _, k := range order {
		p, inPop := pop.records[k]
		r, inRat := rat.records[k]

		base := p
		if !inPop {
			base = r
		}
		m := &core.FusedMovie{
			MovieRecord: core.MovieRecord{
				Title:  base.Title,
				Year:   base.Year,
				Genres: base.Genres,
			},
		}
		if inPop {
			m.PopularityRank = p.PopularityRank
		}
		if inRat {
			m.RatingRank = r.RatingRank
		}
		m.FinalScore = Score(m.MovieRecord, maxRank, policy)
		fused = append(fused, m)
	}

	sort.SliceStable(fused, func(i, j int) bool {
		a, b := fused[i], fused[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore < b.FinalScore
		}
		ap, bp := effectiveRank(a.PopularityRank, maxRank), effectiveRank(b.PopularityRank, maxRank)
		if ap != bp {
			return ap < bp
		}
		return a.Title < b.Title
	})
	for i, m := range fused {
		m.FinalRank = i + 1
	}
	return fused, nil
}

// Score 计算单条记录的融合分数，缺失的排名按 maxRank 计。
func Score(r core.MovieRecord, maxRank int, policy core.Policy) float64 {
	popRank := effectiveRank(r.PopularityRank, maxRank)
	ratRank := effectiveRank(r.RatingRank, maxRank)
	return policy.PopularityWeight*float64(popRank) + policy.RatingWeight*float64(ratRank)
}

func effectiveRank(rank, maxRank int) int {
	if rank <= 0 {
		return maxRank
	}
	return rank
}
