package core

import "sort"

// GenreStat 是用户在某个类型上的统计：平均评分与样本数（>=1）。
type GenreStat struct {
	Score float64
	Count int
}

// GenreProfile 是用户的类型画像：类型名 -> 统计。
// 一部多类型电影的评分会计入它的每一个类型。
type GenreProfile map[string]GenreStat

// MaxCount 返回画像中最大的样本数，空画像返回 0。
func (p GenreProfile) MaxCount() int {
	maxCount := 0
	for _, s := range p {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}
	return maxCount
}

// GenreEntry 是画像排序输出中的一项。
type GenreEntry struct {
	Genre string
	GenreStat
}

// Ranked 按平均评分降序返回画像，分数相同按类型名升序，用于展示。
func (p GenreProfile) Ranked() []GenreEntry {
	out := make([]GenreEntry, 0, len(p))
	for g, s := range p {
		out = append(out, GenreEntry{Genre: g, GenreStat: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// RelativeScore 是某类型相对用户整体平均分的偏好：
//   - Score：类型平均分 / 用户平均分，>=1 表示高于平均
//   - Weight：置信度，范围 [0.5, 1.0]，随样本数亚线性增长
type RelativeScore struct {
	Score  float64
	Weight float64
}

// RelativeGenreScore 是类型 -> 相对偏好的映射。
type RelativeGenreScore map[string]RelativeScore

// Lookup 返回可用于调权的条目。相对分为 0（或更小）的条目按“没有条目”处理，
// 避免对非正数底数做分数次幂。
func (r RelativeGenreScore) Lookup(genre string) (RelativeScore, bool) {
	s, ok := r[genre]
	if !ok || s.Score <= 0 {
		return RelativeScore{}, false
	}
	return s, true
}
