// Package profile 从用户的历史评分学习类型画像，并换算成相对用户平均分的偏好。
package profile

import (
	"github.com/rushteam/cinerank/core"
)

// Build 为用户生成类型画像：每个 (电影, 类型) 对把评分计入该类型，
// 最后得到每个类型的平均分与样本数。评分缺失的记录被忽略；
// 没有类型的电影不计入任何类型（但仍计入 AverageRating）。
func Build(rated []core.RatedMovie) core.GenreProfile {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, m := range rated {
		if !m.HasRating {
			continue
		}
		for _, g := range core.GenreSet(m.Genres) {
			sums[g] += m.Rating
			counts[g]++
		}
	}

	p := make(core.GenreProfile, len(counts))
	for g, n := range counts {
		p[g] = core.GenreStat{Score: sums[g] / float64(n), Count: n}
	}
	return p
}

// AverageRating 返回全部有效评分的均值，没有有效评分时返回 0。
func AverageRating(rated []core.RatedMovie) float64 {
	var sum float64
	n := 0
	for _, m := range rated {
		if !m.HasRating {
			continue
		}
		sum += m.Rating
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
