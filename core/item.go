package core

import (
	"sort"
	"strings"

	"github.com/rushteam/cinerank/pkg/utils"
)

// MovieRecord 是来源榜单中的一行：片名、年份、类型集合，以及热度排名或评分排名之一。
// 排名为 0 表示缺失（排名本身从 1 开始）。
type MovieRecord struct {
	Title          string
	Year           string
	Genres         []string
	PopularityRank int
	RatingRank     int
}

// HasPopularityRank 表示热度榜单中是否出现过该片。
func (m MovieRecord) HasPopularityRank() bool { return m.PopularityRank > 0 }

// HasRatingRank 表示评分榜单中是否出现过该片。
func (m MovieRecord) HasRatingRank() bool { return m.RatingRank > 0 }

// FusedMovie 是融合后的一条排名记录，分数越低越好。
// 融合完成后不再修改；推荐阶段只读。
type FusedMovie struct {
	MovieRecord
	FinalScore float64
	FinalRank  int
}

// RatedMovie 是用户评过分的一部电影。评分范围 0-5，步长 0.5。
// HasRating 为 false 表示评分无法解析，进入画像之前会被剔除。
type RatedMovie struct {
	Title     string
	Year      string
	Genres    []string
	Rating    float64
	HasRating bool
}

// ValidRatings 过滤掉评分缺失的记录。
func ValidRatings(rated []RatedMovie) []RatedMovie {
	out := make([]RatedMovie, 0, len(rated))
	for _, m := range rated {
		if m.HasRating {
			out = append(out, m)
		}
	}
	return out
}

// Item 是推荐 Pipeline 中流转的候选电影：融合记录 + 个性化调整后的分数 + 标签。
// Score 即 adjusted_score，越低越好。
type Item struct {
	ID     string // 规范化片名
	Movie  *FusedMovie
	Score  float64
	Labels map[string]utils.Label
}

func NewItem(movie *FusedMovie) *Item {
	return &Item{
		ID:     NormalizeTitle(movie.Title),
		Movie:  movie,
		Score:  movie.FinalScore,
		Labels: make(map[string]utils.Label),
	}
}

// NewItems 把融合排名转换为候选列表，保持原顺序。
func NewItems(ranking []*FusedMovie) []*Item {
	items := make([]*Item, 0, len(ranking))
	for _, m := range ranking {
		if m == nil {
			continue
		}
		items = append(items, NewItem(m))
	}
	return items
}

// SortedGenres 返回去重后按字典序排列的类型副本，不修改原记录。
func (it *Item) SortedGenres() []string {
	if it.Movie == nil {
		return nil
	}
	return GenreSet(it.Movie.Genres)
}

// GenreSet 去掉空白与重复项，并按字典序返回类型集合。
func GenreSet(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
