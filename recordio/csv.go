// Package recordio 是记录存储适配器：读写带表头的 CSV 榜单、评分与融合排名。
// 只做格式转换，不含任何排名逻辑。
package recordio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rushteam/cinerank/core"
)

// NotApplicable 是融合排名文件中缺失排名的占位符。
const NotApplicable = "N/A"

// GenreSeparator 是类型列的分隔符。
const GenreSeparator = ", "

// 列名
const (
	ColTitle          = "title"
	ColYear           = "year"
	ColGenres         = "genres"
	ColPopularityRank = "popularity_rank"
	ColRatingRank     = "rating_rank"
	ColRating         = "rating"
	ColFinalRank      = "final_rank"
	ColFinalScore     = "final_score"
)

// RankKind 区分来源榜单。
type RankKind string

const (
	Popularity RankKind = ColPopularityRank
	Rating     RankKind = ColRatingRank
)

// FusedHeader 是融合排名文件的列顺序。
var FusedHeader = []string{ColFinalRank, ColTitle, ColYear, ColGenres, ColPopularityRank, ColRatingRank, ColFinalScore}

// table 是按列名访问的 CSV 读取器。
type table struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.InvalidInput(core.ModuleRecordIO, nil, "empty input: missing header")
	}
	if err != nil {
		return nil, core.InvalidInput(core.ModuleRecordIO, err, "read header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[h] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, core.InvalidInput(core.ModuleRecordIO, nil, "missing required column %q", c)
		}
	}
	return &table{r: cr, cols: cols, line: 1}, nil
}

// next 返回下一行；读完返回 io.EOF。
func (t *table) next() ([]string, error) {
	row, err := t.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, core.InvalidInput(core.ModuleRecordIO, err, "line %d", t.line+1)
	}
	t.line++
	return row, nil
}

func (t *table) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rank 解析排名列：空值或 N/A 表示缺失（返回 0），非正整数报错。
func (t *table) rank(row []string, col string) (int, error) {
	v := t.get(row, col)
	if v == "" || v == NotApplicable {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, core.InvalidInput(core.ModuleRecordIO, err, "line %d: %s must be a positive integer, got %q", t.line, col, v)
	}
	return n, nil
}

// SplitGenres 把 "Drama, Comedy" 拆成类型集合。
func SplitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return core.GenreSet(strings.Split(s, ","))
}

// JoinGenres 把类型集合拼成一列。
func JoinGenres(genres []string) string {
	return strings.Join(genres, GenreSeparator)
}

// ReadSources 读取一份来源榜单（title, year, genres, popularity_rank|rating_rank）。
// 排名列非数字时整份输入无效。
func ReadSources(r io.Reader, kind RankKind) ([]core.MovieRecord, error) {
	t, err := newTable(r, ColTitle, string(kind))
	if err != nil {
		return nil, err
	}
	var out []core.MovieRecord
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		rank, err := t.rank(row, string(kind))
		if err != nil {
			return nil, err
		}
		m := core.MovieRecord{
			Title:  t.get(row, ColTitle),
			Year:   t.get(row, ColYear),
			Genres: SplitGenres(t.get(row, ColGenres)),
		}
		if kind == Popularity {
			m.PopularityRank = rank
		} else {
			m.RatingRank = rank
		}
		out = append(out, m)
	}
}

// WriteSources 按 {rank}, title, year, genres 写出来源榜单。
func WriteSources(w io.Writer, records []core.MovieRecord, kind RankKind) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{string(kind), ColTitle, ColYear, ColGenres}); err != nil {
		return err
	}
	for _, m := range records {
		rank := m.PopularityRank
		if kind == Rating {
			rank = m.RatingRank
		}
		if err := cw.Write([]string{formatRank(rank, ""), m.Title, m.Year, JoinGenres(m.Genres)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFused 写出融合排名：缺失排名写 N/A，final_score 保留两位小数。
func WriteFused(w io.Writer, ranking []*core.FusedMovie) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FusedHeader); err != nil {
		return err
	}
	for _, m := range ranking {
		if m == nil {
			continue
		}
		row := []string{
			strconv.Itoa(m.FinalRank),
			m.Title,
			m.Year,
			JoinGenres(m.Genres),
			formatRank(m.PopularityRank, NotApplicable),
			formatRank(m.RatingRank, NotApplicable),
			strconv.FormatFloat(m.FinalScore, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFused 读取融合排名，保持文件顺序。
func ReadFused(r io.Reader) ([]*core.FusedMovie, error) {
	t, err := newTable(r, ColTitle, ColFinalScore)
	if err != nil {
		return nil, err
	}
	var out []*core.FusedMovie
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		m := &core.FusedMovie{
			MovieRecord: core.MovieRecord{
				Title:  t.get(row, ColTitle),
				Year:   t.get(row, ColYear),
				Genres: SplitGenres(t.get(row, ColGenres)),
			},
		}
		if m.PopularityRank, err = t.rank(row, ColPopularityRank); err != nil {
			return nil, err
		}
		if m.RatingRank, err = t.rank(row, ColRatingRank); err != nil {
			return nil, err
		}
		if m.FinalRank, err = t.rank(row, ColFinalRank); err != nil {
			return nil, err
		}
		if m.FinalRank == 0 {
			m.FinalRank = len(out) + 1
		}
		raw := t.get(row, ColFinalScore)
		m.FinalScore, err = strconv.ParseFloat(raw, 64)
		if err == nil && !finite(m.FinalScore) {
			err = errNotFinite
		}
		if err != nil {
			return nil, core.InvalidInput(core.ModuleRecordIO, err, "line %d: final_score must be numeric, got %q", t.line, raw)
		}
		out = append(out, m)
	}
}

// ReadRatings 读取评分列表（title, rating, 可选 year, genres）。
// rating 为空表示缺失；非数字、不在 [0, 5] 内或不是 0.5 的整数倍时整份输入无效。
func ReadRatings(r io.Reader) ([]core.RatedMovie, error) {
	t, err := newTable(r, ColTitle, ColRating)
	if err != nil {
		return nil, err
	}
	var out []core.RatedMovie
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		m := core.RatedMovie{
			Title:  t.get(row, ColTitle),
			Year:   t.get(row, ColYear),
			Genres: SplitGenres(t.get(row, ColGenres)),
		}
		if raw := t.get(row, ColRating); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || !ValidRating(v) {
				return nil, core.InvalidInput(core.ModuleRecordIO, err, "line %d: rating must be 0-5 in steps of 0.5, got %q", t.line, raw)
			}
			m.Rating, m.HasRating = v, true
		}
		out = append(out, m)
	}
}

var errNotFinite = errors.New("not a finite number")

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidRating 检查评分是否落在 0-5 且为 0.5 的整数倍。
func ValidRating(v float64) bool {
	if !finite(v) || v < 0 || v > 5 {
		return false
	}
	return v*2 == math.Trunc(v*2)
}

func formatRank(rank int, missing string) string {
	if rank <= 0 {
		return missing
	}
	return strconv.Itoa(rank)
}

// errorf 用于文件级错误包装。
func errorf(path string, err error) error {
	return fmt.Errorf("%s: %w", path, err)
}
