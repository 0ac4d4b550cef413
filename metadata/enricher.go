package metadata

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cinerank/core"
)

// DefaultWorkers 是并发查询的默认上限。
const DefaultWorkers = 20

// Enricher 为没有类型的记录补全类型，最多 Workers 个查询并发执行，输出保持输入顺序。
// 单条查询失败只会让该记录保持空类型，不影响其他记录。
type Enricher struct {
	Lookup  GenreLookup
	Workers int
}

func (e *Enricher) workers() int {
	if e.Workers <= 0 {
		return DefaultWorkers
	}
	return e.Workers
}

// Movies 返回补全类型后的副本；已有类型的记录不再查询。
func (e *Enricher) Movies(ctx context.Context, records []core.MovieRecord) ([]core.MovieRecord, error) {
	out := make([]core.MovieRecord, len(records))
	copy(out, records)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers())
	for i := range out {
		if len(out[i].Genres) > 0 {
			continue
		}
		i := i
		eg.Go(func() error {
			out[i].Genres = e.Lookup.Genres(egCtx, out[i].Title, out[i].Year)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info().Int("records", len(out)).Int("missing", countMissing(out)).Msg("genres enriched")
	return out, nil
}

// Ratings 为评分记录补全类型；已有类型的记录不再查询。
func (e *Enricher) Ratings(ctx context.Context, rated []core.RatedMovie) ([]core.RatedMovie, error) {
	out := make([]core.RatedMovie, len(rated))
	copy(out, rated)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers())
	for i := range out {
		if len(out[i].Genres) > 0 {
			continue
		}
		i := i
		eg.Go(func() error {
			out[i].Genres = e.Lookup.Genres(egCtx, out[i].Title, out[i].Year)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func countMissing(records []core.MovieRecord) int {
	n := 0
	for _, r := range records {
		if len(r.Genres) == 0 {
			n++
		}
	}
	return n
}
