package fusion

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cinerank/core"
)

// Source 是一个来源榜单（热度榜或评分榜）。
type Source interface {
	Name() string
	Load(ctx context.Context) ([]core.MovieRecord, error)
}

// StaticSource 是内存中的来源，用于测试和已组装好的数据。
type StaticSource struct {
	SourceName string
	Records    []core.MovieRecord
}

func (s *StaticSource) Name() string { return s.SourceName }

func (s *StaticSource) Load(context.Context) ([]core.MovieRecord, error) {
	return s.Records, nil
}

// Fanout 并发加载两个来源，加载完成后同步执行 Fuse。
// 与召回 fanout 不同，任一来源失败都会中止本次融合：残缺的输入算出的排名没有意义。
type Fanout struct {
	Popularity Source
	Rating     Source
	Policy     core.Policy
	Timeout    time.Duration // 每个来源的加载超时，0 表示不限制
}

// Run 加载并融合。
func (f *Fanout) Run(ctx context.Context) ([]*core.FusedMovie, error) {
	if f.Popularity == nil || f.Rating == nil {
		return nil, core.MissingPrecondition(core.ModuleFusion, "both popularity and rating sources are required")
	}

	var popular, rated []core.MovieRecord
	eg, egCtx := errgroup.WithContext(ctx)
	load := func(src Source, dst *[]core.MovieRecord) func() error {
		return func() error {
			loadCtx := egCtx
			if f.Timeout > 0 {
				var cancel context.CancelFunc
				loadCtx, cancel = context.WithTimeout(egCtx, f.Timeout)
				defer cancel()
			}
			start := time.Now()
			records, err := src.Load(loadCtx)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Name(), err)
			}
			log.Debug().
				Str("source", src.Name()).
				Int("records", len(records)).
				Dur("took", time.Since(start)).
				Msg("source loaded")
			*dst = records
			return nil
		}
	}
	eg.Go(load(f.Popularity, &popular))
	eg.Go(load(f.Rating, &rated))
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	fused, err := Fuse(popular, rated, f.Policy)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("popular", len(popular)).
		Int("rated", len(rated)).
		Int("fused", len(fused)).
		Msg("ranking fused")
	return fused, nil
}
