package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rushteam/cinerank/config"
	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/filter"
	"github.com/rushteam/cinerank/pipeline"
	"github.com/rushteam/cinerank/ratings"
	"github.com/rushteam/cinerank/recommend"
	"github.com/rushteam/cinerank/recordio"
)

func runRecommend(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	user := fs.String("user", "", "Letterboxd username to scrape ratings from")
	ratingsPath := fs.String("ratings", "", "ratings CSV (title, year, genres, rating) instead of scraping")
	rankingPath := fs.String("ranking", "fused_rankings.csv", "fused ranking CSV produced by fuse")
	top := fs.Int("top", 0, "number of recommendations (defaults to scoring.top_n)")
	exclude := fs.String("exclude", "", `CEL expression, matching movies are dropped (e.g. "movie.year < '1980'")`)
	blacklist := fs.String("blacklist", "", "comma separated titles to drop")
	maxPerGenre := fs.Int("max-per-genre", 0, "cap results per primary genre, 0 disables")
	pipelinePath := fs.String("pipeline", "", "YAML or JSON pipeline definition replacing the default chain")
	if err := fs.Parse(args); err != nil {
		return core.InvalidInput(core.ModuleRecommend, err, "bad flags")
	}
	if (*user == "") == (*ratingsPath == "") {
		return core.InvalidInput(core.ModuleRecommend, nil, "exactly one of -user or -ratings is required")
	}

	p, err := buildPipeline(*pipelinePath, *exclude, *blacklist, *maxPerGenre)
	if err != nil {
		return err
	}

	ranking, err := recordio.LoadFused(*rankingPath)
	if err != nil {
		return err
	}

	rated, userID, err := loadRatings(ctx, cfg, *user, *ratingsPath)
	if err != nil {
		return err
	}
	rated, err = enrichRatings(ctx, cfg, rated)
	if err != nil {
		return err
	}

	svc := recommend.New(cfg.Scoring, p)
	res, err := svc.Recommend(ctx, recommend.Request{
		UserID:  userID,
		Rated:   rated,
		Ranking: ranking,
		TopN:    *top,
	})
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func buildPipeline(path, exclude, blacklist string, maxPerGenre int) (*pipeline.Pipeline, error) {
	if path != "" {
		if exclude != "" || blacklist != "" || maxPerGenre > 0 {
			return nil, core.InvalidInput(core.ModuleRecommend, nil,
				"-exclude, -blacklist and -max-per-genre cannot be combined with -pipeline")
		}
		pc, err := pipeline.Load(path)
		if err != nil {
			return nil, core.InvalidInput(core.ModuleRecommend, err, "load pipeline %s", path)
		}
		p, err := config.BuildPipeline(pc)
		if err != nil {
			return nil, core.InvalidInput(core.ModuleRecommend, err, "build pipeline %s", path)
		}
		return p, nil
	}

	opts := recommend.Options{MaxPerGenre: maxPerGenre}
	if exclude != "" {
		f, err := filter.NewExprFilter(exclude)
		if err != nil {
			return nil, core.InvalidInput(core.ModuleRecommend, err, "bad -exclude expression")
		}
		opts.Exclude = append(opts.Exclude, f)
	}
	if blacklist != "" {
		opts.Exclude = append(opts.Exclude, filter.NewBlacklistFilter(strings.Split(blacklist, ",")))
	}
	return recommend.NewPipeline(opts), nil
}

func loadRatings(ctx context.Context, cfg *config.AppConfig, user, path string) ([]core.RatedMovie, string, error) {
	if path != "" {
		rated, err := recordio.LoadRatings(path)
		return rated, path, err
	}
	scraper := ratings.NewScraper(cfg.Letterboxd, nil)
	rated, err := scraper.Ratings(ctx, user)
	return rated, user, err
}

// enrichRatings 为缺少类型的评分记录补全类型；没有配置 TMDB 时只记录警告，
// 这些记录仍计入均分与已看集合，只是不贡献类型画像。
func enrichRatings(ctx context.Context, cfg *config.AppConfig, rated []core.RatedMovie) ([]core.RatedMovie, error) {
	missing := 0
	for _, m := range rated {
		if len(m.Genres) == 0 {
			missing++
		}
	}
	if missing == 0 {
		return rated, nil
	}
	if cfg.TMDB.APIKey == "" {
		log.Warn().Int("missing", missing).Msg("ratings without genres and no TMDB api key, skipping enrichment")
		return rated, nil
	}

	session, err := newGenreSession(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("genre cache cleanup failed")
		}
	}()
	return session.enricher.Ratings(ctx, rated)
}

func printResult(res *recommend.Result) {
	out := os.Stdout
	fmt.Fprintf(out, "%d rated movies, average rating %.2f\n\n", res.RatedCount, res.AverageRating)

	fmt.Fprintf(out, "%-20s %-7s %-6s %-9s %s\n", "Genre", "Avg", "Count", "Relative", "Weight")
	for _, g := range res.Profile.Ranked() {
		rel := res.Relative[g.Genre]
		fmt.Fprintf(out, "%-20s %-7.2f %-6d %-9.3f %.3f\n", g.Genre, g.Score, g.Count, rel.Score, rel.Weight)
	}

	fmt.Fprintf(out, "\n%-4s %-40s %-6s %-30s %-8s %s\n", "#", "Title", "Year", "Genres", "Fused", "Adjusted")
	for i, it := range res.Items {
		m := it.Movie
		fmt.Fprintf(out, "%-4d %-40s %-6s %-30s %-8.2f %.4f\n",
			i+1, truncate(m.Title, 40), m.Year, truncate(recordio.JoinGenres(m.Genres), 30), m.FinalScore, it.Score)
	}
}
