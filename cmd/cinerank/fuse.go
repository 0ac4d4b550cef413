package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rushteam/cinerank/config"
	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/fusion"
	"github.com/rushteam/cinerank/recordio"
)

func runFuse(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("fuse", flag.ContinueOnError)
	popular := fs.String("popular", "popular_with_genres.csv", "popularity list CSV (title, year, genres, popularity_rank)")
	rated := fs.String("rated", "top_rated_with_genres.csv", "rating list CSV (title, year, genres, rating_rank)")
	out := fs.String("out", "fused_rankings.csv", "output CSV")
	show := fs.Int("show", 10, "number of rows to print")
	if err := fs.Parse(args); err != nil {
		return core.InvalidInput(core.ModuleFusion, err, "bad flags")
	}

	fanout := &fusion.Fanout{
		Popularity: &recordio.CSVSource{Path: *popular, Kind: recordio.Popularity},
		Rating:     &recordio.CSVSource{Path: *rated, Kind: recordio.Rating},
		Policy:     cfg.Scoring,
		Timeout:    time.Minute,
	}
	ranking, err := fanout.Run(ctx)
	if err != nil {
		return err
	}
	if err := recordio.SaveFused(*out, ranking); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d movies written to %s\n\n", len(ranking), *out)
	printFused(ranking, *show)
	return nil
}

func printFused(ranking []*core.FusedMovie, n int) {
	if n > len(ranking) {
		n = len(ranking)
	}
	fmt.Fprintf(os.Stdout, "%-5s %-40s %-6s %-8s %-8s %s\n", "Rank", "Title", "Year", "Pop", "Rating", "Score")
	for _, m := range ranking[:n] {
		fmt.Fprintf(os.Stdout, "%-5d %-40s %-6s %-8s %-8s %.2f\n",
			m.FinalRank, truncate(m.Title, 40), m.Year,
			rankText(m.PopularityRank), rankText(m.RatingRank), m.FinalScore)
	}
}

func rankText(rank int) string {
	if rank <= 0 {
		return recordio.NotApplicable
	}
	return fmt.Sprint(rank)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
