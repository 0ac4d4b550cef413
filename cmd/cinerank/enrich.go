package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/rushteam/cinerank/config"
	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/recordio"
)

func runEnrich(ctx context.Context, cfg *config.AppConfig, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	in := fs.String("in", "", "source list CSV")
	out := fs.String("out", "", "output CSV (defaults to -in)")
	kind := fs.String("kind", "popularity", "rank column: popularity or rating")
	if err := fs.Parse(args); err != nil {
		return core.InvalidInput(core.ModuleMetadata, err, "bad flags")
	}
	if *in == "" {
		return core.InvalidInput(core.ModuleMetadata, nil, "-in is required")
	}
	var rankKind recordio.RankKind
	switch *kind {
	case "popularity":
		rankKind = recordio.Popularity
	case "rating":
		rankKind = recordio.Rating
	default:
		return core.InvalidInput(core.ModuleMetadata, nil, "unknown -kind %q", *kind)
	}
	if *out == "" {
		*out = *in
	}

	records, err := (&recordio.CSVSource{Path: *in, Kind: rankKind}).Load(ctx)
	if err != nil {
		return err
	}

	session, err := newGenreSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("genre cache cleanup failed")
		}
	}()

	enriched, err := session.enricher.Movies(ctx, records)
	if err != nil {
		return err
	}
	if err := recordio.SaveSources(*out, enriched, rankKind); err != nil {
		return err
	}

	hits, misses := session.cache.Stats()
	fmt.Fprintf(os.Stdout, "%d movies written to %s (cache hits %d, lookups %d)\n", len(enriched), *out, hits, misses)
	return nil
}
