// Command cinerank 融合热度榜与评分榜，并基于用户评分历史给出个性化推荐。
//
//	cinerank fuse      -popular popular.csv -rated top_rated.csv -out fused_rankings.csv
//	cinerank enrich    -in popular.csv -kind popularity -out popular_with_genres.csv
//	cinerank recommend -user <letterboxd 用户名> -ranking fused_rankings.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/rushteam/cinerank/config"
	_ "github.com/rushteam/cinerank/config/builders"
	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/pkg/logging"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, cfg *config.AppConfig, args []string) error
}

var commands = []command{
	{name: "fuse", usage: "merge popularity and rating lists into one ranking", run: runFuse},
	{name: "enrich", usage: "fill missing genres of a source list from TMDB", run: runEnrich},
	{name: "recommend", usage: "personalize the fused ranking for a user", run: runRecommend},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: cinerank [-config file] <command> [flags]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.usage)
	}
}

func main() {
	global := flag.NewFlagSet("cinerank", flag.ExitOnError)
	global.Usage = usage
	configPath := global.String("config", "", "path to YAML config (env "+config.ConfigPathEnvVar+")")
	_ = global.Parse(os.Args[1:])

	args := global.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cinerank: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Logging())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		if err := c.run(ctx, cfg, args[1:]); err != nil {
			log.Error().Err(err).Str("command", c.name).Msg("command failed")
			stop()
			os.Exit(exitCode(err))
		}
		return
	}
	fmt.Fprintf(os.Stderr, "cinerank: unknown command %q\n\n", args[0])
	usage()
	os.Exit(2)
}

// exitCode: 输入错误 2，前置条件不满足 3，其他 1。
func exitCode(err error) int {
	switch {
	case core.IsInvalidInput(err):
		return 2
	case core.IsMissingPrecondition(err):
		return 3
	default:
		return 1
	}
}
