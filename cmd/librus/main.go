package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"

	"github.com/naipofo/librucmd/internal/config"
	"github.com/naipofo/librucmd/internal/credentials"
	"github.com/naipofo/librucmd/internal/logger"
	"github.com/naipofo/librucmd/internal/orchestrator"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in := bufio.NewReader(os.Stdin)
	prompter := credentials.NewConsolePrompter(in, os.Stdout)
	creds := credentials.NewStore(cfg.TokenPath, cfg.TokenURL, prompter, cfg.Timeout)
	runner := orchestrator.NewRunner(cfg, creds, orchestrator.NewAPIClientFactory(cfg), in, os.Stdout)

	if err := runner.Run(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("run failed")
	}
}
