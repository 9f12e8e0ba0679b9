package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidegames-golf/sidegames/config"
	"github.com/sidegames-golf/sidegames/logger"
)

// @title Side Games API
// @version 1.0
// @description Запись на побочные игры гольф-турниров: туры, поля, события, корзина и оплата.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Токен в формате "Bearer <jwt>".

// app — то, что нужно всем подкомандам: конфигурация и логгер.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "sidegames",
		Short:         "Side games sign-up service for golf tours",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.log = logger.Setup(cfg.Env).With(slog.String("env", cfg.Env))
			a.log.Debug("configuration loaded", slog.Int("port", cfg.Server.Port))
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
