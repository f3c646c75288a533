package main

import (
	"os"

	"planeta-be/internal/config"
	"planeta-be/internal/logger"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := newRootCmd(&app{cfg: cfg}).Execute(); err != nil {
		os.Exit(1)
	}
}
