package app

import (
	"context"
	"fmt"

	"repograph/internal/gateway/config"
	"repograph/internal/gateway/handler"
	"repograph/internal/gateway/server"
	"repograph/internal/generate"
	"repograph/internal/resource"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := initDocStore(cfg)
	if err != nil {
		return nil, err
	}

	client := generate.NewHTTPClient(cfg.Generator.BaseURL, cfg.Generator.Model, cfg.Generator.Timeout)
	resources := resource.NewStore(cfg.ResourceDir)

	svc := handler.NewService(client, store, resources)
	srv := server.New(cfg.Port, handler.BuildMux(svc))

	return &App{server: srv}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
