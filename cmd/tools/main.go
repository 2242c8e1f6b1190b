package main

import (
	"toolrent/internal/tools/handler"
	"toolrent/internal/tools/repository"
	"toolrent/internal/tools/service"
	"toolrent/internal/tools/validator"
	"toolrent/pkg/app"
	"toolrent/pkg/config"
)

const ServiceName = "tools"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Tools service")
	toolService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewToolHandler(toolService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ToolService {
	toolValidator := validator.NewToolValidator(cfg.Log)
	toolRepo := repository.NewMongoToolRepository(cfg)
	toolService := service.NewToolService(toolRepo, toolValidator, cfg)

	cfg.Log.Info("Tool service initialized", "database", cfg.MongoDatabaseName)
	return toolService
}
