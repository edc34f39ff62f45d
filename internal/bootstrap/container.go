package bootstrap

import (
	"time"

	"assembly-guide-be/internal/config"
	"assembly-guide-be/internal/controller"
	"assembly-guide-be/internal/pkg/logger"
	"assembly-guide-be/internal/repository/memory"
	"assembly-guide-be/internal/service"
	"assembly-guide-be/pkg/assets"
	"assembly-guide-be/pkg/assistant"
	"assembly-guide-be/pkg/catalog"
	"assembly-guide-be/pkg/llm/openai"
	"assembly-guide-be/pkg/llm/retry"
	"assembly-guide-be/pkg/workflow"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	WorkflowController  controller.IWorkflowController
	AssistantController controller.IAssistantController

	// Shared infrastructure
	SessionRepo *memory.SessionRepository
	Logger      logger.ILogger
}

func NewContainer(cat *catalog.Catalog, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.Auth.SessionTTLHours) * time.Hour)
	assetResolver := assets.NewResolver(cfg.Assets.Dir)

	// 2. Domain components
	machine := workflow.NewMachine(cat)
	queryCache := assistant.NewQueryCache()

	// Completion provider behind bounded rate-limit retry
	provider := openai.NewProvider(cfg.Ai.APIKey, cfg.Ai.BaseURL, cfg.Ai.Model)
	completionClient := retry.New(
		provider,
		cfg.Retry.MaxAttempts,
		time.Duration(cfg.Retry.InitialDelayMs)*time.Millisecond,
	)

	// 3. Services
	authService := service.NewAuthService(cat, sessionRepo, cfg.Auth.SharedPassword, sysLogger)
	workflowService := service.NewWorkflowService(cat, machine, assetResolver, sessionRepo, sysLogger)
	assistantService := service.NewAssistantService(
		cat,
		machine,
		completionClient,
		queryCache,
		assetResolver,
		cfg.Ai.ImageDetail,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService),
		WorkflowController:  controller.NewWorkflowController(workflowService),
		AssistantController: controller.NewAssistantController(assistantService),

		SessionRepo: sessionRepo,
		Logger:      sysLogger,
	}
}
