package service

import (
	"context"
	"fmt"

	"assembly-guide-be/internal/dto"
	"assembly-guide-be/internal/pkg/logger"
	"assembly-guide-be/pkg/assistant"
	"assembly-guide-be/pkg/catalog"
	"assembly-guide-be/pkg/llm"
	"assembly-guide-be/pkg/store"
	"assembly-guide-be/pkg/workflow"

	"github.com/go-playground/validator/v10"
)

type IAssistantService interface {
	Ask(ctx context.Context, session *store.Session, request *dto.AskRequest) (*dto.AskResponse, error)
}

type assistantService struct {
	cat         *catalog.Catalog
	machine     *workflow.Machine
	provider    llm.Provider
	cache       *assistant.QueryCache
	images      assistant.ImageSource
	imageDetail string
	validate    *validator.Validate
	logger      logger.ILogger
}

func NewAssistantService(
	cat *catalog.Catalog,
	machine *workflow.Machine,
	provider llm.Provider,
	cache *assistant.QueryCache,
	images assistant.ImageSource,
	imageDetail string,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		cat:         cat,
		machine:     machine,
		provider:    provider,
		cache:       cache,
		images:      images,
		imageDetail: imageDetail,
		validate:    validator.New(),
		logger:      log,
	}
}

// Ask answers a question grounded in the current step's context. Identical
// (question, context) pairs within a session hit the cache and never reach
// the provider twice. A failed query leaves the session untouched; the
// user may simply resubmit.
func (s *assistantService) Ask(ctx context.Context, session *store.Session, request *dto.AskRequest) (*dto.AskResponse, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("invalid question: %w", err)
	}

	sub, err := s.machine.Current(session)
	if err != nil {
		return nil, err
	}

	queryCtx := assistant.BuildContext(session, sub, s.cat)
	images := assistant.CollectImages(s.images, queryCtx, s.imageDetail)

	answer, cached, err := s.cache.GetOrCompute(request.Question, queryCtx, func() (string, error) {
		return s.provider.Chat(ctx,
			assistant.SystemPrompt(queryCtx),
			[]llm.Message{{Role: "user", Content: request.Question}},
			images,
		)
	})
	if err != nil {
		s.logger.Error("assistant", "query failed", map[string]interface{}{
			"session_id": session.ID,
			"subtask":    sub.Name,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("assistant", "question answered", map[string]interface{}{
		"session_id": session.ID,
		"subtask":    sub.Name,
		"cached":     cached,
		"images":     len(images),
	})

	return &dto.AskResponse{
		Answer:     answer,
		Cached:     cached,
		ImageCount: len(images),
	}, nil
}
