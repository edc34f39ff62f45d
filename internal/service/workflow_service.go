package service

import (
	"fmt"

	"assembly-guide-be/internal/dto"
	"assembly-guide-be/internal/pkg/logger"
	"assembly-guide-be/internal/repository/memory"
	"assembly-guide-be/pkg/assets"
	"assembly-guide-be/pkg/catalog"
	"assembly-guide-be/pkg/store"
	"assembly-guide-be/pkg/workflow"

	"github.com/go-playground/validator/v10"
)

type IWorkflowService interface {
	State(session *store.Session) (*dto.StateResponse, error)
	ConfirmParts(session *store.Session) (*dto.StateResponse, error)
	ConfirmPage(session *store.Session, request *dto.ConfirmPageRequest) (*dto.StateResponse, error)
	ConfirmReceived(session *store.Session) (*dto.StateResponse, error)
	Advance(session *store.Session) (*dto.AdvanceResponse, error)
	NextSubtask(session *store.Session) (*dto.StateResponse, error)
}

type workflowService struct {
	cat         *catalog.Catalog
	machine     *workflow.Machine
	resolver    workflow.SequenceResolver
	assets      *assets.Resolver
	sessionRepo *memory.SessionRepository
	validate    *validator.Validate
	logger      logger.ILogger
}

func NewWorkflowService(
	cat *catalog.Catalog,
	machine *workflow.Machine,
	assetResolver *assets.Resolver,
	sessionRepo *memory.SessionRepository,
	log logger.ILogger,
) IWorkflowService {
	return &workflowService{
		cat:         cat,
		machine:     machine,
		resolver:    workflow.NewSequenceResolver(cat),
		assets:      assetResolver,
		sessionRepo: sessionRepo,
		validate:    validator.New(),
		logger:      log,
	}
}

func (s *workflowService) State(session *store.Session) (*dto.StateResponse, error) {
	return s.render(session)
}

func (s *workflowService) ConfirmParts(session *store.Session) (*dto.StateResponse, error) {
	if err := s.machine.ConfirmParts(session); err != nil {
		return nil, err
	}
	s.sessionRepo.Save(session)
	return s.render(session)
}

func (s *workflowService) ConfirmPage(session *store.Session, request *dto.ConfirmPageRequest) (*dto.StateResponse, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("invalid confirmation request: %w", err)
	}

	var err error
	if request.Phase == "subassembly" {
		err = s.machine.ConfirmSubassemblyPage(session, request.Page)
	} else {
		err = s.machine.ConfirmFinalAssemblyPage(session, request.Page)
	}
	if err != nil {
		return nil, err
	}
	s.sessionRepo.Save(session)
	return s.render(session)
}

func (s *workflowService) ConfirmReceived(session *store.Session) (*dto.StateResponse, error) {
	if err := s.machine.ConfirmHandoverReceived(session); err != nil {
		return nil, err
	}
	s.sessionRepo.Save(session)
	return s.render(session)
}

func (s *workflowService) Advance(session *store.Session) (*dto.AdvanceResponse, error) {
	result, err := s.machine.Advance(session)
	if err != nil {
		return nil, err
	}
	if result.Advanced {
		s.sessionRepo.Save(session)
		s.logger.Info("workflow", "step advanced", map[string]interface{}{
			"session_id": session.ID,
			"team":       session.TeamNumber,
			"step":       result.Step.String(),
		})
	}
	return &dto.AdvanceResponse{
		Advanced: result.Advanced,
		Step:     result.Step.String(),
		Reason:   result.Reason,
	}, nil
}

func (s *workflowService) NextSubtask(session *store.Session) (*dto.StateResponse, error) {
	step, err := s.machine.NextSubtask(session)
	if err != nil {
		return nil, err
	}
	s.sessionRepo.Save(session)
	s.logger.Info("workflow", "subtask transition", map[string]interface{}{
		"session_id": session.ID,
		"team":       session.TeamNumber,
		"task_index": session.TaskIndex,
		"step":       step.String(),
	})
	return s.render(session)
}

// render produces the full client state. Missing assets degrade to empty
// URLs with a warn log, never an error.
func (s *workflowService) render(session *store.Session) (*dto.StateResponse, error) {
	count, err := s.machine.TeamTaskCount(session)
	if err != nil {
		return nil, err
	}

	resp := &dto.StateResponse{
		StudentName: session.StudentName,
		TeamNumber:  session.TeamNumber,
		Step:        session.Step.String(),
		StepTitle:   stepTitle(session.Step),
		Progress: dto.ProgressView{
			TaskIndex: session.TaskIndex,
			TaskCount: count,
			Completed: session.Step == store.StepCompleted,
		},
	}

	if session.Step == store.StepCompleted {
		return resp, nil
	}

	sub, err := s.machine.Current(session)
	if err != nil {
		return nil, err
	}

	resp.Subtask = s.renderSubtask(session, sub)
	resp.Handover = s.renderHandover(session, sub)
	return resp, nil
}

func (s *workflowService) renderSubtask(session *store.Session, sub catalog.Subtask) *dto.SubtaskView {
	view := &dto.SubtaskView{
		Name:               sub.Name,
		Bag:                sub.Bag,
		Position:           sub.ID,
		PartsConfirmed:     session.CollectedPartsConfirmed,
		SubassemblyPages:   make([]dto.PageView, 0, len(sub.SubassemblyPages)),
		FinalAssemblyPages: make([]dto.PageView, 0, len(sub.FinalAssemblyPages)),
	}

	partsRel, partsOK := s.assets.PartsImage(sub.Name)
	view.PartsImageUrl = s.assetURL(partsRel, partsOK, "parts image", sub.Name)

	for _, page := range sub.SubassemblyPages {
		rel, ok := s.assets.PageImage(page)
		view.SubassemblyPages = append(view.SubassemblyPages, dto.PageView{
			Page:      page,
			Confirmed: session.SubassemblyConfirmed[page],
			ImageUrl:  s.assetURL(rel, ok, "manual page", fmt.Sprintf("%d", page)),
		})
	}
	for _, page := range sub.FinalAssemblyPages {
		rel, ok := s.assets.PageImage(page)
		view.FinalAssemblyPages = append(view.FinalAssemblyPages, dto.PageView{
			Page:      page,
			Confirmed: session.FinalAssemblyConfirmed[page],
			ImageUrl:  s.assetURL(rel, ok, "manual page", fmt.Sprintf("%d", page)),
		})
	}
	return view
}

func (s *workflowService) renderHandover(session *store.Session, sub catalog.Subtask) *dto.HandoverView {
	view := &dto.HandoverView{Received: session.PreviousStepConfirmed}

	if giver, ok := s.resolver.GiverFor(sub); ok {
		team := giver.Team
		view.GiverTeam = &team
		rel, exists := s.assets.ReceiveImage(giver.Team, sub.Team)
		view.ReceiveImageUrl = s.assetURL(rel, exists, "receive image", sub.Name)
	} else {
		view.ReceiveMessage = "First team in the build order: nothing to receive."
	}

	if receiver, ok := s.resolver.ReceiverFor(sub); ok {
		team := receiver.Team
		view.ReceiverTeam = &team
		rel, exists := s.assets.GiveImage(sub.Team, receiver.Team)
		view.GiveImageUrl = s.assetURL(rel, exists, "give image", sub.Name)
	} else {
		view.GiveMessage = "Final team in the build order: no handover needed."
	}
	return view
}

func (s *workflowService) assetURL(rel string, exists bool, kind, ref string) string {
	if !exists {
		s.logger.Warn("workflow", "asset missing", map[string]interface{}{
			"kind": kind,
			"ref":  ref,
			"path": rel,
		})
		return ""
	}
	return "/assets/" + rel
}

func stepTitle(step store.Step) string {
	switch step {
	case store.StepCollectParts:
		return "Collect your parts"
	case store.StepSubassembly:
		return "Build the subassembly"
	case store.StepReceiveHandover:
		return "Receive from the previous team"
	case store.StepFinalAssembly:
		return "Final assembly"
	case store.StepGiveHandover:
		return "Hand over to the next team"
	case store.StepCompleted:
		return "All subtasks completed"
	default:
		return ""
	}
}
