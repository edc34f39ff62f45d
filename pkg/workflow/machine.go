// Package workflow implements the per-team step progression and the
// handover adjacency rules over the loaded catalog.
package workflow

import (
	"errors"
	"fmt"

	"assembly-guide-be/pkg/catalog"
	"assembly-guide-be/pkg/store"
)

var (
	// ErrPageNotInSubtask rejects a confirmation for a page the current
	// subtask does not reference. The session state stays untouched.
	ErrPageNotInSubtask = errors.New("page does not belong to the current subtask")

	// ErrWrongStep rejects an action that is only valid in another step.
	ErrWrongStep = errors.New("action not available in the current step")

	// ErrCompleted marks a session that has finished its last subtask.
	ErrCompleted = errors.New("all subtasks completed")
)

// Machine drives a session through the fixed five-step subtask sequence.
// It holds no mutable state of its own; the session value is the single
// source of truth and transitions mutate it atomically per call.
type Machine struct {
	cat *catalog.Catalog
}

func NewMachine(cat *catalog.Catalog) *Machine {
	return &Machine{cat: cat}
}

// Current resolves the session's active subtask from the team's task list.
func (m *Machine) Current(s *store.Session) (catalog.Subtask, error) {
	if s.Step == store.StepCompleted {
		return catalog.Subtask{}, ErrCompleted
	}
	tasks, err := m.cat.TasksForTeam(s.TeamNumber)
	if err != nil {
		return catalog.Subtask{}, err
	}
	if s.TaskIndex < 0 || s.TaskIndex >= len(tasks) {
		return catalog.Subtask{}, fmt.Errorf("task index %d out of range for team %d", s.TaskIndex, s.TeamNumber)
	}
	return tasks[s.TaskIndex], nil
}

// TeamTaskCount reports how many subtasks the session's team owns.
func (m *Machine) TeamTaskCount(s *store.Session) (int, error) {
	tasks, err := m.cat.TasksForTeam(s.TeamNumber)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// ConfirmParts records the single parts-collection confirmation.
func (m *Machine) ConfirmParts(s *store.Session) error {
	if _, err := m.Current(s); err != nil {
		return err
	}
	s.CollectedPartsConfirmed = true
	return nil
}

// ConfirmSubassemblyPage marks one subassembly manual page done.
// Confirming an already-confirmed page is a no-op.
func (m *Machine) ConfirmSubassemblyPage(s *store.Session, page int) error {
	sub, err := m.Current(s)
	if err != nil {
		return err
	}
	if !containsPage(sub.SubassemblyPages, page) {
		return fmt.Errorf("%w: subassembly page %d", ErrPageNotInSubtask, page)
	}
	s.SubassemblyConfirmed[page] = true
	return nil
}

// ConfirmFinalAssemblyPage marks one final-assembly manual page done.
func (m *Machine) ConfirmFinalAssemblyPage(s *store.Session, page int) error {
	sub, err := m.Current(s)
	if err != nil {
		return err
	}
	if !containsPage(sub.FinalAssemblyPages, page) {
		return fmt.Errorf("%w: final assembly page %d", ErrPageNotInSubtask, page)
	}
	s.FinalAssemblyConfirmed[page] = true
	return nil
}

// ConfirmHandoverReceived records receipt of the previous team's product.
func (m *Machine) ConfirmHandoverReceived(s *store.Session) error {
	if _, err := m.Current(s); err != nil {
		return err
	}
	s.PreviousStepConfirmed = true
	return nil
}

// AdvanceResult reports the outcome of a guard evaluation. An unmet guard
// is a normal outcome, not an error: Reason explains what is still open.
type AdvanceResult struct {
	Advanced bool
	Step     store.Step
	Reason   string
}

// Advance evaluates the current step's forward guard and moves the session
// one step when it holds. The step never regresses here; only NextSubtask
// rewinds it.
func (m *Machine) Advance(s *store.Session) (AdvanceResult, error) {
	sub, err := m.Current(s)
	if err != nil {
		return AdvanceResult{}, err
	}

	ok, reason := m.guard(s, sub)
	if !ok {
		return AdvanceResult{Advanced: false, Step: s.Step, Reason: reason}, nil
	}
	s.Step++
	return AdvanceResult{Advanced: true, Step: s.Step}, nil
}

// guard returns whether the session may leave its current step, and when
// not, why. One forward edge per step keeps the table exhaustive.
func (m *Machine) guard(s *store.Session, sub catalog.Subtask) (bool, string) {
	switch s.Step {
	case store.StepCollectParts:
		if s.CollectedPartsConfirmed {
			return true, ""
		}
		return false, "parts collection not confirmed yet"

	case store.StepSubassembly:
		if missing := missingPages(sub.SubassemblyPages, s.SubassemblyConfirmed); len(missing) > 0 {
			return false, fmt.Sprintf("subassembly pages not confirmed: %v", missing)
		}
		return true, ""

	case store.StepReceiveHandover:
		if _, hasGiver := NewSequenceResolver(m.cat).GiverFor(sub); !hasGiver {
			// First subtask in the global order receives nothing.
			return true, ""
		}
		if s.PreviousStepConfirmed {
			return true, ""
		}
		return false, "handover from the previous team not confirmed yet"

	case store.StepFinalAssembly:
		if missing := missingPages(sub.FinalAssemblyPages, s.FinalAssemblyConfirmed); len(missing) > 0 {
			return false, fmt.Sprintf("final assembly pages not confirmed: %v", missing)
		}
		return true, ""

	case store.StepGiveHandover:
		return false, "use next-subtask to continue"

	default:
		return false, "all subtasks completed"
	}
}

// NextSubtask leaves the GiveHandover step: it resets progress for the
// next subtask, or parks the session in the Completed terminal state when
// the team's list is exhausted.
func (m *Machine) NextSubtask(s *store.Session) (store.Step, error) {
	if s.Step != store.StepGiveHandover {
		return s.Step, fmt.Errorf("%w: next-subtask requires the give-handover step", ErrWrongStep)
	}
	count, err := m.TeamTaskCount(s)
	if err != nil {
		return s.Step, err
	}
	if s.TaskIndex+1 >= count {
		s.Step = store.StepCompleted
		return s.Step, nil
	}
	s.TaskIndex++
	s.ResetProgress()
	return s.Step, nil
}

func containsPage(pages []int, page int) bool {
	for _, p := range pages {
		if p == page {
			return true
		}
	}
	return false
}

func missingPages(pages []int, confirmed map[int]bool) []int {
	var missing []int
	for _, p := range pages {
		if !confirmed[p] {
			missing = append(missing, p)
		}
	}
	return missing
}
