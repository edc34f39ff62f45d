package workflow

import (
	"assembly-guide-be/pkg/catalog"
)

// SequenceResolver answers who hands over to whom. Adjacency is defined by
// global row position in the catalog, never by per-team ordering, so the
// giver/receiver pair for a subtask is fixed before any confirmation
// happens and handover asset names stay stable.
type SequenceResolver struct {
	cat *catalog.Catalog
}

func NewSequenceResolver(cat *catalog.Catalog) SequenceResolver {
	return SequenceResolver{cat: cat}
}

// GiverFor returns the subtask immediately preceding sub in global order.
// The first position has no giver: its team skips the receive step.
func (r SequenceResolver) GiverFor(sub catalog.Subtask) (catalog.Subtask, bool) {
	return r.cat.At(sub.ID - 1)
}

// ReceiverFor returns the subtask immediately following sub in global
// order. The last position has no receiver: its team is the final team.
func (r SequenceResolver) ReceiverFor(sub catalog.Subtask) (catalog.Subtask, bool) {
	return r.cat.At(sub.ID + 1)
}
