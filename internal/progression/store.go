package progression

import (
	"context"
	"sort"
)

// ProgressStore is the engine's only I/O boundary.
//
// LoadCompleted returns an empty set, never nil, when the learner has no
// records for the path. MarkComplete is an idempotent upsert keyed by
// (learner, module).
type ProgressStore interface {
	LoadCompleted(ctx context.Context, learnerID, pathID string) (CompletedSet, error)
	MarkComplete(ctx context.Context, learnerID, pathID, unitID, moduleID string) error
}

// CompletedSet holds the module ids a learner has completed on one path.
type CompletedSet map[string]struct{}

func NewCompletedSet(moduleIDs ...string) CompletedSet {
	s := make(CompletedSet, len(moduleIDs))
	for _, id := range moduleIDs {
		s[id] = struct{}{}
	}
	return s
}

func (s CompletedSet) Has(moduleID string) bool {
	_, ok := s[moduleID]
	return ok
}

func (s CompletedSet) Add(moduleID string) {
	s[moduleID] = struct{}{}
}

func (s CompletedSet) Len() int { return len(s) }

// IDs returns the module ids sorted.
func (s CompletedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s CompletedSet) clone() CompletedSet {
	c := make(CompletedSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}
