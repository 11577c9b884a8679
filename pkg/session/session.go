// Package session owns the per-conversation state: the message history and
// the last retrieval context kept around for follow-up questions. A State is
// mutated only by the orchestrator that owns it; there is no cross-session
// sharing and no locking.
package session

import (
	"github.com/google/uuid"

	"github.com/andrew/listing-rag/pkg/models"
)

const (
	// maxHistory is the turn count past which the history gets truncated.
	maxHistory = 8
	// keepRecent is how many trailing turns a truncation keeps.
	keepRecent = 6
)

// State aggregates a conversation and its last retrieval context.
// LastResults/LastQuestion/LastFilters are overwritten only after a
// successful fresh retrieval, never on a reuse-only turn.
type State struct {
	ID           uuid.UUID
	History      []models.Message
	LastResults  []string
	LastQuestion string
	LastFilters  []models.Filter
}

// New creates an empty session.
func New() *State {
	return &State{ID: uuid.New()}
}

// Append adds a turn to the conversation.
func (s *State) Append(msg models.Message) {
	s.History = append(s.History, msg)
}

// TruncateIfNeeded applies the sliding window: once the history exceeds
// maxHistory turns it is cut down to the most recent keepRecent.
func (s *State) TruncateIfNeeded() {
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-keepRecent:]
	}
}

// Reset discards the conversation history but keeps the last retrieval
// context. Used when a synthesis call fails and the history can no longer
// be trusted.
func (s *State) Reset() {
	s.History = nil
}

// Clear nulls the conversation and all last-retrieval fields. Idempotent.
func (s *State) Clear() {
	s.History = nil
	s.LastResults = nil
	s.LastQuestion = ""
	s.LastFilters = nil
}
