// Package retrieval contains the orchestration core: deciding per question
// whether to reuse the previous retrieval context, fetch a single record by
// identifier, or run a fresh filtered vector search, then synthesizing a
// grounded answer from whatever context that produced.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/andrew/listing-rag/pkg/embedding"
	"github.com/andrew/listing-rag/pkg/llm"
	"github.com/andrew/listing-rag/pkg/models"
	"github.com/andrew/listing-rag/pkg/session"
	"github.com/andrew/listing-rag/pkg/vector"
)

// NoContextAnswer is returned when retrieval produced nothing to ground an
// answer on, or when an external call failed mid-turn.
const NoContextAnswer = "no context from vector search"

// Config bundles the retrieval and generation knobs of a Service.
type Config struct {
	Search        vector.SearchOptions
	ContextWindow int
	Generation    llm.ModelConfig
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() Config {
	return Config{
		Search:        vector.DefaultSearchOptions(),
		ContextWindow: 4,
		Generation:    llm.DefaultModelConfig(),
	}
}

// Service orchestrates one conversation turn at a time: extraction,
// retrieval decision, external calls, synthesis, history update. It is
// synchronous and single-writer; the session passed in is mutated in place
// and must not be shared across goroutines.
type Service struct {
	embedder embedding.Embedder
	store    vector.Store
	llm      llm.Client
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a retrieval service with injected collaborators.
func NewService(embedder embedding.Embedder, store vector.Store, client llm.Client, cfg Config, logger *zap.Logger) *Service {
	if cfg.Search.Limit <= 0 {
		cfg.Search = vector.DefaultSearchOptions()
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = 4
	}
	if cfg.Generation.MaxTokens <= 0 {
		cfg.Generation = llm.DefaultModelConfig()
	}
	return &Service{
		embedder: embedder,
		store:    store,
		llm:      client,
		cfg:      cfg,
		logger:   logger,
	}
}

// Answer resolves one question against the session: follow-ups without
// explicit filters reuse the previous retrieval set, everything else runs a
// fresh retrieval (direct id fetch or filtered vector search). It returns
// the synthesized answer and the updated history. External failures never
// propagate: the turn logs them, discards the history so a corrupted
// context cannot persist, and returns the sentinel answer.
func (s *Service) Answer(ctx context.Context, question string, sess *session.State) (string, []models.Message) {
	start := time.Now()
	filters, direct := ExtractFilters(question)
	s.logger.Debug("filters extracted",
		zap.Int("count", len(filters)),
		zap.Bool("direct_lookup", direct),
		zap.Duration("elapsed", time.Since(start)))

	hasExplicitFilter := len(filters) > 0

	// Follow-ups without new filters reuse the previous retrieval set for
	// human-natural continuity. Last* fields stay untouched on this path.
	if len(sess.LastResults) > 0 && IsFollowUp(question) && !hasExplicitFilter {
		s.logger.Debug("reusing previous retrieval context",
			zap.Int("results", len(sess.LastResults)),
			zap.String("last_question", sess.LastQuestion))
		prompt := buildGroundingPrompt(sess.LastResults, question)
		answer, err := s.synthesize(ctx, prompt, sess)
		if err != nil {
			return s.failTurn(sess, "synthesis", err)
		}
		return answer, sess.History
	}

	var results []string
	if direct {
		// Direct fetch by identifier, no vector search. A miss is a normal
		// empty result, not a failure.
		id := fmt.Sprintf("%v", filters[0].Value)
		s.logger.Debug("direct lookup, skipping vector search", zap.String("id", id))
		snippet, found, err := s.store.FindByID(ctx, id)
		if err != nil {
			return s.failTurn(sess, "lookup", err)
		}
		if found {
			results = []string{snippet}
		}
	} else {
		query := buildRetrievalQuery(question, sess.History, s.cfg.ContextWindow)

		start = time.Now()
		queryVector, err := s.embedder.Embed(ctx, query)
		if err != nil {
			return s.failTurn(sess, "embedding", err)
		}
		s.logger.Debug("embedding generated", zap.Duration("elapsed", time.Since(start)))

		start = time.Now()
		hits, err := s.store.Search(ctx, queryVector, filters, s.cfg.Search)
		if err != nil {
			return s.failTurn(sess, "search", err)
		}
		s.logger.Debug("vector search completed",
			zap.Int("hits", len(hits)),
			zap.Duration("elapsed", time.Since(start)))

		for _, hit := range hits {
			results = append(results, hit.Snippet)
		}
	}

	if len(results) == 0 {
		// Nothing to ground on: skip synthesis, leave Last* untouched.
		return NoContextAnswer, sess.History
	}

	// Save the retrieval context for follow-ups.
	sess.LastResults = results
	sess.LastQuestion = question
	sess.LastFilters = filters

	prompt := buildGroundingPrompt(results, question)
	answer, err := s.synthesize(ctx, prompt, sess)
	if err != nil {
		return s.failTurn(sess, "synthesis", err)
	}
	return answer, sess.History
}

// Ask sends the question straight to the model without any retrieval.
func (s *Service) Ask(ctx context.Context, question string, sess *session.State) (string, []models.Message) {
	answer, err := s.synthesize(ctx, question, sess)
	if err != nil {
		return s.failTurn(sess, "synthesis", err)
	}
	return answer, sess.History
}

// Clear resets the session: conversation and saved retrieval context.
func (s *Service) Clear(sess *session.State) {
	sess.Clear()
}

// synthesize appends the prompt as a user turn, delegates to the model with
// the full history, records the reply as an assistant turn and applies the
// sliding window.
func (s *Service) synthesize(ctx context.Context, prompt string, sess *session.State) (string, error) {
	sess.Append(models.Message{
		Role:      models.RoleUser,
		Content:   prompt,
		Timestamp: time.Now(),
	})

	start := time.Now()
	reply, err := s.llm.Chat(ctx, sess.History, s.cfg.Generation)
	if err != nil {
		return "", err
	}
	s.logger.Debug("synthesis completed", zap.Duration("elapsed", time.Since(start)))

	sess.Append(reply)
	sess.TruncateIfNeeded()
	return reply.Content, nil
}

// failTurn handles an external-capability failure: log it, discard the
// conversation history so an inconsistent context is never resubmitted, and
// keep the session usable for the next turn. The saved retrieval context
// survives.
func (s *Service) failTurn(sess *session.State, stage string, err error) (string, []models.Message) {
	s.logger.Error("external call failed, resetting conversation",
		zap.String("stage", stage),
		zap.Error(err))
	sess.Reset()
	return NoContextAnswer, sess.History
}

// buildGroundingPrompt assembles the final prompt from the retrieved
// context block and the user's question.
func buildGroundingPrompt(results []string, question string) string {
	return fmt.Sprintf(
		"Use the following context to answer the question.\nContext:\n%s\n\nQuestion:\n%s",
		strings.Join(results, "\n"), question)
}
