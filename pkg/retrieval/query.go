package retrieval

import (
	"fmt"
	"strings"

	"github.com/andrew/listing-rag/pkg/models"
)

// buildRetrievalQuery enriches a question with a small window of prior
// conversation so that fresh retrievals stay on topic. With no history the
// question passes through unchanged. Pure function of its inputs.
func buildRetrievalQuery(question string, history []models.Message, maxMessages int) string {
	if len(history) == 0 {
		return question
	}

	recent := history
	if len(recent) > maxMessages {
		recent = recent[len(recent)-maxMessages:]
	}

	lines := make([]string, len(recent))
	for i, msg := range recent {
		lines[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}

	return fmt.Sprintf("Conversation context:\n%s\n\nCurrent question:\n%s",
		strings.Join(lines, "\n"), question)
}
