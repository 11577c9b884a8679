package retrieval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrew/listing-rag/pkg/models"
)

func turns(n int) []models.Message {
	history := make([]models.Message, n)
	for i := range history {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		history[i] = models.Message{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}
	return history
}

func TestBuildRetrievalQuery_EmptyHistoryPassesThrough(t *testing.T) {
	got := buildRetrievalQuery("lofts in Berlin", nil, 4)
	assert.Equal(t, "lofts in Berlin", got)
}

func TestBuildRetrievalQuery_Format(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "looking for lofts"},
		{Role: models.RoleAssistant, Content: "here are some"},
	}

	got := buildRetrievalQuery("near the river?", history, 4)

	want := "Conversation context:\n" +
		"user: looking for lofts\n" +
		"assistant: here are some\n\n" +
		"Current question:\nnear the river?"
	assert.Equal(t, want, got)
}

func TestBuildRetrievalQuery_WindowKeepsNewestTurns(t *testing.T) {
	got := buildRetrievalQuery("q", turns(6), 4)

	assert.NotContains(t, got, "turn 0")
	assert.NotContains(t, got, "turn 1")
	assert.Contains(t, got, "turn 2")
	assert.Contains(t, got, "turn 5")
}

func TestBuildRetrievalQuery_Deterministic(t *testing.T) {
	history := turns(3)
	first := buildRetrievalQuery("q", history, 4)
	second := buildRetrievalQuery("q", history, 4)
	assert.Equal(t, first, second)
}
