package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFollowUp(t *testing.T) {
	cases := []struct {
		question string
		want     bool
	}{
		{"what about pricing?", true},
		{"how much are these?", true},
		{"compare them for me", true},
		{"Which one is the CHEAPEST?", true},
		{"tell me more", true},
		{"availability in august", true},
		{"  more details  ", true},
		{"lofts in Berlin", false},
		{"show me beach houses", false},
		{"", false},
		{"   ", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsFollowUp(tc.question), "question: %q", tc.question)
	}
}
