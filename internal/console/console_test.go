package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postreach/internal/domain"
	"postreach/internal/roas"
)

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	RenderResult(&buf, &domain.ExtractionResult{
		PostURL:    "https://www.linkedin.com/posts/x_activity-123-a",
		ActivityID: "123",
		Errors:     []string{"Error fetching comments: timeout"},
		Profiles: []domain.Profile{
			{Name: "Ada", ProfileURL: "https://www.linkedin.com/in/ada", Headline: "Engineer", EngagementType: domain.EngagementReaction, ReactionType: "LIKE"},
			{Name: "Bob", ProfileURL: "https://www.linkedin.com/in/bob", EngagementType: domain.EngagementComment, CommentText: "multi\nline   comment"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Activity ID: 123")
	assert.Contains(t, out, "warning: Error fetching comments: timeout")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "LIKE")
	assert.Contains(t, out, "multi line comment")
	// footers are upper-cased by the table style
	assert.Contains(t, strings.ToUpper(out), "1 REACTIONS")
	assert.Contains(t, strings.ToUpper(out), "1 COMMENTS")
}

func TestRenderProfiles_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderProfiles(&buf, nil)
	assert.Equal(t, "No profiles.\n", buf.String())
}

func TestRenderROAS(t *testing.T) {
	rep, err := roas.Calculate(roas.Input{AdSpend: 100, Revenue: 450, Conversions: 9})
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderROAS(&buf, rep)

	out := buf.String()
	assert.Contains(t, out, "4.50x")
	assert.Contains(t, out, "Excellent (5/5)")
	assert.Contains(t, out, "11.11 USD")
	assert.Contains(t, out, "Insights:")
	assert.Contains(t, out, "Recommendations:")
}
