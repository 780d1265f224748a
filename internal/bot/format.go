package bot

import (
	"fmt"
	"strings"

	"postreach/internal/domain"
)

const (
	previewLimit = 10

	// Telegram rejects longer messages.
	maxMessageLength = 4096
)

func formatSummary(res *domain.ExtractionResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Post: %s\n", res.PostURL)
	fmt.Fprintf(&sb, "Profiles: %d (reactions: %d, comments: %d)\n", res.TotalCount, res.ReactionCount, res.CommentCount)
	if res.Message != "" {
		fmt.Fprintf(&sb, "\n%s\n", res.Message)
	}
	if len(res.Errors) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}

	if len(res.Profiles) > 0 {
		sb.WriteString("\n")
		for i, p := range res.Profiles {
			if i == previewLimit {
				fmt.Fprintf(&sb, "...and %d more\n", len(res.Profiles)-previewLimit)
				break
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, describeProfile(p))
		}
		sb.WriteString("\nUse /csv or /xlsx to download the full list.")
	}

	return truncate(strings.TrimRight(sb.String(), "\n"), maxMessageLength)
}

func describeProfile(p domain.Profile) string {
	name := p.Name
	if name == "" {
		name = p.ProfileURL
	}
	var kind string
	switch p.EngagementType {
	case domain.EngagementReaction:
		kind = strings.ToLower(p.ReactionType)
		if kind == "" {
			kind = "reaction"
		}
	case domain.EngagementComment:
		kind = "comment"
	}
	if p.Headline != "" {
		return fmt.Sprintf("%s (%s) - %s", name, kind, p.Headline)
	}
	return fmt.Sprintf("%s (%s)", name, kind)
}

func formatHistory(results []domain.ExtractionResult) string {
	var sb strings.Builder
	sb.WriteString("Stored results (newest first):\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s - %d profiles (%s)\n", i+1, r.PostURL, r.TotalCount, r.ExtractedAt.UTC().Format("2006-01-02 15:04"))
	}
	return truncate(strings.TrimRight(sb.String(), "\n"), maxMessageLength)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
