package domain

import (
	"strings"
	"time"
)

// EngagementType tells which upstream source a profile came from.
type EngagementType string

const (
	EngagementReaction EngagementType = "reaction"
	EngagementComment  EngagementType = "comment"
)

// DefaultReactionType is used when a reaction record carries no type.
const DefaultReactionType = "LIKE"

// Profile is the normalized view of a person who engaged with a post.
type Profile struct {
	// ProfileURL is an absolute LinkedIn profile URL. Never empty.
	ProfileURL string `json:"profile_url"`

	Name     string `json:"name"`
	Headline string `json:"headline"`

	EngagementType EngagementType `json:"engagement_type"`

	// ReactionType is set for reaction profiles only (LIKE, PRAISE, EMPATHY, ...).
	ReactionType string `json:"reaction_type,omitempty"`

	// CommentText is set for comment profiles only.
	CommentText string `json:"comment_text,omitempty"`

	ProfilePicture string `json:"profile_picture"`
}

// PostReference is a post URL that passed classification.
type PostReference struct {
	URL string `json:"url"`

	// ActivityID is the numeric post identifier, empty when none could be extracted.
	ActivityID string `json:"activity_id,omitempty"`
}

// HasActivityID reports whether an identifier was extracted from the URL.
func (r PostReference) HasActivityID() bool {
	return r.ActivityID != ""
}

// ExtractionResult is the outcome of one extraction call.
type ExtractionResult struct {
	Profiles []Profile `json:"profiles"`

	// TotalCount is the number of profiles after deduplication.
	TotalCount int `json:"total_count"`

	// ReactionCount and CommentCount are counted per source before deduplication.
	ReactionCount int `json:"reaction_count"`
	CommentCount  int `json:"comment_count"`

	PostURL    string `json:"post_url"`
	ActivityID string `json:"activity_id,omitempty"`

	// Errors holds non-fatal diagnostics, e.g. one upstream source failing.
	Errors []string `json:"errors,omitempty"`

	Message  string `json:"message,omitempty"`
	DemoMode bool   `json:"demo_mode,omitempty"`

	ExtractedAt time.Time `json:"extracted_at"`
}

// FilterProfiles returns the profiles matching an engagement type and a search term.
// An empty or "all" engagement type matches every profile. The term is matched
// case-insensitively against name, headline, profile URL and comment text.
func FilterProfiles(profiles []Profile, engagement string, term string) []Profile {
	engagement = strings.ToLower(strings.TrimSpace(engagement))
	term = strings.ToLower(strings.TrimSpace(term))

	filtered := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if engagement != "" && engagement != "all" && string(p.EngagementType) != engagement {
			continue
		}
		if term != "" {
			searchable := strings.ToLower(strings.Join([]string{p.Name, p.Headline, p.ProfileURL, p.CommentText}, " "))
			if !strings.Contains(searchable, term) {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// CountByEngagement tallies profiles per engagement type.
func CountByEngagement(profiles []Profile) (reactions int, comments int) {
	for _, p := range profiles {
		switch p.EngagementType {
		case EngagementReaction:
			reactions++
		case EngagementComment:
			comments++
		}
	}
	return reactions, comments
}
