// Package normalize maps the loosely-typed engagement payloads returned by the
// upstream API onto domain.Profile and collapses duplicate identities.
//
// Field names vary between endpoints and API revisions, so every attribute is
// resolved through an ordered list of candidate keys. A record whose profile
// URL cannot be resolved is skipped; it never fails the batch.
package normalize

import (
	"strings"

	"postreach/internal/domain"
)

// ProfileBaseURL prefixes bare profile slugs.
const ProfileBaseURL = "https://www.linkedin.com/in/"

// NormalizeReactions converts a reactions payload into reaction profiles.
func NormalizeReactions(raw any) []domain.Profile {
	records := Records(raw)
	profiles := make([]domain.Profile, 0, len(records))

	for _, rec := range records {
		reactor := Object(rec, "reactor")

		profileURL := firstOf(
			Lookup(reactor, "linkedin_url", "profile_url"),
			Lookup(rec, "linkedin_url", "profile_url", "profileUrl"),
		)
		if profileURL == "" {
			continue
		}

		reactionType := Lookup(rec, "type", "reaction_type", "reactionType")
		if reactionType == "" {
			reactionType = domain.DefaultReactionType
		}

		profiles = append(profiles, domain.Profile{
			ProfileURL:     CanonicalProfileURL(profileURL),
			Name:           firstOf(Lookup(reactor, "name"), Lookup(rec, "name", "full_name")),
			Headline:       firstOf(Lookup(reactor, "headline"), Lookup(rec, "headline", "title")),
			EngagementType: domain.EngagementReaction,
			ReactionType:   reactionType,
			ProfilePicture: firstOf(Lookup(reactor, "profile_picture"), Lookup(rec, "profile_picture")),
		})
	}
	return profiles
}

// NormalizeComments converts a comments payload into comment profiles.
func NormalizeComments(raw any) []domain.Profile {
	records := Records(raw)
	profiles := make([]domain.Profile, 0, len(records))

	for _, rec := range records {
		author := Object(rec, "author")

		profileURL := firstOf(
			Lookup(rec, "profile_url", "linkedin_url", "profileUrl", "commenter_profile_url"),
			Lookup(author, "profile_url"),
		)
		if profileURL == "" {
			continue
		}

		profiles = append(profiles, domain.Profile{
			ProfileURL:     CanonicalProfileURL(profileURL),
			Name:           firstOf(Lookup(rec, "name", "commenter_name", "author_name"), Lookup(author, "name")),
			Headline:       firstOf(Lookup(rec, "headline", "commenter_headline"), Lookup(author, "headline")),
			EngagementType: domain.EngagementComment,
			CommentText:    Lookup(rec, "comment", "text", "comment_text"),
			ProfilePicture: firstOf(Lookup(rec, "profile_picture"), Lookup(author, "profile_picture")),
		})
	}
	return profiles
}

// CanonicalProfileURL rewrites a bare username or slug into an absolute
// profile URL. Absolute URLs are returned unchanged.
func CanonicalProfileURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return ProfileBaseURL + strings.TrimLeft(raw, "/")
}
