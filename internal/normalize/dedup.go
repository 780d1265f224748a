package normalize

import (
	"strings"

	"postreach/internal/domain"
)

// CanonicalKey is the identity used to compare profiles: the lowercase
// profile URL without trailing slashes.
func CanonicalKey(profileURL string) string {
	return strings.TrimRight(strings.ToLower(profileURL), "/")
}

// Deduplicate keeps the first profile seen for each canonical key, preserving
// input order. Profiles with an empty key are dropped.
func Deduplicate(profiles []domain.Profile) []domain.Profile {
	seen := make(map[string]struct{}, len(profiles))
	unique := make([]domain.Profile, 0, len(profiles))

	for _, p := range profiles {
		key := CanonicalKey(p.ProfileURL)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
