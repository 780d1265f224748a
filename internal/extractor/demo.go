package extractor

import "postreach/internal/domain"

func (s *Service) applyDemo(result *domain.ExtractionResult) {
	profiles := DemoProfiles()
	reactions, comments := domain.CountByEngagement(profiles)

	result.Profiles = profiles
	result.TotalCount = len(profiles)
	result.ReactionCount = reactions
	result.CommentCount = comments
	result.Message = MessageDemo
	result.DemoMode = true
}

// DemoProfiles returns a fixed set of sample profiles.
func DemoProfiles() []domain.Profile {
	reaction := func(slug, name, headline, kind string) domain.Profile {
		return domain.Profile{
			ProfileURL:     "https://www.linkedin.com/in/" + slug,
			Name:           name,
			Headline:       headline,
			EngagementType: domain.EngagementReaction,
			ReactionType:   kind,
		}
	}
	comment := func(slug, name, headline, text string) domain.Profile {
		return domain.Profile{
			ProfileURL:     "https://www.linkedin.com/in/" + slug,
			Name:           name,
			Headline:       headline,
			EngagementType: domain.EngagementComment,
			CommentText:    text,
		}
	}

	return []domain.Profile{
		reaction("sarah-johnson-tech", "Sarah Johnson", "Senior Product Manager at Google", "LIKE"),
		reaction("michael-chen-dev", "Michael Chen", "Full Stack Developer | React | Node.js", "CELEBRATE"),
		comment("emily-rodriguez-marketing", "Emily Rodriguez", "Digital Marketing Strategist", "Great insights! This really resonates with my experience."),
		reaction("david-kumar-startup", "David Kumar", "Startup Founder | Y Combinator W23", "INSIGHTFUL"),
		comment("lisa-wang-ux", "Lisa Wang", "UX Designer at Meta", "Thanks for sharing this perspective!"),
		reaction("james-wilson-ai", "James Wilson", "AI/ML Engineer | Ex-OpenAI", "LOVE"),
		reaction("anna-martinez-hr", "Anna Martinez", "HR Director | People Operations", "SUPPORT"),
		comment("robert-taylor-finance", "Robert Taylor", "CFO at Fortune 500 Company", "Excellent analysis. Would love to connect and discuss further."),
	}
}
