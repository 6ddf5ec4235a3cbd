package extract

import (
	"strings"

	"grabarr/internal/models"
)

// detectRestriction inspects parsed metadata for content restrictions. The
// checks are ordered by confidence: an explicit age gate first, then DRM
// evidence in the format list, then paid/premium/membership heuristics.
func detectRestriction(p *metadataPayload) models.RestrictionInfo {
	if p == nil {
		return models.NoRestriction()
	}
	if p.AgeLimit >= 18 || p.Availability == "needs_auth" {
		return models.AgeRestriction()
	}

	desc := strings.ToLower(p.Description)
	title := strings.ToLower(p.Title)

	hasDrm := false
	allUndownloadable := len(p.Formats) == 0
	if len(p.Formats) > 0 {
		allUndownloadable = true
		for i := range p.Formats {
			f := &p.Formats[i]
			if f.Drm || f.HasDrm || strings.Contains(f.Protocol, "drm") {
				hasDrm = true
			}
			// Manifest-only entries with no direct URL cannot be fetched.
			manifestOnly := (f.Protocol == "m3u8_native" || f.Protocol == "http_dash_segments") && f.URL == ""
			if !manifestOnly {
				allUndownloadable = false
			}
		}
	}

	isMovie := false
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), "movie") {
			isMovie = true
			break
		}
	}

	isPaid := p.IsPaidVideo || p.RequiresPayment || p.PaidContent ||
		p.Availability == "premium_only" || isMovie

	isPremium := p.IsPremium || p.RequiresPremium ||
		strings.Contains(desc, "youtube premium") || strings.Contains(title, "premium")

	isMembersOnly := p.Availability == "subscriber_only" || p.SubscriberOnly ||
		p.IsMemberOnly || strings.Contains(desc, "members only") ||
		strings.Contains(desc, "members-only")

	isMusicPremium := isPremium &&
		(strings.Contains(p.Extractor, "music") || p.Extractor == "youtube:music")

	if hasDrm || allUndownloadable {
		contentType := "video"
		switch {
		case isMusicPremium:
			contentType = "music track"
		case isMovie:
			contentType = "movie"
		}
		return models.DrmRestriction(contentType)
	}

	if isPaid {
		return models.PaidRestriction()
	}
	if isPremium || isMusicPremium {
		return models.PremiumRestriction()
	}
	if isMembersOnly {
		return models.MembersOnlyRestriction()
	}

	return models.NoRestriction()
}
