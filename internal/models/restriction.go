package models

// RestrictionType classifies content restrictions detected in metadata.
type RestrictionType string

const (
	RestrictionNone          RestrictionType = "none"
	RestrictionDrm           RestrictionType = "drm"
	RestrictionPremium       RestrictionType = "premium"
	RestrictionMembersOnly   RestrictionType = "members_only"
	RestrictionPaidContent   RestrictionType = "paid"
	RestrictionAgeRestricted RestrictionType = "age_restricted"
	RestrictionGeoBlocked    RestrictionType = "geo_blocked"
	RestrictionPrivate       RestrictionType = "private"
)

// IsPermanent reports whether the restriction has no workaround.
func (r RestrictionType) IsPermanent() bool {
	switch r {
	case RestrictionDrm, RestrictionPremium, RestrictionPaidContent:
		return true
	}
	return false
}

// RestrictionInfo describes a content restriction for UI display.
type RestrictionInfo struct {
	Type           RestrictionType
	IsDownloadable bool
	Message        string
	Suggestions    []string
}

// NoRestriction returns the unrestricted value.
func NoRestriction() RestrictionInfo {
	return RestrictionInfo{Type: RestrictionNone, IsDownloadable: true}
}

// DrmRestriction returns restriction info for DRM-protected content.
func DrmRestriction(contentType string) RestrictionInfo {
	return RestrictionInfo{
		Type:           RestrictionDrm,
		IsDownloadable: false,
		Message:        "This " + contentType + " is DRM-protected and cannot be downloaded.",
		Suggestions: []string{
			"Available offline in the platform's own app (with a subscription)",
			"Can be screen-recorded",
			"Cannot be downloaded as a file",
		},
	}
}

// PremiumRestriction returns restriction info for subscription-locked content.
func PremiumRestriction() RestrictionInfo {
	return RestrictionInfo{
		Type:           RestrictionPremium,
		IsDownloadable: false,
		Message:        "This content requires a premium subscription.",
		Suggestions: []string{
			"Available offline in the platform's own app (with a subscription)",
			"Cannot be downloaded as a file",
		},
	}
}

// MembersOnlyRestriction returns restriction info for membership-gated content.
// Downloadable with cookies from a member account.
func MembersOnlyRestriction() RestrictionInfo {
	return RestrictionInfo{
		Type:           RestrictionMembersOnly,
		IsDownloadable: true,
		Message:        "This video requires channel membership.",
		Suggestions: []string{
			"Use cookies from a browser where you're a member",
			"Cannot be downloaded without membership",
		},
	}
}

// PaidRestriction returns restriction info for purchase/rental content.
func PaidRestriction() RestrictionInfo {
	return RestrictionInfo{
		Type:           RestrictionPaidContent,
		IsDownloadable: false,
		Message:        "This content requires purchase or rental.",
		Suggestions: []string{
			"This is paid content (movie/rental)",
			"Cannot be downloaded (DRM protection)",
		},
	}
}

// AgeRestriction returns restriction info for age-gated content.
// Downloadable with cookies from a logged-in account.
func AgeRestriction() RestrictionInfo {
	return RestrictionInfo{
		Type:           RestrictionAgeRestricted,
		IsDownloadable: true,
		Message:        "This video is age-restricted.",
		Suggestions: []string{
			"Use cookies from a logged-in browser",
			"Your account must be 18+",
		},
	}
}
