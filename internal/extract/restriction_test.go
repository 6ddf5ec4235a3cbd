package extract

import (
	"testing"

	"grabarr/internal/models"
)

func TestDetectRestrictionAgeGate(t *testing.T) {
	t.Parallel()

	r := detectRestriction(&metadataPayload{AgeLimit: 18})
	if r.Type != models.RestrictionAgeRestricted {
		t.Fatalf("got %q, want age_restricted", r.Type)
	}
	if !r.IsDownloadable {
		t.Fatal("age-restricted content is downloadable with cookies")
	}

	r = detectRestriction(&metadataPayload{Availability: "needs_auth"})
	if r.Type != models.RestrictionAgeRestricted {
		t.Fatalf("needs_auth should classify as age_restricted, got %q", r.Type)
	}
}

func TestDetectRestrictionDrmFlag(t *testing.T) {
	t.Parallel()

	p := &metadataPayload{Formats: []payloadFormat{
		{RawFormat: models.RawFormat{FormatID: "1", VCodec: "avc1"}, HasDrm: true, URL: "https://x"},
	}}

	r := detectRestriction(p)
	if r.Type != models.RestrictionDrm {
		t.Fatalf("got %q, want drm", r.Type)
	}
	if r.IsDownloadable {
		t.Fatal("DRM content must not report downloadable")
	}
}

func TestDetectRestrictionManifestOnlyFormats(t *testing.T) {
	t.Parallel()

	// Every format is a manifest entry with no direct URL; that pattern
	// means the streams are protected even without an explicit DRM flag.
	p := &metadataPayload{Formats: []payloadFormat{
		{RawFormat: models.RawFormat{FormatID: "1"}, Protocol: "m3u8_native"},
		{RawFormat: models.RawFormat{FormatID: "2"}, Protocol: "http_dash_segments"},
	}}

	if r := detectRestriction(p); r.Type != models.RestrictionDrm {
		t.Fatalf("got %q, want drm", r.Type)
	}
}

func TestDetectRestrictionMembersOnly(t *testing.T) {
	t.Parallel()

	p := &metadataPayload{
		Availability: "subscriber_only",
		Formats: []payloadFormat{
			{RawFormat: models.RawFormat{FormatID: "1", VCodec: "avc1"}, URL: "https://x"},
		},
	}

	r := detectRestriction(p)
	if r.Type != models.RestrictionMembersOnly {
		t.Fatalf("got %q, want members_only", r.Type)
	}
	if !r.IsDownloadable {
		t.Fatal("members-only content is downloadable with member cookies")
	}
}

func TestDetectRestrictionPaidBeatsPremium(t *testing.T) {
	t.Parallel()

	p := &metadataPayload{
		IsPaidVideo: true,
		IsPremium:   true,
		Formats: []payloadFormat{
			{RawFormat: models.RawFormat{FormatID: "1", VCodec: "avc1"}, URL: "https://x"},
		},
	}

	if r := detectRestriction(p); r.Type != models.RestrictionPaidContent {
		t.Fatalf("got %q, want paid", r.Type)
	}
}

func TestDetectRestrictionPremiumFromDescription(t *testing.T) {
	t.Parallel()

	p := &metadataPayload{
		Description: "Only on YouTube Premium this month",
		Formats: []payloadFormat{
			{RawFormat: models.RawFormat{FormatID: "1", VCodec: "avc1"}, URL: "https://x"},
		},
	}

	if r := detectRestriction(p); r.Type != models.RestrictionPremium {
		t.Fatalf("got %q, want premium", r.Type)
	}
}

func TestDetectRestrictionNone(t *testing.T) {
	t.Parallel()

	p := &metadataPayload{
		Title: "A normal video",
		Formats: []payloadFormat{
			{RawFormat: models.RawFormat{FormatID: "1", VCodec: "avc1"}, URL: "https://x"},
		},
	}

	r := detectRestriction(p)
	if r.Type != models.RestrictionNone || !r.IsDownloadable {
		t.Fatalf("expected unrestricted, got %+v", r)
	}
}
