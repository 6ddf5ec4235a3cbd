package extract

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// metadataPayload is the subset of the tool's JSON dump we consume. Fields
// beyond RawFormat that only matter for restriction detection live in
// payloadFormat.
type metadataPayload struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Uploader     string          `json:"uploader"`
	Duration     float64         `json:"duration"`
	Thumbnail    string          `json:"thumbnail"`
	WebpageURL   string          `json:"webpage_url"`
	UploadDate   string          `json:"upload_date"`
	Availability string          `json:"availability"`
	AgeLimit     int             `json:"age_limit"`
	Description  string          `json:"description"`
	Extractor    string          `json:"extractor"`
	Categories   []string        `json:"categories"`
	IsLive       bool            `json:"is_live"`
	LiveStatus   string          `json:"live_status"`
	Formats      []payloadFormat `json:"formats"`

	IsPremium       bool `json:"is_premium"`
	RequiresPremium bool `json:"requires_premium"`
	IsPaidVideo     bool `json:"is_paid_video"`
	RequiresPayment bool `json:"requires_payment"`
	PaidContent     bool `json:"paid_content"`
	SubscriberOnly  bool `json:"subscriber_only"`
	IsMemberOnly    bool `json:"is_member_only"`
}

type payloadFormat struct {
	models.RawFormat
	Drm      bool   `json:"drm"`
	HasDrm   bool   `json:"has_drm"`
	Protocol string `json:"protocol"`
	URL      string `json:"url"`
}

// parsePayload decodes one video's JSON dump.
func parsePayload(stdout []byte) (*metadataPayload, error) {
	var p metadataPayload
	if err := json.Unmarshal(stdout, &p); err != nil {
		return nil, &models.ClassifiedError{
			Code:    models.ErrCodeParse,
			Message: "could not parse the tool's metadata output",
			Err:     fmt.Errorf("metadata JSON: %w", err),
		}
	}
	return &p, nil
}

// rawInfo converts a payload into the shared metadata record.
func (p *metadataPayload) rawInfo() *models.RawVideoInfo {
	info := &models.RawVideoInfo{
		ID:         p.ID,
		Title:      p.Title,
		Uploader:   p.Uploader,
		Duration:   time.Duration(p.Duration * float64(time.Second)),
		Thumbnail:  p.Thumbnail,
		WebpageURL: p.WebpageURL,
	}

	if p.UploadDate != "" {
		if ts, err := dateparse.ParseAny(p.UploadDate); err == nil {
			info.UploadDate = ts
		} else {
			logging.D(2, "Unparseable upload_date %q: %v", p.UploadDate, err)
		}
	}

	info.Formats = make([]models.RawFormat, len(p.Formats))
	for i := range p.Formats {
		info.Formats[i] = p.Formats[i].RawFormat
	}
	return info
}

// formatClock renders a duration as M:SS for display.
func formatClock(d time.Duration) string {
	secs := int64(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
