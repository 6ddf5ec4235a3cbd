// Package models holds shared data types passed between packages.
package models

import (
	"strings"
	"time"
)

// RawFormat is a single format entry parsed from the extraction tool's
// JSON output.
type RawFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	FPS            float64 `json:"fps,omitempty"`
	VCodec         string  `json:"vcodec,omitempty"`
	ACodec         string  `json:"acodec,omitempty"`
	Filesize       int64   `json:"filesize,omitempty"`
	FilesizeApprox int64   `json:"filesize_approx,omitempty"`
	TBR            float64 `json:"tbr,omitempty"`
	ABR            float64 `json:"abr,omitempty"`
	VBR            float64 `json:"vbr,omitempty"`
	FormatNote     string  `json:"format_note,omitempty"`
}

// EffectiveSize returns the exact filesize when known, else the approximate.
func (f *RawFormat) EffectiveSize() int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	return f.FilesizeApprox
}

// HasVideo reports whether the format carries a video stream.
func (f *RawFormat) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio stream.
func (f *RawFormat) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// AudioOnly reports whether the format is audio without video.
func (f *RawFormat) AudioOnly() bool {
	return f.HasAudio() && !f.HasVideo()
}

// IsH264 reports whether the video codec is H.264 (avc1).
func (f *RawFormat) IsH264() bool {
	return strings.HasPrefix(f.VCodec, "avc1") || strings.HasPrefix(f.VCodec, "avc")
}

// IsVP9 reports whether the video codec is VP9.
func (f *RawFormat) IsVP9() bool {
	return strings.HasPrefix(f.VCodec, "vp9") || strings.HasPrefix(f.VCodec, "vp09")
}

// IsAV1 reports whether the video codec is AV1.
func (f *RawFormat) IsAV1() bool {
	return strings.HasPrefix(f.VCodec, "av01")
}

// IsAAC reports whether the audio codec is AAC (mp4a).
func (f *RawFormat) IsAAC() bool {
	return strings.HasPrefix(f.ACodec, "mp4a")
}

// RawVideoInfo is the full parsed metadata record for a single video.
type RawVideoInfo struct {
	ID         string
	Title      string
	Uploader   string
	Duration   time.Duration
	Thumbnail  string
	WebpageURL string
	UploadDate time.Time
	Formats    []RawFormat
}

// FormatOption is a UI-facing quality choice derived from raw formats.
type FormatOption struct {
	Label         string
	Value         string
	FormatSpec    string
	EstimatedSize string
	CodecInfo     string
	Height        int
	IsAudio       bool
	IsRecommended bool
}

// VideoInfo is the caller-facing metadata result.
type VideoInfo struct {
	ID          string
	Title       string
	Uploader    string
	Duration    string
	Thumbnail   string
	UploadDate  time.Time
	Formats     []FormatOption
	Restriction RestrictionInfo
}
