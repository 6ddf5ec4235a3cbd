// Package formats turns the raw format list reported by an extraction tool
// into a short menu of quality choices and produces the selector expression
// a download pass hands to the tool.
package formats

import (
	"fmt"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
)

// heightTolerance* bound the band a format may deviate from a target height
// and still fill that bucket (540p fills the 480p slot, 1152p fills 1080p).
const (
	heightToleranceNum = 1
	heightToleranceDen = 10
)

// codecOverride* control when a non-H.264 format displaces the best H.264
// one: only when its height exceeds the H.264 height by half again (4K VP9
// over 1080p avc1, not 1440p over 1080p).
const (
	codecOverrideNum = 3
	codecOverrideDen = 2
)

var bucketTargets = []struct {
	label  string
	height int
}{
	{consts.Quality1080p, 1080},
	{consts.Quality720p, 720},
	{consts.Quality480p, 480},
	{consts.Quality360p, 360},
}

// BuildQualityOptions derives the quality menu from raw formats: one "best"
// entry, one entry per standard resolution that has a real format within
// tolerance, and an audio-only entry. Estimated sizes for video-only
// formats include the best audio stream that would be merged in.
func BuildQualityOptions(raw []models.RawFormat) []models.FormatOption {
	var video, audio []*models.RawFormat
	for i := range raw {
		f := &raw[i]
		switch {
		case f.HasVideo():
			video = append(video, f)
		case f.HasAudio():
			audio = append(audio, f)
		}
	}

	bestAudio := findBestAudio(audio)
	var bestAudioSize int64
	if bestAudio != nil {
		bestAudioSize = bestAudio.EffectiveSize()
	}

	options := make([]models.FormatOption, 0, len(bucketTargets)+2)

	if best := findBestVideo(video); best != nil {
		options = append(options, models.FormatOption{
			Label:         fmt.Sprintf("Best Quality (%dx%d)", best.Width, best.Height),
			Value:         consts.QualityBest,
			FormatSpec:    "bv*+ba/best",
			EstimatedSize: formatSize(mergedSize(best, bestAudioSize)),
			CodecInfo:     codecLabel(best),
			Height:        best.Height,
			IsRecommended: best.IsH264(),
		})
	} else {
		options = append(options, models.FormatOption{
			Label:         "Best Quality",
			Value:         consts.QualityBest,
			FormatSpec:    "bv*+ba/best",
			IsRecommended: true,
		})
	}

	for _, target := range bucketTargets {
		f := findByHeight(video, target.height)
		if f == nil {
			continue
		}
		// Same resolution as the best entry adds nothing to the menu.
		if f.Height == options[0].Height {
			continue
		}

		options = append(options, models.FormatOption{
			Label:         fmt.Sprintf("%s (%dx%d)", target.label, f.Width, f.Height),
			Value:         target.label,
			FormatSpec:    fmt.Sprintf("bv*[height<=%d]+ba/b[height<=%d]/bv*+ba/best", target.height, target.height),
			EstimatedSize: formatSize(mergedSize(f, bestAudioSize)),
			CodecInfo:     codecLabel(f),
			Height:        f.Height,
			IsRecommended: f.IsH264(),
		})
	}

	audioOpt := models.FormatOption{
		Label:      "Audio Only (MP3)",
		Value:      consts.QualityAudio,
		FormatSpec: "ba/b",
		IsAudio:    true,
	}
	if bestAudio != nil {
		audioOpt.EstimatedSize = formatSize(bestAudio.EffectiveSize())
		audioOpt.CodecInfo = bestAudio.ACodec
	}
	options = append(options, audioOpt)

	return options
}

// mergedSize estimates the final file size. A video-only format gets the
// best audio stream merged in; a combined format already carries audio.
func mergedSize(f *models.RawFormat, bestAudioSize int64) int64 {
	size := f.EffectiveSize()
	if size == 0 {
		return 0
	}
	if f.HasAudio() {
		return size
	}
	return size + bestAudioSize
}

// findBestVideo picks the best video format with an H.264 preference. A
// different codec wins only when it offers substantially more resolution.
func findBestVideo(formats []*models.RawFormat) *models.RawFormat {
	var bestH264, bestAny *models.RawFormat
	for _, f := range formats {
		if betterVideo(f, bestAny) {
			bestAny = f
		}
		if f.IsH264() && betterVideo(f, bestH264) {
			bestH264 = f
		}
	}

	if bestH264 == nil {
		return bestAny
	}
	if bestAny != nil && bestAny.Height > bestH264.Height*codecOverrideNum/codecOverrideDen {
		return bestAny
	}
	return bestH264
}

// betterVideo orders by height, breaking ties on size.
func betterVideo(f, cur *models.RawFormat) bool {
	if cur == nil {
		return true
	}
	if f.Height != cur.Height {
		return f.Height > cur.Height
	}
	return f.EffectiveSize() > cur.EffectiveSize()
}

// findByHeight finds a format within tolerance of the target height,
// preferring H.264, then the largest file.
func findByHeight(formats []*models.RawFormat, target int) *models.RawFormat {
	min := target - target*heightToleranceNum/heightToleranceDen
	max := target + target*heightToleranceNum/heightToleranceDen

	var h264, largest *models.RawFormat
	for _, f := range formats {
		if f.Height < min || f.Height > max {
			continue
		}
		if f.IsH264() && h264 == nil {
			h264 = f
		}
		if largest == nil || f.EffectiveSize() > largest.EffectiveSize() {
			largest = f
		}
	}

	if h264 != nil {
		return h264
	}
	return largest
}

// findBestAudio prefers the highest-bitrate AAC stream, then any highest
// bitrate.
func findBestAudio(formats []*models.RawFormat) *models.RawFormat {
	var aac, any *models.RawFormat
	for _, f := range formats {
		if any == nil || f.ABR > any.ABR {
			any = f
		}
		if f.IsAAC() && (aac == nil || f.ABR > aac.ABR) {
			aac = f
		}
	}
	if aac != nil {
		return aac
	}
	return any
}

func formatSize(bytes int64) string {
	if bytes == 0 {
		return ""
	}
	mb := float64(bytes) / 1048576.0
	if mb >= 1024.0 {
		return fmt.Sprintf("%.1f GB", mb/1024.0)
	}
	return fmt.Sprintf("%.0f MB", mb)
}

func codecLabel(f *models.RawFormat) string {
	switch {
	case f.IsH264():
		return "H.264"
	case f.IsVP9():
		return "VP9"
	case f.IsAV1():
		return "AV1"
	case f.VCodec == "":
		return "Unknown"
	default:
		// Trim the profile suffix ("hev1.1.6.L120.90" -> "hev1").
		for i, c := range f.VCodec {
			if c == '.' {
				return f.VCodec[:i]
			}
		}
		return f.VCodec
	}
}

// Spec returns the yt-dlp format selector for a quality and codec choice.
// The H.264 branch pins avc1 video and AAC audio first so the result plays
// in QuickTime without transcoding; each spec degrades through progressively
// looser alternatives rather than failing.
func Spec(quality, codec string) string {
	if codec == consts.CodecH264 {
		switch quality {
		case consts.QualityBest:
			return "bv*[vcodec^=avc1]+ba[acodec^=mp4a]/bv*[vcodec^=avc]+ba/bv*+ba/best"
		case consts.Quality1080p:
			return "bv*[height<=1080][vcodec^=avc1]+ba[acodec^=mp4a]/bv*[height<=1080]+ba/best"
		case consts.Quality720p:
			return "bv*[height<=720][vcodec^=avc1]+ba[acodec^=mp4a]/bv*[height<=720]+ba/best"
		case consts.Quality480p:
			return "bv*[height<=480][vcodec^=avc1]+ba[acodec^=mp4a]/bv*[height<=480]+ba/best"
		case consts.Quality360p:
			return "bv*[height<=360][vcodec^=avc1]+ba[acodec^=mp4a]/bv*[height<=360]+ba/best"
		case consts.QualityAudio:
			return "ba[acodec^=mp4a]/ba/b"
		default:
			return "bv*[vcodec^=avc1]+ba[acodec^=mp4a]/bv*+ba/best"
		}
	}

	switch quality {
	case consts.QualityBest:
		return "bv*+ba/best"
	case consts.Quality1080p:
		return "bv*[height<=1080]+ba/best"
	case consts.Quality720p:
		return "bv*[height<=720]+ba/best"
	case consts.Quality480p:
		return "bv*[height<=480]+ba/best"
	case consts.Quality360p:
		return "bv*[height<=360]+ba/best"
	case consts.QualityAudio:
		return "ba/b"
	default:
		return "bv*+ba/best"
	}
}
