package formats

import (
	"strings"
	"testing"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
)

func vf(id string, height int, vcodec string, size int64) models.RawFormat {
	return models.RawFormat{
		FormatID: id,
		Width:    height * 16 / 9,
		Height:   height,
		VCodec:   vcodec,
		ACodec:   "none",
		Filesize: size,
	}
}

func af(id, acodec string, abr float64, size int64) models.RawFormat {
	return models.RawFormat{
		FormatID: id,
		VCodec:   "none",
		ACodec:   acodec,
		ABR:      abr,
		Filesize: size,
	}
}

func TestBuildQualityOptionsPrefersH264(t *testing.T) {
	t.Parallel()

	// VP9 at 1440p is available but does not exceed 1080p by more than
	// half, so the compatible H.264 1080p stays the best choice.
	opts := BuildQualityOptions([]models.RawFormat{
		vf("248", 1080, "avc1.640028", 90_000_000),
		vf("271", 1440, "vp9", 120_000_000),
		af("140", "mp4a.40.2", 128, 5_000_000),
	})

	if len(opts) == 0 {
		t.Fatal("expected options")
	}
	best := opts[0]
	if best.Value != consts.QualityBest {
		t.Fatalf("first option should be best, got %q", best.Value)
	}
	if best.Height != 1080 || best.CodecInfo != "H.264" {
		t.Fatalf("expected 1080p H.264 best, got height=%d codec=%q", best.Height, best.CodecInfo)
	}
	if !best.IsRecommended {
		t.Fatal("H.264 best should be recommended")
	}
}

func TestBuildQualityOptionsCodecOverride(t *testing.T) {
	t.Parallel()

	// 4K VP9 against 1080p H.264 clears the override threshold.
	opts := BuildQualityOptions([]models.RawFormat{
		vf("248", 1080, "avc1.640028", 90_000_000),
		vf("313", 2160, "vp9", 400_000_000),
		af("140", "mp4a.40.2", 128, 5_000_000),
	})

	best := opts[0]
	if best.Height != 2160 || best.CodecInfo != "VP9" {
		t.Fatalf("expected 2160p VP9 best, got height=%d codec=%q", best.Height, best.CodecInfo)
	}
	if best.IsRecommended {
		t.Fatal("non-H.264 best should not be recommended")
	}
}

func TestBuildQualityOptionsBuckets(t *testing.T) {
	t.Parallel()

	// 1152 falls inside the 1080 tolerance band; 540 inside 480's.
	opts := BuildQualityOptions([]models.RawFormat{
		vf("a", 2160, "vp9", 400_000_000),
		vf("b", 1152, "avc1.64002a", 80_000_000),
		vf("c", 540, "avc1.4d401f", 20_000_000),
		af("140", "mp4a.40.2", 128, 5_000_000),
	})

	var values []string
	for _, o := range opts {
		values = append(values, o.Value)
	}
	joined := strings.Join(values, ",")
	if !strings.Contains(joined, consts.Quality1080p) {
		t.Fatalf("expected a 1080p bucket in %q", joined)
	}
	if !strings.Contains(joined, consts.Quality480p) {
		t.Fatalf("expected a 480p bucket in %q", joined)
	}
	if strings.Contains(joined, consts.Quality720p) {
		t.Fatalf("no format is near 720, yet bucket present in %q", joined)
	}
}

func TestBuildQualityOptionsSkipsBucketMatchingBest(t *testing.T) {
	t.Parallel()

	opts := BuildQualityOptions([]models.RawFormat{
		vf("248", 1080, "avc1.640028", 90_000_000),
		af("140", "mp4a.40.2", 128, 5_000_000),
	})

	for _, o := range opts[1:] {
		if o.Value == consts.Quality1080p {
			t.Fatal("1080p bucket duplicates the best entry")
		}
	}
}

func TestBuildQualityOptionsAddsAudioSizeToVideoOnly(t *testing.T) {
	t.Parallel()

	opts := BuildQualityOptions([]models.RawFormat{
		vf("248", 1080, "avc1.640028", 1_043_000_000),
		af("140", "mp4a.40.2", 128, 30_000_000),
	})

	// 1043 MB video + 30 MB audio crosses the GB display threshold.
	if opts[0].EstimatedSize != "1.0 GB" {
		t.Fatalf("expected merged size 1.0 GB, got %q", opts[0].EstimatedSize)
	}
}

func TestBuildQualityOptionsAlwaysOffersAudio(t *testing.T) {
	t.Parallel()

	opts := BuildQualityOptions(nil)
	if len(opts) != 2 {
		t.Fatalf("expected best + audio entries, got %d", len(opts))
	}
	last := opts[len(opts)-1]
	if !last.IsAudio || last.Value != consts.QualityAudio {
		t.Fatalf("last option should be audio-only, got %+v", last)
	}
}

func TestBuildQualityOptionsIdempotent(t *testing.T) {
	t.Parallel()

	raw := []models.RawFormat{
		vf("248", 1080, "avc1.640028", 90_000_000),
		vf("c", 540, "avc1.4d401f", 20_000_000),
		af("140", "mp4a.40.2", 128, 5_000_000),
	}

	a := BuildQualityOptions(raw)
	b := BuildQualityOptions(raw)
	if len(a) != len(b) {
		t.Fatalf("option counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("option %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSpecH264PinsCodecs(t *testing.T) {
	t.Parallel()

	spec := Spec(consts.Quality720p, consts.CodecH264)
	want := "bv*[height<=720][vcodec^=avc1]+ba[acodec^=mp4a]/bv*[height<=720]+ba/best"
	if spec != want {
		t.Fatalf("got %q, want %q", spec, want)
	}

	if got := Spec(consts.QualityAudio, consts.CodecH264); got != "ba[acodec^=mp4a]/ba/b" {
		t.Fatalf("unexpected audio spec %q", got)
	}
}

func TestSpecAnyCodec(t *testing.T) {
	t.Parallel()

	if got := Spec(consts.Quality1080p, consts.CodecAny); got != "bv*[height<=1080]+ba/best" {
		t.Fatalf("unexpected spec %q", got)
	}
	if got := Spec("weird", consts.CodecAny); got != "bv*+ba/best" {
		t.Fatalf("unknown quality should fall back to best, got %q", got)
	}
}
