package resolve

import (
	"errors"
	"testing"

	"github.com/ytget/course-dl/internal/api"
)

func TestSelectQuality(t *testing.T) {
	assets := []api.WistiaAsset{
		{DisplayName: "Original file", Type: "original", URL: "u-orig", Height: 2160},
		{DisplayName: "1080p", Type: "hd_mp4_video", URL: "u-1080", Bitrate: 4000},
		{DisplayName: "360p", Type: "mp4_video", URL: "u-360"},
		{DisplayName: "540p", Type: "md_mp4_video", URL: "u-540"},
		{DisplayName: "540p", Type: "hls_video", URL: "u-540.m3u8"},
		{Type: "still_image", URL: "u-thumb", Height: 720},
		{DisplayName: "224p", Type: "iphone_video", URL: ""},
	}

	tests := []struct {
		target      string
		wantURL     string
		wantQuality string
	}{
		{"1080p", "u-1080", "1080p"},
		{"540p", "u-540", "540p"},
		{"720p", "u-540", "540p"},
		{"2160p", "u-1080", "1080p"},
		{"224p", "u-360", "360p"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			asset, quality, err := SelectQuality(assets, tt.target)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if asset.URL != tt.wantURL || quality != tt.wantQuality {
				t.Errorf("Expected %s (%s), got %s (%s)", tt.wantURL, tt.wantQuality, asset.URL, quality)
			}
		})
	}
}

func TestSelectQuality_Deterministic(t *testing.T) {
	assets := []api.WistiaAsset{
		{DisplayName: "720p", Type: "hd_mp4_video", URL: "low", Bitrate: 1000},
		{DisplayName: "720p", Type: "hd_mp4_video", URL: "high", Bitrate: 2000},
	}
	for i := 0; i < 5; i++ {
		asset, _, _ := SelectQuality(assets, "720p")
		if asset.URL != "high" {
			t.Fatalf("Expected higher bitrate asset, got %s", asset.URL)
		}
	}
}

func TestSelectQuality_HeightFallback(t *testing.T) {
	assets := []api.WistiaAsset{{Type: "mp4_video", URL: "u", Height: 480}}
	_, quality, err := SelectQuality(assets, "720p")
	if err != nil || quality != "480p" {
		t.Errorf("Expected 480p from pixel height, got %q (%v)", quality, err)
	}
}

func TestSelectQuality_NoRenditions(t *testing.T) {
	_, _, err := SelectQuality([]api.WistiaAsset{{Type: "storyboard", URL: "x"}}, "720p")
	if !errors.Is(err, ErrNoRenditions) {
		t.Errorf("Expected ErrNoRenditions, got %v", err)
	}
}
