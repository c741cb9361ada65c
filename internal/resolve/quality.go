package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ytget/course-dl/internal/api"
	"github.com/ytget/course-dl/internal/model"
)

// ErrNoRenditions is returned when a media has no downloadable video asset
var ErrNoRenditions = errors.New("media has no video renditions")

type rendition struct {
	asset  api.WistiaAsset
	height int
}

// SelectQuality picks the asset matching target ("720p"), else the nearest
// lower quality, else the lowest available. Among assets of the same height
// a progressive file beats HLS and a higher bitrate wins. It returns the
// chosen asset and its quality name.
func SelectQuality(assets []api.WistiaAsset, target string) (api.WistiaAsset, string, error) {
	var renditions []rendition
	for _, a := range assets {
		if a.URL == "" || !isVideoAsset(a) {
			continue
		}
		h := assetHeight(a)
		if h <= 0 {
			continue
		}
		renditions = append(renditions, rendition{asset: a, height: h})
	}
	if len(renditions) == 0 {
		return api.WistiaAsset{}, "", ErrNoRenditions
	}

	sort.SliceStable(renditions, func(i, j int) bool {
		a, b := renditions[i], renditions[j]
		if a.height != b.height {
			return a.height < b.height
		}
		if a.asset.IsHLS() != b.asset.IsHLS() {
			return !a.asset.IsHLS()
		}
		return a.asset.Bitrate > b.asset.Bitrate
	})

	want := model.QualityHeight(target)
	chosen := -1
	for i, r := range renditions {
		if r.height == want {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		for i, r := range renditions {
			if r.height < want && (chosen < 0 || r.height > renditions[chosen].height) {
				chosen = i
			}
		}
	}
	if chosen < 0 {
		chosen = 0
	}

	r := renditions[chosen]
	return r.asset, fmt.Sprintf("%dp", r.height), nil
}

func isVideoAsset(a api.WistiaAsset) bool {
	switch a.Type {
	case "original", "still_image", "storyboard":
		return false
	case "":
		return true
	}
	return strings.Contains(a.Type, "video")
}

// assetHeight prefers the display name ("1080p") and falls back to the
// reported pixel height
func assetHeight(a api.WistiaAsset) int {
	if h := model.QualityHeight(a.DisplayName); h > 0 {
		return h
	}
	return a.Height
}
