package download

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"

	"github.com/ytget/course-dl/internal/model"
)

// hlsSegments resolves a master or media playlist into its media segments
// and the path of the media playlist they came from. For a master playlist
// the variant closest to the engine's quality is used.
func (e *Engine) hlsSegments(ctx context.Context, op, playlistURL string) ([]segment, string, error) {
	playlist, base, err := e.fetchPlaylist(ctx, op, playlistURL)
	if err != nil {
		return nil, "", err
	}

	if master, ok := playlist.(*m3u8.MasterPlaylist); ok {
		variant := selectVariant(master.Variants, model.QualityHeight(e.quality))
		if variant == nil {
			return nil, "", model.Errorf(model.ErrorKindParse, op, "master playlist has no variants")
		}
		variantURL, err := base.Parse(variant.URI)
		if err != nil {
			return nil, "", model.NewError(model.ErrorKindParse, op, err)
		}
		playlist, base, err = e.fetchPlaylist(ctx, op, variantURL.String())
		if err != nil {
			return nil, "", err
		}
	}

	media, ok := playlist.(*m3u8.MediaPlaylist)
	if !ok {
		return nil, "", model.Errorf(model.ErrorKindParse, op, "variant is not a media playlist")
	}
	segments, err := mediaSegments(op, media, base)
	if err != nil {
		return nil, "", err
	}
	// the query often carries a signature that changes between runs
	return segments, base.Path, nil
}

func (e *Engine) fetchPlaylist(ctx context.Context, op, rawURL string) (m3u8.Playlist, *url.URL, error) {
	resp, err := e.fetcher.Open(ctx, rawURL, 0, -1)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	playlist, _, err := m3u8.DecodeFrom(resp.Body, false)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, model.NewError(model.ErrorKindParse, op, err)
	}

	// relative URIs resolve against the final URL after redirects
	var base *url.URL
	if resp.Request != nil {
		base = resp.Request.URL
	}
	if base == nil {
		if base, err = url.Parse(rawURL); err != nil {
			return nil, nil, model.NewError(model.ErrorKindParse, op, err)
		}
	}
	return playlist, base, nil
}

// mediaSegments lists the segments of a media playlist with absolute URLs.
// An init section (EXT-X-MAP) becomes the first segment.
func mediaSegments(op string, media *m3u8.MediaPlaylist, base *url.URL) ([]segment, error) {
	if encrypted(media.Key) {
		return nil, model.Errorf(model.ErrorKindParse, op, "encrypted HLS (%s) is not supported", media.Key.Method)
	}

	var segments []segment
	add := func(ref string, offset, limit int64) error {
		u, err := base.Parse(ref)
		if err != nil {
			return model.NewError(model.ErrorKindParse, op, err)
		}
		seg := segment{url: u.String(), end: -1}
		if limit > 0 {
			seg.offset = offset
			seg.end = offset + limit - 1
		}
		segments = append(segments, seg)
		return nil
	}

	lastMap := ""
	if media.Map != nil && media.Map.URI != "" {
		if err := add(media.Map.URI, media.Map.Offset, media.Map.Limit); err != nil {
			return nil, err
		}
		lastMap = media.Map.URI
	}

	for _, s := range media.Segments {
		if s == nil {
			continue
		}
		if encrypted(s.Key) {
			return nil, model.Errorf(model.ErrorKindParse, op, "encrypted HLS (%s) is not supported", s.Key.Method)
		}
		if s.Map != nil && s.Map.URI != "" && s.Map.URI != lastMap {
			if err := add(s.Map.URI, s.Map.Offset, s.Map.Limit); err != nil {
				return nil, err
			}
			lastMap = s.Map.URI
		}
		if err := add(s.URI, s.Offset, s.Limit); err != nil {
			return nil, err
		}
	}
	return segments, nil
}

func encrypted(key *m3u8.Key) bool {
	return key != nil && key.Method != "" && !strings.EqualFold(key.Method, "NONE")
}

// selectVariant picks the tallest variant not above maxHeight, preferring
// higher bandwidth; when every variant is taller the smallest one. A zero
// maxHeight picks the best variant.
func selectVariant(variants []*m3u8.Variant, maxHeight int) *m3u8.Variant {
	var candidates []*m3u8.Variant
	for _, v := range variants {
		if v != nil && v.URI != "" && !v.Iframe {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		hi, hj := variantHeight(candidates[i]), variantHeight(candidates[j])
		if hi != hj {
			return hi < hj
		}
		return candidates[i].Bandwidth < candidates[j].Bandwidth
	})

	if maxHeight <= 0 {
		return candidates[len(candidates)-1]
	}
	for i := len(candidates) - 1; i >= 0; i-- {
		if variantHeight(candidates[i]) <= maxHeight {
			return candidates[i]
		}
	}
	return candidates[0]
}

// variantHeight reads the height from a RESOLUTION attribute like 1280x720
func variantHeight(v *m3u8.Variant) int {
	_, h, ok := strings.Cut(strings.ToLower(v.Resolution), "x")
	if !ok {
		return 0
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0
	}
	return height
}
