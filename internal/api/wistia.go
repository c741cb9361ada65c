package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/ytget/course-dl/internal/model"
)

// DefaultWistiaBaseURL is the media metadata host
const DefaultWistiaBaseURL = "https://fast.wistia.com"

var (
	wistiaEmbedRe  = regexp.MustCompile(`fast\.wistia\.(?:com|net)/embed/medias/([a-zA-Z0-9]+)\.`)
	wistiaMediaRe  = regexp.MustCompile(`/embed/medias/([a-zA-Z0-9]+)`)
	wistiaIframeRe = regexp.MustCompile(`/embed/iframe/([a-zA-Z0-9]+)`)
	wistiaAsyncRe  = regexp.MustCompile(`wistia_async_([a-zA-Z0-9]+)`)

	// ErrNoWistiaID is returned when a player page embeds no media
	ErrNoWistiaID = errors.New("no wistia media id on page")

	// ErrLoginPage is returned when the player page is a login form
	ErrLoginPage = errors.New("player page is a login form; the cookie has likely expired, refresh COOKIE_DATA")
)

// WistiaMedia is the subset of the media metadata document in use
type WistiaMedia struct {
	HashedID string        `json:"hashedId"`
	Name     string        `json:"name"`
	Duration float64       `json:"duration"`
	Assets   []WistiaAsset `json:"assets"`
}

// WistiaAsset is one rendition of a media
type WistiaAsset struct {
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
	Bitrate     int    `json:"bitrate"`
	Ext         string `json:"ext"`
	Container   string `json:"container"`
}

// IsHLS reports whether the asset is an HLS playlist rather than a single file
func (a WistiaAsset) IsHLS() bool {
	return a.Container == "m3u8" || a.Ext == "m3u8" ||
		strings.Contains(a.Type, "hls") || strings.Contains(strings.SplitN(a.URL, "?", 2)[0], ".m3u8")
}

type wistiaResponse struct {
	Media *WistiaMedia `json:"media"`
}

// FetchWistiaID loads a lesson's player page and extracts the embedded
// Wistia media id
func (c *Client) FetchWistiaID(ctx context.Context, playerURL string) (string, error) {
	op := "scraping player page " + redactQuery(playerURL)
	body, err := c.getPage(ctx, op, playerURL)
	if err != nil {
		return "", err
	}
	id, err := ExtractWistiaID(body)
	if err != nil {
		if errors.Is(err, ErrLoginPage) {
			return "", model.NewError(model.ErrorKindAuth, op, err)
		}
		return "", model.NewError(model.ErrorKindParse, op, err)
	}
	log.WithFields(log.Fields{"url": redactQuery(playerURL), "media": id}).Debug("found wistia media")
	return id, nil
}

// ExtractWistiaID finds the media id in a player page. Script and iframe
// sources and wistia_async_ embed classes are checked first, then the raw
// body. A login form yields an error instead of an id.
func ExtractWistiaID(page []byte) (string, error) {
	if bytes.Contains(page, []byte("Log In")) && bytes.Contains(page, []byte("password")) {
		return "", ErrLoginPage
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err == nil {
		var id string
		doc.Find("script[src], iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			for _, re := range []*regexp.Regexp{wistiaEmbedRe, wistiaMediaRe, wistiaIframeRe} {
				if m := re.FindStringSubmatch(src); m != nil {
					id = m[1]
					return false
				}
			}
			return true
		})
		if id != "" {
			return id, nil
		}
		doc.Find("[class*='wistia_async_']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			if m := wistiaAsyncRe.FindStringSubmatch(class); m != nil {
				id = m[1]
				return false
			}
			return true
		})
		if id != "" {
			return id, nil
		}
	}

	for _, re := range []*regexp.Regexp{wistiaEmbedRe, wistiaMediaRe} {
		if m := re.FindSubmatch(page); m != nil {
			return string(m[1]), nil
		}
	}
	return "", ErrNoWistiaID
}

// FetchWistiaMedia loads the metadata document of a media
func (c *Client) FetchWistiaMedia(ctx context.Context, mediaID string) (*WistiaMedia, error) {
	op := "fetching wistia media " + mediaID
	endpoint := fmt.Sprintf("%s/embed/medias/%s.json", c.wistiaBase, mediaID)

	var resp wistiaResponse
	if err := c.getJSON(ctx, op, endpoint, false, &resp); err != nil {
		return nil, err
	}
	if resp.Media == nil {
		return nil, model.Errorf(model.ErrorKindParse, op, "response has no media object")
	}
	if resp.Media.HashedID == "" {
		resp.Media.HashedID = mediaID
	}
	return resp.Media, nil
}
