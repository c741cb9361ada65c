package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ytget/course-dl/internal/model"
)

// Request header values sent on every call
const (
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	AcceptJSON     = "application/json, text/javascript, */*; q=0.01"
	RequestedWith  = "XMLHttpRequest"
	LessonsPath    = "/api/course_player/v2/lessons/%d"
	QuizzesPath    = "/api/course_player/v2/quizzes/%d"
	DefaultTimeout = 60 * time.Second
	// maxErrorBody bounds how much of an error response is kept for messages
	maxErrorBody = 512
)

// Client talks to the course player API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cookie     string
	clientDate string
	limiter    *rate.Limiter
	wistiaBase string
	timeout    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds each metadata request. Streaming downloads are only
// bounded by the time to receive response headers.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit paces API requests to rps requests per second
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithClientDate adds a fixed Date header to API requests
func WithClientDate(date string) Option {
	return func(c *Client) {
		c.clientDate = date
	}
}

// WithWistiaBaseURL overrides the media metadata host
func WithWistiaBaseURL(base string) Option {
	return func(c *Client) {
		c.wistiaBase = strings.TrimRight(base, "/")
	}
}

// NewClient creates a client for the site hosting courseLink
func NewClient(courseLink, cookie string, options ...Option) (*Client, error) {
	u, err := url.Parse(courseLink)
	if err != nil {
		return nil, model.NewError(model.ErrorKindValidation, "parsing course link", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, model.Errorf(model.ErrorKindValidation, "parsing course link", "not an absolute URL: %q", courseLink)
	}

	c := &Client{
		baseURL:    &url.URL{Scheme: u.Scheme, Host: u.Host},
		cookie:     cookie,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		wistiaBase: DefaultWistiaBaseURL,
		timeout:    DefaultTimeout,
	}
	for _, option := range options {
		option(c)
	}
	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = c.timeout
		c.httpClient = &http.Client{Transport: transport}
	}
	return c, nil
}

// BaseURL returns scheme and host of the course site
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchSyllabus loads the course tree from the syllabus endpoint
func (c *Client) FetchSyllabus(ctx context.Context, courseLink string) (*model.Course, error) {
	log.WithField("url", courseLink).Info("fetching course syllabus")

	var resp syllabusResponse
	if err := c.getJSON(ctx, "fetching syllabus", courseLink, true, &resp); err != nil {
		return nil, err
	}
	return resp.toCourse(), nil
}

// FetchLesson loads the payload of a non-quiz lesson
func (c *Client) FetchLesson(ctx context.Context, contentID int64) (*LessonPayload, error) {
	endpoint := c.baseURL.String() + fmt.Sprintf(LessonsPath, contentID)
	var payload LessonPayload
	if err := c.getJSON(ctx, fmt.Sprintf("fetching lesson %d", contentID), endpoint, true, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchQuiz loads quiz questions and choices
func (c *Client) FetchQuiz(ctx context.Context, contentID int64) (*QuizPayload, error) {
	endpoint := c.baseURL.String() + fmt.Sprintf(QuizzesPath, contentID)
	var payload QuizPayload
	if err := c.getJSON(ctx, fmt.Sprintf("fetching quiz %d", contentID), endpoint, true, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Open starts a streaming GET of rawURL. With 0 <= offset <= end a bounded
// Range header is sent (end inclusive); with only offset > 0 an open-ended
// one. The caller closes the body.
func (c *Client) Open(ctx context.Context, rawURL string, offset, end int64) (*http.Response, error) {
	op := "downloading " + redactQuery(rawURL)
	req, err := c.newRequest(ctx, rawURL, "*/*")
	if err != nil {
		return nil, model.NewError(model.ErrorKindParse, op, err)
	}
	if offset >= 0 && end >= offset {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, end))
	} else if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// getJSON performs a GET and decodes a JSON body into out
func (c *Client) getJSON(ctx context.Context, op, rawURL string, api bool, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	accept := "application/json"
	if api {
		accept = AcceptJSON
	}
	req, err := c.newRequest(ctx, rawURL, accept)
	if err != nil {
		return model.NewError(model.ErrorKindParse, op, err)
	}
	if api {
		req.Header.Set("X-Requested-With", RequestedWith)
	}

	resp, err := c.do(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return contextError(ctx, op)
		}
		return model.NewError(model.ErrorKindParse, op, err)
	}
	return nil
}

// getPage fetches an HTML page body
func (c *Client) getPage(ctx context.Context, op, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, model.NewError(model.ErrorKindParse, op, err)
	}
	resp, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewError(model.ErrorKindNetwork, op, err)
	}
	return body, nil
}

// newRequest builds a GET request. Session headers are only attached for the
// course site itself so the cookie never leaks to CDNs.
func (c *Client) newRequest(ctx context.Context, rawURL, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", accept)
	if req.URL.Host == c.baseURL.Host {
		if c.cookie != "" {
			req.Header.Set("Cookie", c.cookie)
		}
		if c.clientDate != "" {
			req.Header.Set("Date", c.clientDate)
		}
	}
	return req, nil
}

// do waits for the rate limiter, sends req and maps failures onto the error
// taxonomy. On success the caller owns the response body.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	ctx := req.Context()
	if req.URL.Host == c.baseURL.Host {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, contextError(ctx, op)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx, op)
		}
		return nil, model.NewError(model.ErrorKindNetwork, op, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	log.WithFields(log.Fields{
		"status": resp.StatusCode,
		"url":    redactQuery(req.URL.String()),
	}).Debugf("request failed: %s", strings.TrimSpace(string(snippet)))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, model.Errorf(model.ErrorKindAuth, op,
			"server returned %s; the cookie has likely expired, refresh COOKIE_DATA", resp.Status)
	default:
		return nil, model.Errorf(model.ErrorKindNetwork, op, "unexpected status %s", resp.Status)
	}
}

// contextError keeps cancellation unclassified so it is never retried, while
// an expired request deadline counts as a transient network failure.
func contextError(ctx context.Context, op string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return model.NewError(model.ErrorKindNetwork, op, ctx.Err())
	}
	return fmt.Errorf("%s: %w", op, ctx.Err())
}

// redactQuery drops the query string, which often holds signatures
func redactQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
