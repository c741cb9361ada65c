package resolve

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/course-dl/internal/api"
	"github.com/ytget/course-dl/internal/model"
)

// API is the part of the course player client the resolver needs
type API interface {
	FetchLesson(ctx context.Context, contentID int64) (*api.LessonPayload, error)
	FetchQuiz(ctx context.Context, contentID int64) (*api.QuizPayload, error)
	FetchWistiaID(ctx context.Context, playerURL string) (string, error)
	FetchWistiaMedia(ctx context.Context, mediaID string) (*api.WistiaMedia, error)
}

// Resolver fetches lesson payloads and classifies them
type Resolver struct {
	api     API
	quality string
}

// New creates a resolver targeting the given video quality
func New(client API, quality string) *Resolver {
	return &Resolver{api: client, quality: quality}
}

// Resolve fetches and classifies one lesson. Failures confined to the lesson
// are recorded in Resolution.Err; a returned error means the run must stop
// (rejected cookie or cancellation).
func (r *Resolver) Resolve(ctx context.Context, lesson *model.Lesson) (*model.Resolution, error) {
	res := &model.Resolution{Lesson: lesson, Kind: lesson.Kind()}

	var err error
	switch lesson.ContentType {
	case model.ContentTypeQuiz:
		err = r.resolveQuiz(ctx, lesson, res)
	case model.ContentTypeLesson, model.ContentTypePdf, model.ContentTypeDownload,
		model.ContentTypeHTMLItem, model.ContentTypeText:
		err = r.resolveLesson(ctx, lesson, res)
	default:
		res.Kind = model.ContentKindUnsupported
		res.Contents = []model.Content{model.UnsupportedContent{
			Reason: fmt.Sprintf("unsupported content type %q", lesson.ContentType),
		}}
	}

	if err != nil {
		if model.IsKind(err, model.ErrorKindAuth) || ctx.Err() != nil {
			return nil, err
		}
		res.Err = err
	}
	return res, nil
}

// ResolveCourse resolves every lesson of the given chapter positions, in
// order, keyed by lesson id.
func (r *Resolver) ResolveCourse(ctx context.Context, course *model.Course, chapters []int) (map[int64]*model.Resolution, error) {
	resolved := make(map[int64]*model.Resolution)
	for _, pos := range chapters {
		chapter, ok := course.Chapter(pos)
		if !ok {
			return nil, model.Errorf(model.ErrorKindValidation, "resolving course", "no chapter at position %d", pos)
		}
		for _, lesson := range chapter.Lessons {
			res, err := r.Resolve(ctx, lesson)
			if err != nil {
				return nil, err
			}
			fields := log.Fields{"chapter": pos, "lesson": lesson.Position, "kind": res.Kind}
			if res.Err != nil {
				log.WithFields(fields).Warnf("failed to resolve %q: %v", lesson.Title, res.Err)
			} else {
				log.WithFields(fields).Debugf("resolved %q", lesson.Title)
			}
			resolved[lesson.ID] = res
		}
	}
	return resolved, nil
}

func (r *Resolver) resolveQuiz(ctx context.Context, lesson *model.Lesson, res *model.Resolution) error {
	payload, err := r.api.FetchQuiz(ctx, lesson.ContentID)
	if err != nil {
		return err
	}
	quiz := DecodeQuiz(lesson.Title, payload)
	if err := quiz.Validate(); err != nil {
		return model.NewError(model.ErrorKindRender, "decoding quiz "+lesson.Title, err)
	}
	res.Contents = []model.Content{model.QuizContent{Quiz: quiz}}
	return nil
}

// resolveLesson collects the video, text and files of a lesson payload. The
// primary content decides the kind: video, then text, then the first file.
func (r *Resolver) resolveLesson(ctx context.Context, lesson *model.Lesson, res *model.Resolution) error {
	payload, err := r.api.FetchLesson(ctx, lesson.ContentID)
	if err != nil {
		return err
	}

	var videoErr error
	if url := strings.TrimSpace(payload.Lesson.VideoURL); url != "" {
		video, err := r.resolveVideo(ctx, url)
		if err != nil {
			if model.IsKind(err, model.ErrorKindAuth) || ctx.Err() != nil {
				return err
			}
			videoErr = err
			res.Kind = model.ContentKindVideo
		} else {
			res.Contents = append(res.Contents, *video)
		}
	}

	if html := strings.TrimSpace(payload.Lesson.HTMLText); html != "" {
		res.Contents = append(res.Contents, model.TextContent{HTML: payload.Lesson.HTMLText})
	}

	shared := lesson.ContentType == model.ContentTypeDownload
	for _, f := range payload.Files() {
		if f.DownloadURL == "" {
			continue
		}
		res.Contents = append(res.Contents, model.FileContent{
			URL:      f.DownloadURL,
			FileName: f.Name(),
			Shared:   shared,
		})
	}

	if videoErr != nil {
		return videoErr
	}
	if primary := res.Primary(); primary != nil {
		res.Kind = primary.Kind()
		return nil
	}
	res.Kind = model.ContentKindUnsupported
	res.Contents = []model.Content{model.UnsupportedContent{Reason: "lesson has no video, text or files"}}
	return nil
}

func (r *Resolver) resolveVideo(ctx context.Context, playerURL string) (*model.VideoContent, error) {
	mediaID, err := r.api.FetchWistiaID(ctx, playerURL)
	if err != nil {
		return nil, err
	}
	media, err := r.api.FetchWistiaMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	asset, quality, err := SelectQuality(media.Assets, r.quality)
	if err != nil {
		return nil, model.NewError(model.ErrorKindParse, "selecting quality for media "+mediaID, err)
	}
	if quality != r.quality {
		log.WithField("media", mediaID).Warnf("quality %s not available, using %s", r.quality, quality)
	}

	source := model.VideoSourceProgressive
	if asset.IsHLS() {
		source = model.VideoSourceHLS
	}
	return &model.VideoContent{
		MediaID:  mediaID,
		Quality:  quality,
		Source:   source,
		URL:      asset.URL,
		Size:     asset.Size,
		Duration: media.Duration,
	}, nil
}
