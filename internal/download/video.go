package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/platform"
)

// Video assembly constants
const (
	// layoutName records how the parts directory was split so a resume with
	// different settings does not mix incompatible segments
	layoutName = "layout"
	// segmentShare is the part of the progress bar spent fetching segments,
	// the rest is the remux
	segmentShare = 0.95
)

// segment is one byte range to fetch. end is inclusive; -1 means the whole
// response body.
type segment struct {
	url    string
	offset int64
	end    int64
}

func (s segment) size() int64 {
	if s.end < 0 {
		return -1
	}
	return s.end - s.offset + 1
}

func (e *Engine) executeVideo(ctx context.Context, task *model.DownloadTask, content model.VideoContent) error {
	op := "downloading " + task.GetDisplayTitle()
	logger := log.WithField("task", task.Path)

	if content.Source == model.VideoSourceHLS && e.remuxer == nil {
		return fmt.Errorf("%s: ffmpeg is required to assemble HLS video", op)
	}

	segments, layout, err := e.listSegments(ctx, op, content)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return model.Errorf(model.ErrorKindParse, op, "video has no segments")
	}

	dir := task.PartsDir()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return err
	}
	if err := checkLayout(dir, layout); err != nil {
		return err
	}

	if len(task.Present) > 0 {
		logger.Infof("resuming with %d of %d segments on disk", len(task.Present), len(segments))
	}

	p := e.newProgress(task)
	for i, seg := range segments {
		final := filepath.Join(dir, model.SegmentName(i))
		if _, ok := platform.FileSize(final); !ok {
			if err := e.fetchSegment(ctx, op, seg, final); err != nil {
				return err
			}
		}
		p.report(segmentShare * float64(i+1) / float64(len(segments)))
	}

	if err := platform.EnsureFreeSpace(dir, e.minFree); err != nil {
		return err
	}
	joined := filepath.Join(dir, model.JoinedName)
	if err := joinSegments(op, dir, len(segments), joined); err != nil {
		return err
	}

	if e.remuxer == nil {
		logger.Warn("ffmpeg not available, keeping the progressive file as downloaded")
		if err := platform.CommitFile(joined, task.Path); err != nil {
			return err
		}
		return removeParts(dir)
	}

	tmp := task.TempPath()
	err = e.remuxer.Remux(ctx, joined, tmp, content.Duration, func(f float64) {
		p.report(segmentShare + (1-segmentShare)*f)
	})
	os.Remove(joined)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: remux failed, %d segments kept in %s: %w", op, len(segments), dir, err)
	}

	if err := platform.CommitFile(tmp, task.Path); err != nil {
		return err
	}
	p.report(1)
	return removeParts(dir)
}

// listSegments splits the video into segments and describes the split
func (e *Engine) listSegments(ctx context.Context, op string, content model.VideoContent) ([]segment, string, error) {
	if content.Source == model.VideoSourceHLS {
		segments, variant, err := e.hlsSegments(ctx, op, content.URL)
		if err != nil {
			return nil, "", err
		}
		return segments, fmt.Sprintf("hls %d %s", len(segments), variant), nil
	}

	total := content.Size
	if total <= 0 {
		size, err := e.probeSize(ctx, op, content.URL)
		if err != nil {
			return nil, "", err
		}
		total = size
	}
	if total <= 0 {
		return progressiveSegments(content.URL, 0, e.segmentSize), "progressive 0 0", nil
	}
	segments := progressiveSegments(content.URL, total, e.segmentSize)
	return segments, fmt.Sprintf("progressive %d %d", total, e.segmentSize), nil
}

// progressiveSegments splits total bytes into ranges of segmentSize. An
// unknown total yields a single whole-body segment.
func progressiveSegments(url string, total, segmentSize int64) []segment {
	if total <= 0 {
		return []segment{{url: url, end: -1}}
	}
	var segments []segment
	for offset := int64(0); offset < total; offset += segmentSize {
		end := offset + segmentSize - 1
		if end >= total {
			end = total - 1
		}
		segments = append(segments, segment{url: url, offset: offset, end: end})
	}
	return segments
}

// probeSize asks for the first byte to learn the total length from
// Content-Range. It returns 0 when the server does not tell or does not
// serve ranges, which plans a single whole-body segment.
func (e *Engine) probeSize(ctx context.Context, op, url string) (int64, error) {
	resp, err := e.fetcher.Open(ctx, url, 0, 0)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPartialContent {
		if total, ok := parseContentRangeTotal(resp.Header.Get("Content-Range")); ok {
			return total, nil
		}
		return 0, nil
	}
	log.WithField("status", resp.Status).Debug("range request not honored, fetching the whole body")
	return 0, nil
}

// parseContentRangeTotal reads the total from "bytes 0-0/12345"
func parseContentRangeTotal(header string) (int64, bool) {
	_, total, ok := strings.Cut(header, "/")
	if !ok || total == "*" {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(total), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// fetchSegment downloads one segment to final through a temporary name
func (e *Engine) fetchSegment(ctx context.Context, op string, seg segment, final string) error {
	offset, end := seg.offset, seg.end
	if end < 0 {
		offset = 0
	}
	resp, err := e.fetcher.Open(ctx, seg.url, offset, end)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	expected := seg.size()
	if seg.end >= 0 {
		if err := checkRangeResponse(op, resp, seg.offset); err != nil {
			return err
		}
		body = io.LimitReader(resp.Body, expected)
	} else if resp.ContentLength > 0 {
		expected = resp.ContentLength
	}

	tmp := final + model.TempSuffix
	written, err := streamToFile(ctx, op, body, tmp, 0, nil)
	if err != nil {
		return err
	}
	if expected > 0 && written != expected {
		os.Remove(tmp)
		return model.Errorf(model.ErrorKindNetwork, op, "segment %s: received %d of %d bytes",
			filepath.Base(final), written, expected)
	}
	return platform.CommitFile(tmp, final)
}

// checkLayout records the split of a fresh parts directory. When an existing
// directory was split differently its segments are discarded.
func checkLayout(dir, layout string) error {
	path := filepath.Join(dir, layoutName)
	previous, err := os.ReadFile(path)
	if err == nil && strings.TrimSpace(string(previous)) == layout {
		return nil
	}
	if err == nil {
		log.WithField("dir", dir).Warn("segment layout changed, discarding downloaded segments")
		entries, _ := os.ReadDir(dir)
		for _, entry := range entries {
			if entry.Name() != layoutName {
				os.Remove(filepath.Join(dir, entry.Name()))
			}
		}
	}
	return platform.WriteFileAtomic(path, []byte(layout+"\n"))
}

// joinSegments concatenates count segments from dir into out
func joinSegments(op, dir string, count int, out string) error {
	f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, platform.DefaultFilePermissions)
	if err != nil {
		return platform.ClassifyWriteError(op, err)
	}

	for i := 0; i < count; i++ {
		if err := appendFile(f, filepath.Join(dir, model.SegmentName(i))); err != nil {
			f.Close()
			os.Remove(out)
			return platform.ClassifyWriteError(op, err)
		}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return platform.ClassifyWriteError(op, err)
	}
	if err := f.Close(); err != nil {
		return platform.ClassifyWriteError(op, err)
	}
	return nil
}

func appendFile(dst io.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}

func removeParts(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		log.WithField("dir", dir).Warnf("failed to remove segment directory: %v", err)
	}
	return nil
}
