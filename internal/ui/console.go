package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/plan"
	"github.com/ytget/course-dl/internal/runner"
)

// maxPromptAttempts bounds re-prompting on invalid input
const maxPromptAttempts = 5

// Console renders the run to a terminal. Methods are safe for concurrent use.
type Console struct {
	mu           sync.Mutex
	out          io.Writer
	in           *bufio.Reader
	root         string
	localization *Localization
	printed      map[string]int // last printed percentage per task path
}

// NewConsole creates a console writing to out and reading answers from in.
// Paths are printed relative to root.
func NewConsole(out io.Writer, in io.Reader, root string, localization *Localization) *Console {
	if localization == nil {
		localization = NewLocalization()
	}
	return &Console{
		out:          out,
		in:           bufio.NewReader(in),
		root:         root,
		localization: localization,
		printed:      make(map[string]int),
	}
}

func (c *Console) text(key string) string {
	return c.localization.GetText(key)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// ShowCourse lists chapters with their lesson counts
func (c *Console) ShowCourse(course *model.Course) {
	lessons := course.LessonCount()

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%d %s%s%d %s)\n", c.text(KeyCourseTitle), course.Title,
		len(course.Chapters), c.text(KeyChapters), MiddleDotSeparator, lessons, c.text(KeyLessons))
	for _, chapter := range course.Chapters {
		fmt.Fprintf(&b, "  %2d. %s (%d)\n", chapter.Position, chapter.Title, len(chapter.Lessons))
	}
	c.printf("%s", b.String())
}

// PromptSelection asks for the chapters to download until the answer parses.
// End of input selects everything.
func (c *Console) PromptSelection(course *model.Course) (plan.Selection, error) {
	var lastErr error
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		c.printf("%s%s", PromptMarker, c.text(KeySelectPrompt))

		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return plan.Selection{}, fmt.Errorf("reading selection: %w", err)
		}

		selection, parseErr := plan.ParseSelection(line, len(course.Chapters))
		if parseErr == nil {
			return selection, nil
		}
		lastErr = parseErr
		c.printf("%s %s: %v\n", IconFail, c.text(KeyInvalidSelection), parseErr)

		if errors.Is(err, io.EOF) {
			break
		}
	}
	return plan.Selection{}, lastErr
}

// ShowPlan prints every task with its initial status
func (c *Console) ShowPlan(tasks []*model.DownloadTask) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n", c.text(KeyPlanHeader), len(tasks))
	for _, task := range tasks {
		fmt.Fprintf(&b, "  %-8s %-11s %s", task.Status, task.Kind(), relativePath(c.root, task.Path))
		if task.LastError != "" {
			fmt.Fprintf(&b, "%s%s", MiddleDotSeparator, singleLine(task.LastError))
		}
		b.WriteString("\n")
	}
	c.printf("%s", b.String())
}

// HandleEvent renders a runner event as status lines keyed by task path.
// Progress is printed in ProgressStep increments.
func (c *Console) HandleEvent(ev runner.Event) {
	path := relativePath(c.root, ev.Task.Path)

	switch ev.Type {
	case runner.EventStarted:
		c.mu.Lock()
		c.printed[ev.Task.Path] = 0
		c.mu.Unlock()
		c.printf("%s %s %s\n", IconPending, c.text(KeyStarted), path)

	case runner.EventProgress:
		pct := percent(ev.Fraction)
		c.mu.Lock()
		last, seen := c.printed[ev.Task.Path]
		show := seen && pct < 100 && pct-last >= ProgressStep
		if show {
			c.printed[ev.Task.Path] = pct - pct%ProgressStep
		}
		c.mu.Unlock()
		if show {
			c.printf("  %s %s\n", formatPercent(ev.Fraction), path)
		}

	case runner.EventRetry:
		c.printf("%s %s (%d) %s%s%s\n", IconRetry, c.text(KeyRetrying), ev.Attempt, path,
			MiddleDotSeparator, singleLine(errorText(ev.Err)))

	case runner.EventFinished:
		c.mu.Lock()
		delete(c.printed, ev.Task.Path)
		c.mu.Unlock()
		if ev.Status == model.TaskStatusDone {
			c.printf("%s %s %s (%s)\n", IconDone, c.text(KeyCompleted), path, formatElapsed(ev.Task.Elapsed()))
			return
		}
		c.printf("%s %s %s%s%s\n", IconFail, c.text(KeyFailed), path,
			MiddleDotSeparator, singleLine(errorText(ev.Err)))
	}
}

// ShowSummary prints the final counts and every failure with its reason
func (c *Console) ShowSummary(summary *runner.Summary) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", c.text(KeySummary))
	fmt.Fprintf(&b, "  %s %s: %d (%s)\n", IconDone, c.text(KeyDownloaded), len(summary.Succeeded),
		formatFileSize(totalSize(summary.Succeeded)))
	fmt.Fprintf(&b, "  %s %s: %d\n", IconSkip, c.text(KeySkipped), len(summary.Skipped))
	fmt.Fprintf(&b, "  %s %s: %d\n", IconFail, c.text(KeyFailed), len(summary.Failed))
	if len(summary.NotStarted) > 0 {
		fmt.Fprintf(&b, "  %s %s: %d\n", IconPending, c.text(KeyNotStarted), len(summary.NotStarted))
	}
	for _, failure := range summary.Failed {
		fmt.Fprintf(&b, "    %s%s%s\n", relativePath(c.root, failure.Task.Path),
			MiddleDotSeparator, singleLine(failure.Reason))
	}

	switch {
	case summary.Fatal != nil:
		fmt.Fprintf(&b, "%s %s: %v\n", IconFail, c.text(KeyFatal), summary.Fatal)
	case summary.Canceled:
		fmt.Fprintf(&b, "%s %s\n", IconPending, c.text(KeyInterrupted))
	case len(summary.Succeeded) == 0 && len(summary.Failed) == 0 && len(summary.NotStarted) == 0:
		fmt.Fprintf(&b, "%s %s\n", IconDone, c.text(KeyNothingToDo))
	}
	if c.root != "" {
		fmt.Fprintf(&b, "%s %s: %s\n", IconFolder, c.text(KeyOutput), c.root)
	}
	c.printf("%s", b.String())
}

func errorText(err error) string {
	if err == nil {
		return DashPlaceholder
	}
	return err.Error()
}

func totalSize(tasks []*model.DownloadTask) int64 {
	var total int64
	for _, task := range tasks {
		info, err := os.Stat(task.Path)
		if err != nil {
			log.WithError(err).Debugf("stat %s", task.Path)
			continue
		}
		total += info.Size()
	}
	return total
}
