// Package segment skips known intervals of a media file, such as openings and endings.
package segment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/tsukinaha/tsukimi-sub001/bridge"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

// Segment is a skippable interval [Start, End).
type Segment struct {
	Start time.Duration
	End   time.Duration
	Title string
}

// Contains reports whether pos lies inside the segment.
func (s Segment) Contains(pos time.Duration) bool {
	return pos >= s.Start && pos < s.End
}

func (s Segment) String() string {
	return fmt.Sprintf("%s [%s, %s)", s.Title, s.Start, s.End)
}

// Parse reads "start-end" or "title=start-end", with times given as seconds, m:ss or h:mm:ss.
func Parse(s string) (Segment, error) {
	var seg Segment

	title, span, found := strings.Cut(s, "=")
	if !found {
		title, span = "Skipped", s
	}
	seg.Title = strings.TrimSpace(title)

	from, to, found := strings.Cut(span, "-")
	if !found {
		return seg, fmt.Errorf("segment %q: expected start-end", s)
	}

	var err error
	if seg.Start, err = parseTime(from); err != nil {
		return seg, fmt.Errorf("segment %q: %w", s, err)
	}
	if seg.End, err = parseTime(to); err != nil {
		return seg, fmt.Errorf("segment %q: %w", s, err)
	}
	if seg.End <= seg.Start {
		return seg, fmt.Errorf("segment %q: end must be after start", s)
	}
	return seg, nil
}

func parseTime(s string) (time.Duration, error) {
	var total float64
	for _, part := range strings.Split(strings.TrimSpace(s), ":") {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), nil
}

// Commander sends commands to the engine without waiting for them.
type Commander interface {
	Command(cmd bridge.Command)
	SetProperty(prop bridge.Property, value any)
}

// Skipper seeks past segments when the playback position enters them. Each segment is skipped at most once per file,
// so seeking back into one plays it.
type Skipper struct {
	commands Commander

	mu       sync.Mutex
	segments []Segment
	skipped  map[int]bool
}

// NewSkipper creates a skipper for segments.
func NewSkipper(commands Commander, segments []Segment) *Skipper {
	sorted := append([]Segment(nil), segments...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	return &Skipper{
		commands: commands,
		segments: sorted,
		skipped:  make(map[int]bool),
	}
}

// Segments returns the segments in start order.
func (s *Skipper) Segments() []Segment {
	return s.segments
}

// Check skips if pos is inside a segment not yet skipped and returns that segment.
// It only dispatches the seek, so it is safe to call from the GUI loop.
func (s *Skipper) Check(pos time.Duration) (Segment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, seg := range s.segments {
		if s.skipped[i] || !seg.Contains(pos) {
			continue
		}

		s.skipped[i] = true
		log.Infof("skipping %s at %s", seg, pos)
		s.commands.Command(bridge.Seek(seg.End.Seconds(), bridge.SeekAbsolute))
		return seg, true
	}
	return Segment{}, false
}

// Reset re-enables every segment, e.g. after a new file starts.
func (s *Skipper) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = make(map[int]bool)
}

// ApplyChapters publishes the segments as chapter markers, with unnamed parts between them.
func (s *Skipper) ApplyChapters() {
	if len(s.segments) == 0 {
		return
	}
	s.commands.SetProperty(bridge.PropChapterList, Chapters(s.segments))
}

// Chapters builds a chapter-list node for segments sorted by start.
// A marker that lands on the time of the previous one replaces it.
func Chapters(segments []Segment) []any {
	chapters := []map[string]any{chapter("Part A", 0)}
	add := func(title string, at time.Duration) {
		last := chapters[len(chapters)-1]
		if last["time"] == at.Seconds() {
			last["title"] = title
			return
		}
		chapters = append(chapters, chapter(title, at))
	}

	part := 'B'
	for _, seg := range segments {
		add(seg.Title, seg.Start)
		add("Part "+string(part), seg.End)
		part++
	}

	return lo.ToAnySlice(chapters)
}

func chapter(title string, at time.Duration) map[string]any {
	return map[string]any{"title": title, "time": at.Seconds()}
}
