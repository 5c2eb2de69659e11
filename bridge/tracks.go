package bridge

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// TrackKind distinguishes selectable track types.
type TrackKind int

const (
	TrackAudio TrackKind = iota
	TrackSubtitle
)

// String returns the kind name.
func (k TrackKind) String() string {
	switch k {
	case TrackAudio:
		return "audio"
	case TrackSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// Property returns the engine property selecting a track of this kind.
func (k TrackKind) Property() Property {
	if k == TrackSubtitle {
		return PropSid
	}
	return PropAid
}

// Track is one audio or subtitle track of the current file.
type Track struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Language string    `json:"language"`
	Kind     TrackKind `json:"kind" jsonschema:"description=0 audio, 1 subtitle."`
	Selected bool      `json:"selected"`
}

// Label returns a display name for the track.
func (t Track) Label() string {
	switch {
	case t.Title != "" && t.Language != "":
		return t.Title + " [" + t.Language + "]"
	case t.Title != "":
		return t.Title
	case t.Language != "":
		return t.Language
	default:
		return t.Kind.String()
	}
}

// Tracks is an immutable snapshot of the track list, rebuilt wholesale from each track-list event.
// It must not be modified after construction.
type Tracks []Track

// OfKind returns the tracks of a kind in engine order.
func (ts Tracks) OfKind(kind TrackKind) Tracks {
	return Tracks(lo.Filter(ts, func(t Track, _ int) bool { return t.Kind == kind }))
}

// Audio returns the audio tracks.
func (ts Tracks) Audio() Tracks { return ts.OfKind(TrackAudio) }

// Subtitles returns the subtitle tracks.
func (ts Tracks) Subtitles() Tracks { return ts.OfKind(TrackSubtitle) }

// Selected returns the active track of a kind.
func (ts Tracks) Selected(kind TrackKind) mo.Option[Track] {
	t, ok := lo.Find(ts, func(t Track) bool { return t.Kind == kind && t.Selected })
	if !ok {
		return mo.None[Track]()
	}
	return mo.Some(t)
}

// Next returns the track of a kind following the selected one, wrapping around.
func (ts Tracks) Next(kind TrackKind) mo.Option[Track] {
	candidates := ts.OfKind(kind)
	if len(candidates) == 0 {
		return mo.None[Track]()
	}

	_, idx, ok := lo.FindIndexOf(candidates, func(t Track) bool { return t.Selected })
	if !ok {
		return mo.Some(candidates[0])
	}
	return mo.Some(candidates[(idx+1)%len(candidates)])
}

// Preferred returns the track of a kind whose language or title best matches preference.
func (ts Tracks) Preferred(kind TrackKind, preference string) mo.Option[Track] {
	candidates := ts.OfKind(kind)
	if preference == "" || len(candidates) == 0 {
		return mo.None[Track]()
	}

	for _, t := range candidates {
		if t.Language == preference {
			return mo.Some(t)
		}
	}

	targets := lo.Map(candidates, func(t Track, _ int) string { return t.Language + " " + t.Title })
	ranks := fuzzy.RankFindFold(preference, targets)
	if len(ranks) == 0 {
		return mo.None[Track]()
	}
	sort.Sort(ranks)
	return mo.Some(candidates[ranks[0].OriginalIndex])
}

// ParseTracks builds a snapshot from the engine's track-list node.
// Video tracks are skipped. It reports false if the node is not a list.
func ParseTracks(node any) (Tracks, bool) {
	entries, ok := node.([]any)
	if !ok {
		return nil, false
	}

	tracks := make(Tracks, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		var kind TrackKind
		switch fields["type"] {
		case "audio":
			kind = TrackAudio
		case "sub":
			kind = TrackSubtitle
		default:
			continue
		}

		id, ok := asInt64(fields["id"])
		if !ok {
			continue
		}

		title, _ := fields["title"].(string)
		lang, _ := fields["lang"].(string)
		selected, _ := fields["selected"].(bool)

		tracks = append(tracks, Track{
			ID:       id,
			Title:    title,
			Language: lang,
			Kind:     kind,
			Selected: selected,
		})
	}

	return tracks, true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
