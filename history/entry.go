package history

import (
	"fmt"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/util"
)

// Entry is the saved playback position of one media target.
type Entry struct {
	URL       string        `json:"url"`
	Title     string        `json:"title"`
	Position  time.Duration `json:"position"`
	Duration  time.Duration `json:"duration"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Percentage is the watched share of the media, 0 when the duration is unknown.
func (e *Entry) Percentage() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return float64(e.Position) / float64(e.Duration) * 100
}

func (e *Entry) String() string {
	if e.Duration <= 0 {
		return fmt.Sprintf("%s @ %s", e.Title, util.Timestamp(e.Position))
	}
	return fmt.Sprintf("%s @ %s / %s", e.Title, util.Timestamp(e.Position), util.Timestamp(e.Duration))
}
