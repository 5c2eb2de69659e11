// Package history persists resume positions per media target.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/tsukinaha/tsukimi-sub001/filesystem"
	"github.com/tsukinaha/tsukimi-sub001/where"
)

const (
	// positions closer to the start than this are not worth resuming
	minPosition = 10 * time.Second
	// positions closer to the end than this count as finished
	endMargin = 30 * time.Second
)

// cacher provides an abstracted, disk-backed registry for resume records.
var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.Resume(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// mu serializes read-modify-write cycles; the tui and mpris both save on stop.
var mu sync.Mutex

func load() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// All returns every saved entry, most recent first.
func All() ([]*Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// Get returns the entry for url, if any.
func Get(url string) (mo.Option[Entry], error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return mo.None[Entry](), err
	}

	if entry, ok := saved[url]; ok {
		return mo.Some(*entry), nil
	}
	return mo.None[Entry](), nil
}

// Save records the position reached in url. A position near either end removes the entry instead,
// so finished media starts from the beginning next time.
func Save(url, title string, position, duration time.Duration) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	finished := duration > 0 && duration-position < endMargin
	if position < minPosition || finished {
		if _, ok := saved[url]; !ok {
			return nil
		}
		delete(saved, url)
		return cacher.Set(saved)
	}

	saved[url] = &Entry{
		URL:       url,
		Title:     title,
		Position:  position,
		Duration:  duration,
		UpdatedAt: time.Now(),
	}
	return cacher.Set(saved)
}

// Forget removes the entry for url.
func Forget(url string) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	delete(saved, url)
	return cacher.Set(saved)
}
