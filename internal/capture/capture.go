// Package capture keeps the bounded, newest-first collection of sightings
// gathered in continuous mode.
package capture

import (
	"sync"

	"github.com/orgball2608/squirrel-collector/internal/domain"
)

const DefaultCapacity = 50

type Outcome int

const (
	Inserted Outcome = iota
	Merged
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Merged:
		return "merged"
	default:
		return "skipped"
	}
}

// Collection is safe for concurrent use. Items are keyed by CanonicalURL.
type Collection struct {
	mu       sync.Mutex
	capacity int
	items    []domain.Sighting
}

func NewCollection(capacity int) *Collection {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Collection{capacity: capacity}
}

// Upsert inserts at the front or merges into the item with the same URL.
// A lightweight item never overwrites a detail capture, and an empty item is
// never inserted.
func (c *Collection) Upsert(item domain.Sighting) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.items {
		if existing.CanonicalURL != item.CanonicalURL {
			continue
		}
		if !item.IsDetailCapture && existing.IsDetailCapture {
			return Skipped
		}
		c.items[i] = Overlay(existing, item)
		return Merged
	}

	if item.Empty() {
		return Skipped
	}
	c.items = append([]domain.Sighting{item}, c.items...)
	if len(c.items) > c.capacity {
		c.items = c.items[:c.capacity]
	}
	return Inserted
}

// Overlay copies every present field of next onto base. Empty strings and
// empty slices count as absent. The id of base is kept.
func Overlay(base, next domain.Sighting) domain.Sighting {
	out := base
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	if next.Platform != "" {
		out.Platform = next.Platform
	}
	set(&out.Author, next.Author)
	set(&out.AuthorHandle, next.AuthorHandle)
	set(&out.AuthorAvatarURL, next.AuthorAvatarURL)
	set(&out.AuthorProfileURL, next.AuthorProfileURL)
	set(&out.Title, next.Title)
	set(&out.Summary, next.Summary)
	set(&out.Content, next.Content)
	set(&out.Thumbnail, next.Thumbnail)
	set(&out.AuthorFollowupText, next.AuthorFollowupText)
	set(&out.OtherCommentsDigest, next.OtherCommentsDigest)
	if len(next.MediaURLs) > 0 {
		out.MediaURLs = next.MediaURLs
	}
	if next.CapturedAtEpochMs != 0 {
		out.CapturedAtEpochMs = next.CapturedAtEpochMs
	}
	out.IsDetailCapture = base.IsDetailCapture || next.IsDetailCapture
	return out
}

// Items returns a copy, newest first.
func (c *Collection) Items() []domain.Sighting {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Sighting(nil), c.items...)
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection) Capacity() int { return c.capacity }

func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Restore replaces the contents with items loaded from a session store,
// trimmed to capacity.
func (c *Collection) Restore(items []domain.Sighting) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(items) > c.capacity {
		items = items[:c.capacity]
	}
	c.items = append([]domain.Sighting(nil), items...)
}
