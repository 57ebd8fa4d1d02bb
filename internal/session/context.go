// Package session holds per-page and per-process ephemeral state: which page
// a client is attached to, whether continuous capture is on, and the
// sightings gathered so far.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Context is created when a client attaches to a page and dropped on detach.
// Handlers get it passed in instead of reading process-wide flags.
type Context struct {
	ID string

	mu            sync.Mutex
	pageURL       string
	lastSeenURL   string
	focusSelector string
	lastDetailAt  time.Time
}

func NewContext(pageURL string) *Context {
	return &Context{
		ID:          uuid.NewString(),
		pageURL:     pageURL,
		lastSeenURL: pageURL,
	}
}

func (c *Context) PageURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageURL
}

// Navigate records where the client went. The next poll picks it up.
func (c *Context) Navigate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageURL = url
}

// Focus remembers the selector of the post the client is pointing at.
func (c *Context) Focus(selector string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focusSelector = selector
}

func (c *Context) Focused() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusSelector
}

// Observe compares the current page URL with the last one seen. It returns
// the URL and whether a detail capture should run for it. A change within
// debounce of the previous detail capture stays pending, so the page the
// client settles on is captured once the window has passed.
func (c *Context) Observe(now time.Time, debounce time.Duration) (url string, capture bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pageURL == c.lastSeenURL {
		return c.pageURL, false
	}
	if !c.lastDetailAt.IsZero() && now.Sub(c.lastDetailAt) < debounce {
		return c.pageURL, false
	}
	c.lastSeenURL = c.pageURL
	c.lastDetailAt = now
	return c.pageURL, true
}

// MarkDetail records a detail capture that did not come from Observe.
func (c *Context) MarkDetail(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastDetailAt = now
}
