package collectorimpl

import (
	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/session"
)

// Attach starts tracking a client page and returns its session id.
func (c *CollectorImpl) Attach(pageURL string) string {
	sc := session.NewContext(pageURL)

	c.sessionsMu.Lock()
	c.sessions[sc.ID] = sc
	c.sessionsMu.Unlock()

	c.Logger.Debug("Session attached", "session_id", sc.ID, "url", pageURL)
	return sc.ID
}

func (c *CollectorImpl) Navigate(sessionID, url string) error {
	sc := c.session(sessionID)
	if sc == nil {
		return collector.ErrSessionNotFound
	}
	sc.Navigate(url)
	return nil
}

func (c *CollectorImpl) Focus(sessionID, selector string) error {
	sc := c.session(sessionID)
	if sc == nil {
		return collector.ErrSessionNotFound
	}
	sc.Focus(selector)
	return nil
}

func (c *CollectorImpl) Detach(sessionID string) {
	c.sessionsMu.Lock()
	delete(c.sessions, sessionID)
	c.sessionsMu.Unlock()
	c.Logger.Debug("Session detached", "session_id", sessionID)
}

func (c *CollectorImpl) session(id string) *session.Context {
	if id == "" {
		return nil
	}
	c.sessionsMu.RLock()
	defer c.sessionsMu.RUnlock()
	return c.sessions[id]
}

func (c *CollectorImpl) attached() []*session.Context {
	c.sessionsMu.RLock()
	defer c.sessionsMu.RUnlock()
	out := make([]*session.Context, 0, len(c.sessions))
	for _, sc := range c.sessions {
		out = append(out, sc)
	}
	return out
}
