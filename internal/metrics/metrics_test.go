package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSync(t *testing.T) {
	m := New()

	m.ObserveSync(nil)
	m.ObserveSync(errors.New("boom"))
	m.ObserveSync(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Syncs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Syncs.WithLabelValues("error")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Captures.WithLabelValues("twitter").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `squirrel_captures_total{platform="twitter"} 1`)
}
