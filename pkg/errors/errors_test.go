package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("boom")
	err := WrapWithCode(cause, CodeSyncFailed, "sync")

	assert.Equal(t, "sync: boom", err.Error())
	assert.Equal(t, CodeSyncFailed, GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, WrapWithCode(nil, CodeSyncFailed, "sync"))
}

func TestGetCode_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", WrapWithCode(errors.New("x"), CodeCaptureRejected, "capture"))
	assert.Equal(t, CodeCaptureRejected, GetCode(err))
	assert.Equal(t, "", GetCode(errors.New("plain")))
}

func TestSurfaced(t *testing.T) {
	assert.False(t, Surfaced(nil))
	assert.False(t, Surfaced(WrapWithCode(errors.New("x"), CodeExtractionMiss, "miss")))
	assert.False(t, Surfaced(WrapWithCode(errors.New("x"), CodeParseFailed, "parse")))
	assert.True(t, Surfaced(WrapWithCode(errors.New("x"), CodeCaptureRejected, "capture")))
	assert.True(t, Surfaced(errors.New("network down")))
}
