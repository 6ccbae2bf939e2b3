package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("nothing written", func(t *testing.T) {
		t.Parallel()
		rw := NewResponseWriter(httptest.NewRecorder())
		assert.False(t, rw.Written())
		assert.Equal(t, http.StatusOK, rw.Status())
		assert.Zero(t, rw.Size())
	})

	t.Run("first status wins", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		rw := NewResponseWriter(rec)
		rw.WriteHeader(http.StatusNotFound)
		rw.WriteHeader(http.StatusInternalServerError)
		assert.True(t, rw.Written())
		assert.Equal(t, http.StatusNotFound, rw.Status())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("write implies 200 and counts bytes", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		rw := NewResponseWriter(rec)
		n, err := rw.Write([]byte("hello "))
		require.NoError(t, err)
		assert.Equal(t, 6, n)
		_, _ = rw.Write([]byte("world"))
		assert.Equal(t, int64(11), rw.Size())
		assert.Equal(t, http.StatusOK, rw.Status())
		assert.Equal(t, "hello world", rec.Body.String())
	})

	t.Run("wrapping is idempotent", func(t *testing.T) {
		t.Parallel()
		rw := NewResponseWriter(httptest.NewRecorder())
		assert.Same(t, rw, NewResponseWriter(rw))
	})

	t.Run("flush and unwrap reach the recorder", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		rw := NewResponseWriter(rec)
		rw.Flush()
		assert.True(t, rec.Flushed)
		assert.True(t, rw.Written())
		assert.Same(t, rec, rw.Unwrap())
	})

	t.Run("hijack unsupported", func(t *testing.T) {
		t.Parallel()
		_, _, err := NewResponseWriter(httptest.NewRecorder()).Hijack()
		assert.ErrorIs(t, err, http.ErrNotSupported)
	})
}
