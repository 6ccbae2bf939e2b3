package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValues(t *testing.T) {
	t.Parallel()

	t.Run("keeps key order and repeats", func(t *testing.T) {
		t.Parallel()
		v := ParseValues("b=2&a=1&b=3")
		assert.Equal(t, []string{"b", "a"}, v.Keys())
		assert.Equal(t, []string{"2", "3"}, v.All("b"))
		assert.Equal(t, "2", v.Get("b"))
		assert.Equal(t, []string{"2", "3"}, v.Value("b"))
		assert.Equal(t, "1", v.Value("a"))
		assert.Nil(t, v.Value("missing"))
	})

	t.Run("percent and plus decoding", func(t *testing.T) {
		t.Parallel()
		v := ParseValues("q=hello+world&e=a%40b.c&k%20ey=x")
		assert.Equal(t, "hello world", v.Get("q"))
		assert.Equal(t, "a@b.c", v.Get("e"))
		assert.Equal(t, "x", v.Get("k ey"))
	})

	t.Run("blank values and empty pairs", func(t *testing.T) {
		t.Parallel()
		v := ParseValues("&a=&b&&c=1")
		assert.Equal(t, []string{"a", "b", "c"}, v.Keys())
		assert.True(t, v.Has("a"))
		assert.Equal(t, "", v.Get("a"))
		assert.Equal(t, "", v.Get("b"))
	})

	t.Run("bad escapes kept raw", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "100%", ParseValues("p=100%").Get("p"))
	})

	t.Run("value after first equals", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "a=b", ParseValues("x=a=b").Get("x"))
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		a := ParseValues("z=1&y=2&x=3&z=4")
		b := ParseValues("z=1&y=2&x=3&z=4")
		assert.Equal(t, a.Keys(), b.Keys())
		assert.Equal(t, a.URLValues(), b.URLValues())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		v := ParseValues("")
		assert.Equal(t, 0, v.Len())
		assert.Empty(t, v.Keys())
		assert.Equal(t, "", v.Get("x"))
	})
}
