package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newTestStrict(t *testing.T) *Strict {
	t.Helper()
	s, err := NewStrict(
		Field{Name: "eggs", Type: cty.Number, Default: cty.NumberIntVal(1)},
		Field{
			Name:    "spam",
			Type:    cty.Number,
			Default: cty.NumberIntVal(5),
			Validate: func(v cty.Value) (cty.Value, error) {
				if v.LessThan(cty.Zero).True() {
					return cty.NilVal, errors.New("must be non-negative")
				}
				return v, nil
			},
		},
	)
	require.NoError(t, err)
	return s
}

func TestNewStrict(t *testing.T) {
	t.Run("populates defaults in declaration order", func(t *testing.T) {
		s := newTestStrict(t)
		assert.Equal(t, []string{"eggs", "spam"}, s.Keys())

		v, err := s.Get("eggs")
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.NumberIntVal(1)))
	})

	t.Run("error cases", func(t *testing.T) {
		_, err := NewStrict()
		assert.Error(t, err)

		_, err = NewStrict(Field{Name: "", Type: cty.String})
		assert.Error(t, err)

		_, err = NewStrict(
			Field{Name: "a", Type: cty.String, Default: cty.StringVal("x")},
			Field{Name: "a", Type: cty.String, Default: cty.StringVal("y")},
		)
		assert.Error(t, err)
	})
}

func TestStrictSetGet(t *testing.T) {
	s := newTestStrict(t)

	t.Run("set declared key", func(t *testing.T) {
		require.NoError(t, s.Set("eggs", cty.NumberIntVal(2)))
		v, err := s.Get("eggs")
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.NumberIntVal(2)))
	})

	t.Run("undeclared key fails on read and write", func(t *testing.T) {
		_, err := s.Get("bacon")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownKey)

		err = s.Set("bacon", cty.NumberIntVal(1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownKey)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "bacon", verr.Key)
	})

	t.Run("validator rejects bad values", func(t *testing.T) {
		err := s.Set("spam", cty.NumberIntVal(-1))
		require.Error(t, err)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("values convert to the field type", func(t *testing.T) {
		require.NoError(t, s.Set("spam", cty.StringVal("42")))
		v, err := s.Get("spam")
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.NumberIntVal(42)))
	})

	t.Run("unconvertible values fail", func(t *testing.T) {
		assert.Error(t, s.Set("spam", cty.StringVal("not a number")))
	})

	t.Run("delete always fails", func(t *testing.T) {
		assert.Error(t, s.Delete("eggs"))
		assert.Error(t, s.Delete("bacon"))
	})
}

func TestOpenStore(t *testing.T) {
	t.Run("unknown keys can be added and removed", func(t *testing.T) {
		o := NewOpen(OpenOptions{})
		require.NoError(t, o.Set("greeting", cty.StringVal("hello")))
		assert.True(t, o.Has("greeting"))
		assert.Equal(t, []string{"greeting"}, o.Keys())

		require.NoError(t, o.Delete("greeting"))
		assert.False(t, o.Has("greeting"))
		assert.Error(t, o.Delete("greeting"))
	})

	t.Run("get of absent key returns the fallback", func(t *testing.T) {
		o := NewOpen(OpenOptions{Fallback: cty.StringVal("default")})
		v, err := o.Get("anything")
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.StringVal("default")))
	})

	t.Run("keys iterate in insertion order", func(t *testing.T) {
		o := NewOpen(OpenOptions{})
		for _, key := range []string{"c", "a", "b"} {
			require.NoError(t, o.Set(key, cty.StringVal(key)))
		}
		assert.Equal(t, []string{"c", "a", "b"}, o.Keys())
	})

	t.Run("write hook validates", func(t *testing.T) {
		o := NewOpen(OpenOptions{
			Validate: func(key string, v cty.Value) (cty.Value, error) {
				if v.Type() != cty.String {
					return cty.NilVal, fmt.Errorf("%s must be a string", key)
				}
				return v, nil
			},
		})
		assert.NoError(t, o.Set("name", cty.StringVal("anders")))
		assert.Error(t, o.Set("name", cty.NumberIntVal(3)))
	})

	t.Run("delete hook can veto", func(t *testing.T) {
		o := NewOpen(OpenOptions{
			OnDelete: func(key string) error {
				if key == "pinned" {
					return errors.New("can't be deleted")
				}
				return nil
			},
		})
		require.NoError(t, o.Set("pinned", cty.True))
		require.NoError(t, o.Set("loose", cty.True))
		assert.Error(t, o.Delete("pinned"))
		assert.True(t, o.Has("pinned"))
		assert.NoError(t, o.Delete("loose"))
	})
}

func TestEqual(t *testing.T) {
	t.Run("strict equality by contents", func(t *testing.T) {
		a := newTestStrict(t)
		b := newTestStrict(t)
		assert.True(t, a.Equal(b))

		require.NoError(t, b.Set("eggs", cty.NumberIntVal(9)))
		assert.False(t, a.Equal(b))
	})

	t.Run("different flavors never compare equal", func(t *testing.T) {
		s := newTestStrict(t)
		o := NewOpen(OpenOptions{})
		require.NoError(t, o.Set("eggs", cty.NumberIntVal(1)))
		require.NoError(t, o.Set("spam", cty.NumberIntVal(5)))
		assert.False(t, s.Equal(o))
		assert.False(t, o.Equal(s))
	})

	t.Run("open equality ignores insertion order", func(t *testing.T) {
		a := NewOpen(OpenOptions{})
		b := NewOpen(OpenOptions{})
		require.NoError(t, a.Set("x", cty.True))
		require.NoError(t, a.Set("y", cty.False))
		require.NoError(t, b.Set("y", cty.False))
		require.NoError(t, b.Set("x", cty.True))
		assert.True(t, a.Equal(b))
	})
}

func TestReconstruct(t *testing.T) {
	t.Run("strict round-trip", func(t *testing.T) {
		s := newTestStrict(t)
		require.NoError(t, s.Set("spam", cty.NumberIntVal(7)))

		rebuilt, err := s.Reconstruct(s.Export())
		require.NoError(t, err)
		assert.True(t, s.Equal(rebuilt))
	})

	t.Run("open round-trip", func(t *testing.T) {
		o := NewOpen(OpenOptions{})
		require.NoError(t, o.Set("b", cty.StringVal("2")))
		require.NoError(t, o.Set("a", cty.StringVal("1")))

		rebuilt, err := o.Reconstruct(o.Export())
		require.NoError(t, err)
		assert.True(t, o.Equal(rebuilt))
	})

	t.Run("reconstructed values still validate", func(t *testing.T) {
		s := newTestStrict(t)
		_, err := s.Reconstruct(map[string]cty.Value{"spam": cty.NumberIntVal(-3)})
		assert.Error(t, err)
	})
}

func TestOverride(t *testing.T) {
	t.Run("end restores the pre-scope state exactly", func(t *testing.T) {
		s := newTestStrict(t)
		before := s.Export()

		scope, err := Override(s, map[string]cty.Value{"spam": cty.NumberIntVal(3)})
		require.NoError(t, err)

		v, err := s.Get("spam")
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.NumberIntVal(3)))

		scope.End()
		assert.True(t, exportEqual(before, s.Export()))
	})

	t.Run("all changes validate before any applies", func(t *testing.T) {
		s := newTestStrict(t)
		before := s.Export()

		_, err := Override(s, map[string]cty.Value{
			"eggs": cty.NumberIntVal(9),
			"spam": cty.NumberIntVal(-1),
		})
		require.Error(t, err)
		assert.True(t, exportEqual(before, s.Export()))
	})

	t.Run("restores on panic paths when deferred", func(t *testing.T) {
		s := newTestStrict(t)
		before := s.Export()

		func() {
			defer func() { _ = recover() }()
			scope, err := Override(s, map[string]cty.Value{"eggs": cty.NumberIntVal(8)})
			require.NoError(t, err)
			defer scope.End()
			panic("boom")
		}()

		assert.True(t, exportEqual(before, s.Export()))
	})

	t.Run("nested scopes restore in reverse order of entry", func(t *testing.T) {
		s := newTestStrict(t)
		before := s.Export()

		outer, err := Override(s, map[string]cty.Value{"eggs": cty.NumberIntVal(10)})
		require.NoError(t, err)
		afterOuter := s.Export()

		inner, err := Override(s, map[string]cty.Value{"eggs": cty.NumberIntVal(20)})
		require.NoError(t, err)

		inner.End()
		assert.True(t, exportEqual(afterOuter, s.Export()))

		outer.End()
		assert.True(t, exportEqual(before, s.Export()))
	})

	t.Run("ending twice is a no-op", func(t *testing.T) {
		s := newTestStrict(t)

		scope, err := Override(s, map[string]cty.Value{"eggs": cty.NumberIntVal(2)})
		require.NoError(t, err)
		require.NoError(t, s.Set("eggs", cty.NumberIntVal(4)))
		scope.End()
		after := s.Export()

		scope.End()
		assert.True(t, exportEqual(after, s.Export()))
	})

	t.Run("open store scopes restore removed and added keys", func(t *testing.T) {
		o := NewOpen(OpenOptions{})
		require.NoError(t, o.Set("keep", cty.True))

		scope, err := Override(o, map[string]cty.Value{"temp": cty.False})
		require.NoError(t, err)
		require.NoError(t, o.Delete("keep"))
		assert.True(t, o.Has("temp"))

		scope.End()
		assert.True(t, o.Has("keep"))
		assert.False(t, o.Has("temp"))
		assert.Equal(t, []string{"keep"}, o.Keys())
	})
}
