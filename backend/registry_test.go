package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal Backend for registry tests.
type fakeBackend struct {
	name string
}

func (f *fakeBackend) Algorithm(name string) (AlgorithmFunc, bool) { return nil, false }

func (f *fakeBackend) ConvertFromNative(g any, opts ConvertOptions) (any, error) { return g, nil }

func (f *fakeBackend) ConvertToNative(result any, algorithm string) (any, error) {
	return result, nil
}

func TestRegister(t *testing.T) {
	Register("reg_a", func() (Backend, error) { return &fakeBackend{name: "reg_a"}, nil })
	Register("reg_b", func() (Backend, error) { return &fakeBackend{name: "reg_b"}, nil })

	assert.True(t, Registered("reg_a"))
	assert.False(t, Registered("reg_missing"))

	names := Names()
	assert.Contains(t, names, "reg_a")
	assert.Contains(t, names, "reg_b")
	assert.Less(t, indexOf(names, "reg_a"), indexOf(names, "reg_b"), "registration order preserved")

	assert.Panics(t, func() {
		Register("reg_a", func() (Backend, error) { return nil, nil })
	})
}

func TestLoad(t *testing.T) {
	t.Run("lazy, cached, at most once", func(t *testing.T) {
		loads := 0
		Register("load_once", func() (Backend, error) {
			loads++
			return &fakeBackend{name: "load_once"}, nil
		})
		assert.Equal(t, 0, loads, "registration must not load")

		first, err := Load("load_once")
		require.NoError(t, err)
		second, err := Load("load_once")
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, 1, loads)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Load("load_nowhere")
		require.Error(t, err)
		var ue *UnavailableError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "load_nowhere", ue.Backend)
	})

	t.Run("loader failure", func(t *testing.T) {
		boom := errors.New("missing native library")
		Register("load_broken", func() (Backend, error) { return nil, boom })

		_, err := Load("load_broken")
		require.Error(t, err)
		var ue *UnavailableError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "load_broken", ue.Backend)
		assert.ErrorIs(t, err, boom)
	})
}

func indexOf(list []string, want string) int {
	for i, s := range list {
		if s == want {
			return i
		}
	}
	return -1
}
