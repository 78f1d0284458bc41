package home

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "explicit home wins",
			env:  map[string]string{EnvHome: "/opt/commando/", envXDGData: "/xdg", envHOME: "/home/alice"},
			want: "/opt/commando",
		},
		{
			name: "xdg data home",
			env:  map[string]string{envXDGData: "/xdg", envHOME: "/home/alice"},
			want: "/xdg/commando",
		},
		{
			name: "relative xdg ignored",
			env:  map[string]string{envXDGData: "xdg", envHOME: "/home/alice"},
			want: "/home/alice/.local/share/commando",
		},
		{
			name: "home fallback",
			env:  map[string]string{envHOME: "/home/alice"},
			want: "/home/alice/.local/share/commando",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Resolve(env(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Dir)
		})
	}
}

func TestResolve_NothingSet(t *testing.T) {
	_, err := Resolve(env(nil))
	assert.ErrorIs(t, err, ErrNoHome)
}

func TestResolve_RelativeOverrideMadeAbsolute(t *testing.T) {
	h, err := Resolve(env(map[string]string{EnvHome: "rel/home"}))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(h.Dir))
}

func TestHome_Paths(t *testing.T) {
	h := Home{Dir: "/opt/commando"}
	assert.Equal(t, "/opt/commando/deps", h.DepsRoot())
	assert.Equal(t, "/opt/commando/deps/src", h.SourceRoot())
}
