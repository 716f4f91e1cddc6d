package propsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFileSourceName(t *testing.T) {
	activeEnvs := []string{"test", "cloud"}

	tests := []struct {
		name     string
		rootName string
		fileName string
		want     string
	}{
		{
			name:     "exact root name",
			rootName: "application",
			fileName: "application",
			want:     "application",
		},
		{
			name:     "active environment suffix",
			rootName: "application",
			fileName: "application-test",
			want:     "application[test]",
		},
		{
			name:     "second active environment",
			rootName: "application",
			fileName: "application-cloud",
			want:     "application[cloud]",
		},
		{
			name:     "inactive environment suffix",
			rootName: "application",
			fileName: "application-prod",
			want:     "",
		},
		{
			name:     "different root",
			rootName: "application",
			fileName: "myapp",
			want:     "",
		},
		{
			name:     "root prefix without dash",
			rootName: "application",
			fileName: "applicationx",
			want:     "",
		},
		{
			name:     "application specific root",
			rootName: "myapp",
			fileName: "myapp-test",
			want:     "myapp[test]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveFileSourceName(tt.rootName, tt.fileName, activeEnvs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalcSourceNames(t *testing.T) {
	activeEnvs := []string{"test", "cloud"}

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "plain name passes through",
			raw:  "application",
			want: []string{"application"},
		},
		{
			name: "single active environment",
			raw:  "application,test",
			want: []string{"application[test]"},
		},
		{
			name: "multiple active environments keep order",
			raw:  "myapp,test,cloud",
			want: []string{"myapp[test]", "myapp[cloud]"},
		},
		{
			name: "inactive environment voids expansion",
			raw:  "application,prod",
			want: nil,
		},
		{
			name: "one inactive among active voids expansion",
			raw:  "application,test,prod",
			want: nil,
		},
		{
			name: "dashed name without delimiter passes through",
			raw:  "application-test",
			want: []string{"application-test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calcSourceNames(tt.raw, activeEnvs, ",")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEnvironment(t *testing.T) {
	activeEnvs := []string{"test", "cloud"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bracket form active", input: "application[test]", want: "test"},
		{name: "bracket form inactive", input: "application[prod]", want: ""},
		{name: "dash form active", input: "application-cloud", want: "cloud"},
		{name: "dash form inactive", input: "application-prod", want: ""},
		{name: "no suffix", input: "application", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveEnvironment(tt.input, activeEnvs))
		})
	}
}

func TestApplicationMatcher(t *testing.T) {
	t.Run("no application matches everything", func(t *testing.T) {
		matcher, err := newApplicationMatcher("")
		require.NoError(t, err)
		assert.True(t, matcher("anything"))
		assert.True(t, matcher("application[test]"))
	})

	t.Run("with application", func(t *testing.T) {
		matcher, err := newApplicationMatcher("myapp")
		require.NoError(t, err)

		tests := []struct {
			candidate string
			want      bool
		}{
			{"application", true},
			{"application[test]", true},
			{"myapp", true},
			{"myapp[test]", true},
			{"myapp[env_1-x]", true},
			{"otherapp", false},
			{"myapplication", false},
			{"myapp[bad!]", false},
			{"myapp[test]x", false},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, matcher(tt.candidate), "candidate %q", tt.candidate)
		}
	})
}

func TestResolveNativeSourceNames(t *testing.T) {
	activeEnvs := []string{"test"}

	tests := []struct {
		name string
		key  string
		want []string
	}{
		{
			name: "first segment is the source name",
			key:  "config/application/foo",
			want: []string{"application"},
		},
		{
			name: "comma expanded segment",
			key:  "config/myapp,test/foo",
			want: []string{"myapp[test]"},
		},
		{
			name: "no further level",
			key:  "config/application",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveNativeSourceNames("config/", tt.key, activeEnvs))
		})
	}
}

func TestResolveNativeProperty(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{
			name:   "leaf under prefix",
			prefix: "config/application",
			key:    "config/application/foo",
			want:   "foo",
		},
		{
			name:   "nested beyond one level is ambiguous",
			prefix: "config/application",
			key:    "config/application/foo/bar",
			want:   "",
		},
		{
			name:   "expanded segment keeps leaf",
			prefix: "config/myapp",
			key:    "config/myapp,test/bar",
			want:   "bar",
		},
		{
			name:   "key equals prefix",
			prefix: "config/application",
			key:    "config/application",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveNativeProperty(tt.prefix, tt.key))
		})
	}
}
