package propsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignPriority(t *testing.T) {
	activeEnvs := []string{"test", "cloud"}

	tests := []struct {
		name        string
		appSpecific bool
		environment string
		want        int
	}{
		{
			name: "common without environment",
			want: 101,
		},
		{
			name:        "common first environment",
			environment: "test",
			want:        102,
		},
		{
			name:        "common second environment",
			environment: "cloud",
			want:        104,
		},
		{
			name:        "application specific without environment",
			appSpecific: true,
			want:        151,
		},
		{
			name:        "application specific first environment",
			appSpecific: true,
			environment: "test",
			want:        152,
		},
		{
			name:        "application specific second environment",
			appSpecific: true,
			environment: "cloud",
			want:        154,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &localSource{appSpecific: tt.appSpecific, environment: tt.environment}
			assert.Equal(t, tt.want, assignPriority(src, activeEnvs))
		})
	}
}

// 环境限定源必须压过同类的无限定源，应用专属源必须压过公共源。
func TestAssignPriority_Ordering(t *testing.T) {
	activeEnvs := []string{"test"}

	common := assignPriority(&localSource{}, activeEnvs)
	commonEnv := assignPriority(&localSource{environment: "test"}, activeEnvs)
	app := assignPriority(&localSource{appSpecific: true}, activeEnvs)
	appEnv := assignPriority(&localSource{appSpecific: true, environment: "test"}, activeEnvs)

	assert.Greater(t, commonEnv, common)
	assert.Greater(t, appEnv, app)
	assert.GreaterOrEqual(t, app, common+appSpecificOffset)
	assert.Greater(t, app, commonEnv)
}
