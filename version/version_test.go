package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"dev", Info{CommitHash: "abc", BuildTime: "now", Version: "dev"}, "watercolor dev (commit abc, built now)"},
		{"tagged", Info{CommitHash: "abc", BuildTime: "now", Version: "v1.2.0"}, "watercolor v1.2.0 (commit abc, built now)"},
		{"registry", Info{CommitHash: "abc", BuildTime: "now", Version: "dev"}.WithRegistry("1.0.0"), "watercolor dev (commit abc, built now), registry 1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0123456", Info{CommitHash: "0123456789"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
