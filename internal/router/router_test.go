package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/pantry/backend/config"
)

func TestGinMode(t *testing.T) {
	tests := []struct {
		name  string
		env   config.Environment
		debug bool
		want  string
	}{
		{"development with debug", config.Development, true, gin.DebugMode},
		{"development without debug", config.Development, false, gin.ReleaseMode},
		{"production ignores debug", config.Production, true, gin.ReleaseMode},
		{"test", config.Test, true, gin.TestMode},
		{"ci", config.CI, false, gin.TestMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GinMode(tt.env, tt.debug))
		})
	}
}
