package logger_test

import (
	"testing"

	"staffing-calculator/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := map[string]struct {
		env     string
		level   string
		debugOn bool
		wantErr bool
	}{
		"DevelopmentDefault": {env: "development", debugOn: true},
		"ProductionDefault":  {env: "production", debugOn: false},
		"LevelOverride":      {env: "development", level: "warn", debugOn: false},
		"ProductionDebug":    {env: "production", level: "debug", debugOn: true},
		"InvalidLevel":       {env: "development", level: "chatty", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			log, err := logger.New(tt.env, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.debugOn, log.Core().Enabled(zap.DebugLevel))
			assert.True(t, log.Core().Enabled(zap.ErrorLevel))
		})
	}
}
