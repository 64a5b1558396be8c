package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5, cfg.Data.TrendingLimit)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Worker.ReloadInterval)
	assert.False(t, cfg.DB.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"localhost:3000", "127.0.0.1:3000"}, cfg.AllowedHosts)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DatabaseValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"db source without driver", map[string]string{"CATALOG_SOURCE": "db"}, true},
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}, true},
		{"incomplete postgres", map[string]string{"DB_DRIVER": "postgres", "DB_HOST": "localhost"}, true},
		{"complete mysql", map[string]string{"DB_DRIVER": "mysql", "DB_HOST": "localhost", "DB_USER": "amy", "DB_NAME": "retail"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "3306", cfg.DB.Port)
		})
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SESSION_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
