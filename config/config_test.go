package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.SessionSecret)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RedisEnabled())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "app.db", cfg.DBPath)
	assert.Equal(t, DefaultSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, filepath.Join("Food Images", "Food Images"), cfg.ImagesDir)
	assert.Equal(t, filepath.Join("static", "img"), cfg.StaticImagesDir())
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session_secret"), []byte("from-secret\n"), 0o600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("SESSION_SECRET", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.SessionSecret)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:    "5000",
			DBDriver:      "sqlite",
			DBPath:        "app.db",
			SessionSecret: "s3cret",
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(valid()))
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := valid()
		cfg.ServerPort = "http"
		assert.ErrorContains(t, ValidateConfig(cfg), "SERVER_PORT")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.DBDriver = "mysql"
		assert.ErrorContains(t, ValidateConfig(cfg), "DB_DRIVER")
	})

	t.Run("default secret outside production", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = Development
		cfg.SessionSecret = DefaultSessionSecret
		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("default secret in production", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = Production
		cfg.SessionSecret = DefaultSessionSecret
		assert.ErrorContains(t, ValidateConfig(cfg), "must be changed in production")
	})
}

func TestParseEnvironment(t *testing.T) {
	tests := map[string]Environment{
		"production": Production,
		" PROD ":     Production,
		"test":       Test,
		"testing":    Test,
		"ci":         CI,
		"staging":    Development,
		"":           Development,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseEnvironment(in), in)
	}
}

func TestCurrentEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, CurrentEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, CurrentEnvironment())
	assert.True(t, CurrentEnvironment().IsAutomated())
	assert.False(t, CurrentEnvironment().Verbose())
}

func TestLoadConfigProductionDefaults(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "prod-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Production, cfg.Environment)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://datasets/recipes/all.csv")
	require.NoError(t, err)
	assert.Equal(t, "datasets", bucket)
	assert.Equal(t, "recipes/all.csv", key)

	for _, uri := range []string{"recipes.csv", "s3://", "s3://bucket", "s3://bucket/"} {
		_, _, err := ParseS3URI(uri)
		assert.Error(t, err, uri)
	}
}

type fakeGetter struct {
	body string
	err  error
	got  *s3.GetObjectInput
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestFetchDataset(t *testing.T) {
	getter := &fakeGetter{body: "Title,Ingredients\nToast,bread\n"}
	s := &S3Config{Client: getter}

	dest, err := s.FetchDataset(context.Background(), "s3://bucket/data/recipes.csv", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "recipes.csv", filepath.Base(dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, getter.body, string(data))
	assert.Equal(t, "bucket", *getter.got.Bucket)
	assert.Equal(t, "data/recipes.csv", *getter.got.Key)
}

func TestFetchDatasetError(t *testing.T) {
	s := &S3Config{Client: &fakeGetter{err: errors.New("access denied")}}
	_, err := s.FetchDataset(context.Background(), "s3://bucket/recipes.csv", t.TempDir())
	assert.ErrorContains(t, err, "access denied")
}
