package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/batchkit/pkg/config"
)

// Test configuration structs for custom env loading
type CustomEnvConfig struct {
	QueueName string   `env:"TEST_CUSTOM_QUEUE"`
	BatchSize int      `env:"TEST_CUSTOM_BATCH_SIZE"`
	Dedupe    bool     `env:"TEST_CUSTOM_DEDUPE"`
	Hosts     []string `env:"TEST_CUSTOM_HOSTS" envSeparator:","`
}

type LayeredEnvConfig struct {
	Shared string `env:"TEST_LAYERED_SHARED"`
	Extra  string `env:"TEST_LAYERED_EXTRA"`
}

type PrefixedSinkConfig struct {
	URL      string        `env:"SINK_URL"`
	Timeout  time.Duration `env:"SINK_TIMEOUT" envDefault:"5s"`
	Attempts int           `env:"SINK_ATTEMPTS" envDefault:"3"`
}

func writeEnvFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEnv_CustomPath(t *testing.T) {
	os.Unsetenv("TEST_CUSTOM_QUEUE")
	os.Unsetenv("TEST_CUSTOM_BATCH_SIZE")
	os.Unsetenv("TEST_CUSTOM_DEDUPE")
	os.Unsetenv("TEST_CUSTOM_HOSTS")

	path := writeEnvFile(t, ".env.custom", `
TEST_CUSTOM_QUEUE=search-index
TEST_CUSTOM_BATCH_SIZE=1234
TEST_CUSTOM_DEDUPE=true
TEST_CUSTOM_HOSTS=node1,node2,node3
`)

	err := config.LoadEnv(path)
	require.NoError(t, err, "LoadEnv should not return error with valid file")

	var cfg CustomEnvConfig
	err = config.Load(&cfg)
	require.NoError(t, err, "Load should successfully parse config after LoadEnv")

	assert.Equal(t, "search-index", cfg.QueueName)
	assert.Equal(t, 1234, cfg.BatchSize)
	assert.Equal(t, true, cfg.Dedupe)
	assert.Equal(t, []string{"node1", "node2", "node3"}, cfg.Hosts)
}

func TestLoadEnv_MultiplePaths(t *testing.T) {
	os.Unsetenv("TEST_LAYERED_SHARED")
	os.Unsetenv("TEST_LAYERED_EXTRA")

	// godotenv never overwrites: the first file naming a key wins.
	first := writeEnvFile(t, ".env.first", "TEST_LAYERED_SHARED=from_first\n")
	second := writeEnvFile(t, ".env.second", `
TEST_LAYERED_SHARED=from_second
TEST_LAYERED_EXTRA=extra_value
`)

	err := config.LoadEnv(first, second)
	require.NoError(t, err, "LoadEnv should not return error with valid files")

	var cfg LayeredEnvConfig
	err = config.Load(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "from_first", cfg.Shared)
	assert.Equal(t, "extra_value", cfg.Extra)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), ".env.missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestMustLoadEnv_Panics(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoadEnv(filepath.Join(t.TempDir(), ".env.missing"))
	})
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("PRIMARY_SINK_URL", "redis://primary:6379")
	t.Setenv("PRIMARY_SINK_ATTEMPTS", "5")
	t.Setenv("CACHE_SINK_URL", "redis://cache:6379")

	var primary, cache PrefixedSinkConfig
	require.NoError(t, config.LoadWithPrefix(&primary, "PRIMARY_"))
	require.NoError(t, config.LoadWithPrefix(&cache, "CACHE_"))

	assert.Equal(t, "redis://primary:6379", primary.URL)
	assert.Equal(t, 5, primary.Attempts)
	assert.Equal(t, "redis://cache:6379", cache.URL)
	assert.Equal(t, 3, cache.Attempts, "unset prefixed value falls back to the default")
	assert.Equal(t, 5*time.Second, cache.Timeout)
}

func TestLoadWithPrefix_NilPointer(t *testing.T) {
	var cfg *PrefixedSinkConfig
	err := config.LoadWithPrefix(cfg, "PRIMARY_")
	require.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoadWithPrefix_NotCached(t *testing.T) {
	t.Setenv("FIRST_SINK_URL", "redis://one:6379")

	var first PrefixedSinkConfig
	require.NoError(t, config.LoadWithPrefix(&first, "FIRST_"))
	assert.Equal(t, "redis://one:6379", first.URL)

	t.Setenv("FIRST_SINK_URL", "redis://two:6379")

	var again PrefixedSinkConfig
	require.NoError(t, config.LoadWithPrefix(&again, "FIRST_"))
	assert.Equal(t, "redis://two:6379", again.URL, "prefixed loads re-read the environment")
}
