package env

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestConfig struct {
	Host    string `env:"TEST_HOST" default:"localhost"`
	Port    int    `env:"TEST_PORT" default:"8080"`
	Enabled bool   `env:"TEST_ENABLED" default:"true"`
	NoDef   string `env:"TEST_NO_DEF"`
}

func TestParse(t *testing.T) {
	os.Clearenv()
	os.Setenv("TEST_HOST", "example.com")
	os.Setenv("TEST_PORT", "9090")
	os.Setenv("TEST_ENABLED", "false")
	os.Setenv("TEST_NO_DEF", "foo")

	var cfg TestConfig
	err := Parse(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "foo", cfg.NoDef)
}

func TestParse_Defaults(t *testing.T) {
	os.Clearenv()

	var cfg TestConfig
	err := Parse(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Empty(t, cfg.NoDef)
}

func TestParse_EmptyStringRespected(t *testing.T) {
	os.Clearenv()
	os.Setenv("TEST_HOST", "") // Empty string for string field

	var cfg TestConfig
	err := Parse(&cfg)
	require.NoError(t, err)

	// Empty strings should be respected for string fields (not use defaults)
	assert.Equal(t, "", cfg.Host)
	// Port not set, so uses default
	assert.Equal(t, 8080, cfg.Port)
}

func TestParse_EmptyStringIntError(t *testing.T) {
	os.Clearenv()
	os.Setenv("TEST_PORT", "") // Empty string for int field

	var cfg TestConfig
	err := Parse(&cfg)
	// Empty string for int field should error
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestParse_EmbeddedStruct(t *testing.T) {
	type BaseConfig struct {
		StorageDSN  string `env:"STORAGE_DSN"`
		StorageType string `env:"STORAGE_TYPE" default:"postgres"`
	}

	type AppConfig struct {
		BaseConfig
		AppName string `env:"APP_NAME" default:"myapp"`
	}

	t.Run("parses embedded struct fields", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("STORAGE_DSN", "postgres://localhost/db")
		os.Setenv("APP_NAME", "testapp")

		var cfg AppConfig
		err := Parse(&cfg)
		require.NoError(t, err)

		assert.Equal(t, "postgres://localhost/db", cfg.StorageDSN)
		assert.Equal(t, "postgres", cfg.StorageType) // Uses default
		assert.Equal(t, "testapp", cfg.AppName)
	})

	t.Run("empty string in embedded struct is respected", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("STORAGE_DSN", "postgres://localhost/db")
		os.Setenv("STORAGE_TYPE", "") // Empty string

		var cfg AppConfig
		err := Parse(&cfg)
		require.NoError(t, err)

		assert.Equal(t, "", cfg.StorageType) // Empty string is respected, not replaced with default
	})
}

type durationConfig struct {
	Timeout time.Duration `env:"TEST_TIMEOUT" default:"10s"`
	Limit   int64         `env:"TEST_LIMIT" default:"1048576"`
}

func TestSetDefaults_ThenLoadKeepsEarlierValues(t *testing.T) {
	os.Clearenv()

	var cfg TestConfig
	require.NoError(t, SetDefaults(&cfg))
	// A value assigned between defaults and env (a config file) survives Load.
	cfg.Host = "from-file"
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "from-file", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)

	os.Setenv("TEST_HOST", "from-env")
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "from-env", cfg.Host)
}

func TestParse_Durations(t *testing.T) {
	os.Clearenv()

	var cfg durationConfig
	require.NoError(t, Parse(&cfg))
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, int64(1<<20), cfg.Limit)

	os.Setenv("TEST_TIMEOUT", "soon")
	err := Parse(&cfg)
	var invalid ErrInvalidValue
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "TEST_TIMEOUT", invalid.EnvVar)
}

type validatedSection struct {
	Name string `env:"TEST_SECTION_NAME"`
}

var errNameRequired = errors.New("TEST_SECTION_NAME is required")

func (s *validatedSection) Validate() error {
	if s.Name == "" {
		return errNameRequired
	}
	return nil
}

func TestLoad_ValidatesNestedStructs(t *testing.T) {
	os.Clearenv()

	var cfg struct{ Section validatedSection }
	assert.ErrorIs(t, Load(&cfg), errNameRequired)

	os.Setenv("TEST_SECTION_NAME", "ok")
	assert.NoError(t, Load(&cfg))
}

func TestLoad_RejectsNonStructPointer(t *testing.T) {
	var cfg TestConfig
	var target ErrNotStructPointer
	assert.ErrorAs(t, Load(cfg), &target)
	assert.ErrorAs(t, SetDefaults(cfg), &target)
}
