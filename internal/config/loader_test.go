package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/kaspa-ecosystem/discovery/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxResultLimit, convey.ShouldEqual, 100)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DISCOVERY_ADDR", ":8080")
			_ = os.Setenv("DISCOVERY_CACHE_TTL_SECONDS", "60")
			_ = os.Setenv("DISCOVERY_DEFAULT_MODE", "exploration")
			_ = os.Setenv("DISCOVERY_GITHUB_ENRICH", "true")
			_ = os.Setenv("DISCOVERY_GITHUB_RATE_PER_SECOND", "2.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.DefaultMode, convey.ShouldEqual, "exploration")
				convey.So(cfg.GitHubEnrich, convey.ShouldBeTrue)
				convey.So(cfg.GitHubRatePerSecond, convey.ShouldEqual, 2.5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# persisted interactions
addr: ":9090"
persistence_backend: badger
badger_path: /tmp/discovery
projects_source: memory
max_result_limit: 50
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DISCOVERY_CONFIG", tmpFile)
			_ = os.Setenv("DISCOVERY_ADDR", ":8081")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.PersistenceBackend, convey.ShouldEqual, config.BackendBadger)
				convey.So(cfg.BadgerPath, convey.ShouldEqual, "/tmp/discovery")
				convey.So(cfg.ProjectsSource, convey.ShouldEqual, config.SourceMemory)
				convey.So(cfg.MaxResultLimit, convey.ShouldEqual, 50)
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DISCOVERY_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DISCOVERY_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DISCOVERY_CACHE_TTL_SECONDS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		convey.Convey("When addr is empty", func() {
			_ = os.Setenv("DISCOVERY_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When the persistence backend is unknown", func() {
			_ = os.Setenv("DISCOVERY_PERSISTENCE_BACKEND", "floppy")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(err, config.ErrUnknownBackend), convey.ShouldBeTrue)
		})

		convey.Convey("When the projects source is unknown", func() {
			cfg := config.New()
			cfg.ProjectsSource = "ftp"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(err, config.ErrUnknownSource), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, `"ftp"`)
		})

		convey.Convey("When postgres is selected without a DSN", func() {
			_ = os.Setenv("DISCOVERY_PROJECTS_SOURCE", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "postgres_dsn")
		})

		convey.Convey("When the default limit exceeds the maximum", func() {
			cfg := config.New()
			cfg.DefaultLimit = cfg.MaxResultLimit + 1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"DISCOVERY_CONFIG",
		"DISCOVERY_ADDR",
		"DISCOVERY_CACHE_TTL_SECONDS",
		"DISCOVERY_DEFAULT_MODE",
		"DISCOVERY_GITHUB_ENRICH",
		"DISCOVERY_GITHUB_RATE_PER_SECOND",
		"DISCOVERY_PERSISTENCE_BACKEND",
		"DISCOVERY_PROJECTS_SOURCE",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "discovery-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
