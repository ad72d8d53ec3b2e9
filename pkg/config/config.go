package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds everything a reconciliation run needs. Values come from the
// struct defaults, then the YAML file named by STASHSYNC_CONFIG_FILE, then
// STASHSYNC_ prefixed environment variables (upper-cased koanf keys), each
// layer overriding the previous one.
type Config struct {
	BlobsDirectory            string        `koanf:"blobs_directory" validate:"required"`
	CoverFileName             string        `koanf:"cover_file_name" default:"poster.jpg" validate:"required"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5" validate:"min=1"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5" validate:"min=0"`
	GalleryFolderToken        string        `koanf:"gallery_folder_token" default:"fanart#" validate:"required"`
	LogLevel                  string        `koanf:"log_level" default:"info" validate:"oneof=debug info warn error"`
	MediaExtensions           []string      `koanf:"media_extensions" default:"[\".mp4\",\".mkv\",\".avi\",\".mov\"]" validate:"required,dive,startswith=."`
	SidecarFileName           string        `koanf:"sidecar_file_name" default:"movie.nfo" validate:"required"`
}

const (
	envPrefix         = "STASHSYNC_"
	configFileENV     = envPrefix + "CONFIG_FILE"
	defaultConfigFile = "./stashsync.yaml"
)

// New builds the run configuration. A missing config file is not an error;
// a missing required value is.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.WithStack(err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a valid in-memory configuration without reading the
// environment.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.BlobsDirectory = os.TempDir()
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	return cfg
}

func validate(cfg *Config) error {
	v := validator.New()
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		key := configKey(cfg, fe.StructField())
		if fe.Tag() == "required" {
			missing = append(missing, envPrefix+strings.ToUpper(key)+" ("+key+")")
			continue
		}
		invalid = append(invalid, key+" failed "+fe.Tag())
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return errors.Errorf("invalid config: %s", strings.Join(invalid, ", "))
}

// configKey is the koanf key of a Config field, falling back to the snake case
// form of the field name.
func configKey(cfg *Config, field string) string {
	if f, ok := reflect.TypeOf(cfg).Elem().FieldByName(field); ok {
		if tag := f.Tag.Get("koanf"); tag != "" {
			return tag
		}
	}
	return strcase.ToSnake(field)
}

// envKey maps STASHSYNC_DATABASE_FILE_PATH to database_file_path.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
