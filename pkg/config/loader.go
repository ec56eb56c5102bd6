package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"reflect"
	"strings"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys are joined
// with a double underscore: TIDYUP_ENGINE__DRY_RUN=true sets engine.dry_run.
const EnvPrefix = "TIDYUP_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions selects the sources of a load
type LoadOptions struct {
	// File is an explicit config file; it must exist. When empty the
	// default location is used if present.
	File string
	// Overrides are applied last, keyed by dotted path (engine.dry_run)
	Overrides map[string]interface{}
}

// Load builds the configuration from, in increasing precedence: embedded
// defaults, the user file, TIDYUP_ environment variables and overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	source, err := userConfigPath(opts.File)
	if err != nil {
		return nil, err
	}
	if source != "" {
		if err := k.Load(file.Provider(source), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", source).
				WithDetail("path", source)
		}
		logger.Debug().Str("path", source).Msg("Loaded config file")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToSingletonSliceHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to decode configuration")
	}
	cfg.Source = source

	postProcess(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// userConfigPath returns the file to load, or "" when there is none
func userConfigPath(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(paths.EnvConfigFile)
	}
	if explicit != "" {
		path := paths.ExpandHome(explicit)
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path).
				WithDetail("path", path).
				WithDetail("hint", "create it with `tidyup gen-config`")
		}
		return path, nil
	}

	path := paths.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", nil
}

// envKey maps TIDYUP_ENGINE__DRY_RUN to engine.dry_run. TIDYUP_CONFIG
// names the config file and is not a key.
func envKey(s string) string {
	if s == paths.EnvConfigFile {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// stringToSingletonSliceHookFunc lets a list field be given as one string.
// Strings are not split: patterns such as "*.{csv,doc}" contain commas.
func stringToSingletonSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.String {
			return data, nil
		}
		s := reflect.ValueOf(data).String()
		if s == "" {
			return []string{}, nil
		}
		return []string{s}, nil
	}
}

// postProcess fills locations left empty with their XDG defaults and
// expands ~
func postProcess(cfg *Config) {
	if cfg.Trash.Dir == "" {
		cfg.Trash.Dir = paths.TrashDir()
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = paths.JournalPath()
	}
	cfg.Engine.Root = paths.ExpandHome(cfg.Engine.Root)
	cfg.Trash.Dir = paths.ExpandHome(cfg.Trash.Dir)
	cfg.Journal.Path = paths.ExpandHome(cfg.Journal.Path)
	cfg.Engine.Conflict = strings.ToLower(strings.TrimSpace(cfg.Engine.Conflict))
}
