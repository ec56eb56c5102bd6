package config

import (
	_ "embed"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/sample.toml
var sampleConfig []byte

// SampleContent returns the documented starter configuration written by
// `tidyup gen-config`
func SampleContent() string {
	return string(sampleConfig)
}

// Marshal renders cfg as TOML, as the effective configuration after all
// layers were applied
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}
