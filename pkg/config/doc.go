// Package config loads tidyup's configuration.
//
// Values are layered with koanf, lowest precedence first: the embedded
// defaults, the user's TOML file ($XDG_CONFIG_HOME/tidyup/config.toml, or
// the file named by --config or TIDYUP_CONFIG), TIDYUP_ environment
// variables, and finally explicit overrides from command-line flags.
//
// Rules are declared as [[rules]] tables, each with ordered [[rules.steps]].
// They are decoded here and compiled into engine rules by package rules.
package config
