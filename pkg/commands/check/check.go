package check

import (
	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/rules"
)

// CheckResult summarizes a valid configuration
type CheckResult struct {
	Source  string
	Rules   []rules.Rule
	Enabled int
}

// Check compiles every configured rule, disabled ones included, and reports
// all problems at once
func Check(cfg *config.Config) (*CheckResult, error) {
	log := logging.GetLogger("commands.check")
	log.Debug().Str("command", "Check").Str("source", cfg.Source).Msg("Executing command")

	compiled, err := rules.Compile(cfg.Rules)
	if err != nil {
		return nil, err
	}
	enabled, _ := rules.Select(compiled)

	log.Info().Str("command", "Check").Int("rules", len(compiled)).Msg("Command finished")
	return &CheckResult{
		Source:  cfg.Source,
		Rules:   compiled,
		Enabled: len(enabled),
	}, nil
}
