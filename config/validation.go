package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/cmux-notify/errors"
)

// Validate checks the values the schema cannot express.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeFull, ModeMinimal:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("mode must be %q or %q", ModeFull, ModeMinimal)).
			WithDetail("mode", c.Mode)
	}

	if err := validateDuration("command_timeout", c.CommandTimeout); err != nil {
		return err
	}
	if err := validateDuration("focus_timeout", c.FocusTimeout); err != nil {
		return err
	}

	for i, tool := range c.InteractiveTools {
		if strings.TrimSpace(tool) == "" {
			return errors.ConfigInvalid("interactive_tools entries cannot be empty").
				WithDetail("index", i)
		}
	}

	if strings.TrimSpace(c.DisplayName) == "" {
		return errors.ConfigInvalid("display_name cannot be blank")
	}

	return nil
}

func validateDuration(field, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("%s is not a duration", field)).
			WithDetail(field, value)
	}
	if d <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("%s must be positive", field)).
			WithDetail(field, value)
	}
	return nil
}
