package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	iso8601 "github.com/senseyeio/duration"
	"gopkg.in/yaml.v3"
)

// Duration accepts Go duration syntax (8s, 1m30s) or ISO8601 (PT8S, PT1H30M)
type Duration struct {
	time.Duration
}

var durationReference = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed, nil
	}

	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, errors.Errorf("invalid duration %q", value)
	}

	return parsed.Shift(durationReference).Sub(durationReference), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return err
	}

	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}
