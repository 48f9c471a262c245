package layout

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks a defect in the layout or skill table documents.
var ErrConfiguration = errors.New("layout configuration error")

// ConfigError names the key that could not be resolved.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("layout: missing key %q", e.Key)
	}
	return fmt.Sprintf("layout: key %q: %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
