package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrUnknownOption is returned for option names that do not exist.
var ErrUnknownOption = errors.New("unknown option")

// GetOption reads an option by its JSON name. Nested fields use dotted paths,
// e.g. "grid.rows". Numbers come back as float64.
func GetOption(cfg *Config, name string) (interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	res := gjson.GetBytes(data, name)
	if !res.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	return res.Value(), nil
}

// SetOption returns a copy of cfg with the named option replaced. The
// receiver is not modified and the result is validated.
func SetOption(cfg *Config, name string, value interface{}) (*Config, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if !gjson.GetBytes(data, name).Exists() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}

	data, err = sjson.SetBytes(data, name, value)
	if err != nil {
		return nil, fmt.Errorf("failed to set option %s: %w", name, err)
	}

	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid value for option %s: %w", name, err)
	}
	if err := ValidateConfig(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
