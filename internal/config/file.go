package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values; unknown keys are an error so that typos
// don't silently fall back to defaults.
//
//	root: data/dogs-vs-cats
//	split: {train: 0.7, val: 0.15, test: 0.15}
//	seed: 42
//	mode: move
//	classes:
//	  - {name: cats, prefix: cat.}
//	  - {name: dogs, prefix: dog.}
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config %q", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "failed to parse config %q", path)
	}
	return nil
}
