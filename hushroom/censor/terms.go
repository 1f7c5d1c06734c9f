package censor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type termsFile struct {
	Terms []string `yaml:"terms"`
}

// reads a censor term list from a YAML file. both a bare sequence and a
// mapping with a "terms" key are accepted.
func LoadTerms(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read terms file: %w", err)
	}

	return ParseTerms(data)
}

func ParseTerms(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return nil, ErrNoTerms
		}
		return list, nil
	}

	var file termsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse terms file: %w", err)
	}

	if len(file.Terms) == 0 {
		return nil, ErrNoTerms
	}

	return file.Terms, nil
}

// loads the filter for the configured file, or the default list when path is empty
func FromFile(path string) (*Filter, error) {
	if path == "" {
		return Default(), nil
	}

	terms, err := LoadTerms(path)
	if err != nil {
		return nil, err
	}

	return New(terms), nil
}
