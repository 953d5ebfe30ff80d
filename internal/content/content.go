// Package content ships the built-in question bank and reads banks from YAML files.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"literary-flow/internal/domain"
)

//go:embed default_bank.yaml
var defaultBankYAML []byte

// DefaultBankID identifies the embedded bank.
const DefaultBankID = "nghi-luan-binh-dang"

// Default returns the embedded bank.
func Default() domain.Bank {
	bank, err := Parse(defaultBankYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded bank: %v", err))
	}
	return bank
}

// Parse decodes and validates a YAML bank.
func Parse(data []byte) (domain.Bank, error) {
	var bank domain.Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("decode bank: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}

// LoadFile reads a YAML bank from path.
func LoadFile(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Bank{}, err
	}
	return Parse(data)
}

// Banks returns the embedded bank plus an optional file bank, keyed by ID.
func Banks(path string) (map[string]domain.Bank, error) {
	def := Default()
	banks := map[string]domain.Bank{def.ID: def}
	if path == "" {
		return banks, nil
	}
	bank, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	banks[bank.ID] = bank
	return banks, nil
}
