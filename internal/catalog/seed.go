package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Products []model.Product `yaml:"products"`
}

// SeedProducts parses the embedded sample catalog.
func SeedProducts() ([]model.Product, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	return f.Products, nil
}
