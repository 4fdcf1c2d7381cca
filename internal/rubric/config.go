package rubric

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Catalog bundles criteria and override rules as loaded from configuration.
type Catalog struct {
	Criteria  []Criterion    `yaml:"criteria"`
	Overrides []OverrideRule `yaml:"overrides"`
}

// LoadCatalog reads a rubric definition from a YAML file and validates it.
// The file has a top-level "rubric" key:
//
//	rubric:
//	  criteria:
//	    - name: Step
//	      weight: 3
//	      options: [V0, V1, V2, V3, V4]
//	  overrides:
//	    - criterion: Step
//	      option: V0
//	      verdict: "Não Apto"
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rubric: read catalog %s", path)
	}

	var wrapper struct {
		Rubric Catalog `yaml:"rubric"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "rubric: parse catalog")
	}

	cat := wrapper.Rubric
	if err := ValidateCatalog(cat.Criteria, cat.Overrides); err != nil {
		return nil, err
	}

	return &cat, nil
}

// Default returns the built-in catalog and overrides.
func Default() *Catalog {
	return &Catalog{Criteria: DefaultCatalog(), Overrides: DefaultOverrides()}
}
