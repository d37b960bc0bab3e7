package data

import (
	"os"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// LoadAliases reads a manual name mapping file:
//
//	aliases:
//	  "Gabe Davis": "Gabriel Davis"
func LoadAliases(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read aliases file", goerr.V(model.FileKey, path))
	}
	var w struct {
		Aliases map[string]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidConfiguration, "failed to parse aliases file",
			goerr.V(model.FileKey, path), goerr.V("cause", err.Error()))
	}
	return w.Aliases, nil
}
