package network

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

type networksFile struct {
	Networks []*Record `yaml:"networks"`
}

// LoadNetworksFile reads additional network definitions from a YAML file and
// registers them. Records without a name or chain id are rejected.
func (r *Registry) LoadNetworksFile(path string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read networks file: %w", err)
	}
	var file networksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse networks file: %w", err)
	}
	for _, rec := range file.Networks {
		if len(rec.Name) == 0 {
			return nil, fmt.Errorf("network record without name in %s", path)
		}
		if rec.ChainID == 0 {
			return nil, fmt.Errorf("network %s without chain id in %s", rec.Name, path)
		}
		if rec.NativeCurrency == (Currency{}) {
			rec.NativeCurrency = nativeKLV()
		}
		r.Register(rec)
	}
	return file.Networks, nil
}
