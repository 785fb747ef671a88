package loaders

import (
	"fmt"

	"github.com/spaghettifunk/fpsanim/engine/resources"
)

// ConfigLoader decodes a configuration file into params, which must be a
// pointer to a struct carrying toml tags.
type ConfigLoader struct{}

func (l *ConfigLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	if params == nil {
		return nil, fmt.Errorf("%s: config loader needs a destination", path)
	}
	size, err := decodeFile(path, params)
	if err != nil {
		return nil, err
	}
	return newResource(path, resources.ResourceTypeConfig, "", size, params), nil
}

func (l *ConfigLoader) Unload(resource *resources.Resource) error {
	return unload(resource)
}
