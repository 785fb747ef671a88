package assets

import "github.com/spaghettifunk/fpsanim/engine/resources"

type Loader interface {
	Load(path string, params interface{}) (*resources.Resource, error) // `interface{}` here allows loaders to take a decode destination
	Unload(*resources.Resource) error
}
