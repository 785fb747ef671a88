package loaders

import (
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

type ikPoseFile struct {
	Name          string   `toml:"name"`
	Pose          poseFile `toml:"pose"`
	BlendInSpeed  float32  `toml:"blend_in_speed"`
	BlendOutSpeed float32  `toml:"blend_out_speed"`
}

type IKPoseLoader struct{}

func (l *IKPoseLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	var file ikPoseFile
	size, err := decodeFile(path, &file)
	if err != nil {
		return nil, err
	}
	name := file.Name
	if name == "" {
		name = nameOf(path)
	}
	pose := &resources.IKPose{
		Name:          name,
		Pose:          file.Pose.pose(),
		BlendInSpeed:  file.BlendInSpeed,
		BlendOutSpeed: file.BlendOutSpeed,
	}
	return newResource(path, resources.ResourceTypeIKPose, name, size, pose), nil
}

func (l *IKPoseLoader) Unload(resource *resources.Resource) error {
	return unload(resource)
}
