package loaders

import (
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

type boneAngleFile struct {
	Bone  string    `toml:"bone"`
	Angle math.Vec2 `toml:"angle"`
}

type aimOffsetFile struct {
	Name  string          `toml:"name"`
	Up    []boneAngleFile `toml:"up"`
	Right []boneAngleFile `toml:"right"`
}

func (f *aimOffsetFile) table(fallback string) *resources.AimOffsetTable {
	name := f.Name
	if name == "" {
		name = fallback
	}
	t := &resources.AimOffsetTable{
		Name:           name,
		AimOffsetUp:    make([]resources.BoneAngle, 0, len(f.Up)),
		AimOffsetRight: make([]resources.BoneAngle, 0, len(f.Right)),
	}
	for _, b := range f.Up {
		t.AimOffsetUp = append(t.AimOffsetUp, resources.BoneAngle{Bone: b.Bone, Angle: b.Angle})
	}
	for _, b := range f.Right {
		t.AimOffsetRight = append(t.AimOffsetRight, resources.BoneAngle{Bone: b.Bone, Angle: b.Angle})
	}
	return t
}

type AimOffsetLoader struct{}

func (l *AimOffsetLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	var file aimOffsetFile
	size, err := decodeFile(path, &file)
	if err != nil {
		return nil, err
	}
	t := file.table(nameOf(path))
	return newResource(path, resources.ResourceTypeAimOffset, t.Name, size, t), nil
}

func (l *AimOffsetLoader) Unload(resource *resources.Resource) error {
	return unload(resource)
}
