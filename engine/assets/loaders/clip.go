package loaders

import (
	"fmt"

	"github.com/spaghettifunk/fpsanim/engine/core"
	"github.com/spaghettifunk/fpsanim/engine/graph"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

type keyFile struct {
	Bone string  `toml:"bone"`
	Time float32 `toml:"time"`
	// Position in meters, rotation as euler angles in degrees.
	Position math.Vec3 `toml:"position"`
	Rotation math.Vec3 `toml:"rotation"`
}

type curveKeyFile struct {
	Name  string  `toml:"name"`
	Time  float32 `toml:"time"`
	Value float32 `toml:"value"`
}

type clipFile struct {
	Name   string         `toml:"name"`
	Length float32        `toml:"length"`
	Loop   bool           `toml:"loop"`
	Keys   []keyFile      `toml:"keys"`
	Curves []curveKeyFile `toml:"curves"`
}

type ClipLoader struct{}

func (l *ClipLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	var file clipFile
	size, err := decodeFile(path, &file)
	if err != nil {
		return nil, err
	}
	if file.Length < 0 || (file.Length == 0 && len(file.Keys) == 0) {
		return nil, fmt.Errorf("%s: %w: a clip needs keys or a length", path, core.ErrInvalidClip)
	}

	name := file.Name
	if name == "" {
		name = nameOf(path)
	}
	clip := graph.NewClip(name, file.Length, file.Loop)
	for i, k := range file.Keys {
		if k.Bone == "" || k.Time < 0 {
			return nil, fmt.Errorf("%s: %w: key %d", path, core.ErrInvalidClip, i)
		}
		clip.AddKey(k.Bone, k.Time, poseFile{Position: k.Position, Rotation: k.Rotation}.pose())
	}
	for i, k := range file.Curves {
		if k.Name == "" || k.Time < 0 {
			return nil, fmt.Errorf("%s: %w: curve key %d", path, core.ErrInvalidClip, i)
		}
		clip.AddCurveKey(k.Name, k.Time, k.Value)
	}
	return newResource(path, resources.ResourceTypeClip, name, size, clip), nil
}

func (l *ClipLoader) Unload(resource *resources.Resource) error {
	return unload(resource)
}
