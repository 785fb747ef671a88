package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/fpsanim/engine/math"
	"github.com/spaghettifunk/fpsanim/engine/resources"
)

// poseFile is a pose as authored: position in meters, rotation as euler
// angles in degrees.
type poseFile struct {
	Position math.Vec3 `toml:"position"`
	Rotation math.Vec3 `toml:"rotation"`
}

func (p poseFile) pose() math.Pose {
	return math.NewPose(p.Position, math.QuatFromEulerVec(p.Rotation))
}

// decodeFile reads a TOML file strictly: unknown keys are an error so that
// typos in designer data do not go unnoticed.
func decodeFile(path string, v interface{}) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(v); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return 0, fmt.Errorf("%s:%d:%d: %s", path, row, col, derr.Error())
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return 0, fmt.Errorf("%s: %s", path, serr.String())
		}
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return int(info.Size()), nil
}

// nameOf is the file name without directory and extension.
func nameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newResource(path string, resourceType resources.ResourceType, name string, size int, data interface{}) *resources.Resource {
	if name == "" {
		name = nameOf(path)
	}
	return &resources.Resource{
		Type:     resourceType,
		Name:     name,
		FullPath: path,
		DataSize: uint64(size),
		Data:     data,
	}
}

// springScale defaults an unset spring scale to one, a zero scale would
// silence the spring.
func springScale(s *math.VectorSpringData) {
	if s.Scale == (math.Vec3{}) {
		s.Scale = math.NewVec3One()
	}
}

func unload(resource *resources.Resource) error {
	if resource == nil {
		return nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
