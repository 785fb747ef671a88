package graph

import (
	"sort"

	"github.com/spaghettifunk/fpsanim/engine/rig"
)

// AvatarMask is a set of bone names a blend is restricted to.
type AvatarMask struct {
	Name  string
	bones map[string]struct{}
}

func NewAvatarMask(name string, bones ...string) *AvatarMask {
	m := &AvatarMask{
		Name:  name,
		bones: make(map[string]struct{}, len(bones)),
	}
	for _, b := range bones {
		m.Add(b)
	}
	return m
}

// NewAvatarMaskFromBone builds a mask holding root and every bone below it.
func NewAvatarMaskFromBone(name string, s *rig.Skeleton, root rig.BoneID) *AvatarMask {
	m := NewAvatarMask(name)
	if !s.Valid(root) {
		return m
	}
	stack := []rig.BoneID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.Add(s.Name(id))
		stack = append(stack, s.Children(id)...)
	}
	return m
}

func (m *AvatarMask) Add(bone string) {
	m.bones[bone] = struct{}{}
}

// Has reports whether the bone passes the mask. A nil mask passes every bone.
func (m *AvatarMask) Has(bone string) bool {
	if m == nil {
		return true
	}
	_, ok := m.bones[bone]
	return ok
}

func (m *AvatarMask) Len() int {
	if m == nil {
		return 0
	}
	return len(m.bones)
}

// Bones returns the masked bone names sorted.
func (m *AvatarMask) Bones() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.bones))
	for b := range m.bones {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
