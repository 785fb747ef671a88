package testbed

import (
	"github.com/spaghettifunk/fpsanim/engine/core"
	"golang.org/x/exp/rand"
)

// step holds the inputs of the demo between start and end, in seconds.
type step struct {
	start, end float32
	// Look speed in degrees per second.
	lookX, lookY float32
	moveX, moveY float32
	actions      []core.Action
	// Seconds between two shots while the step is active. Zero holds fire.
	fireRate float32
	// Distance to a wall in front of the weapon, zero when there is none.
	obstacle float32
}

// script replays a fixed sequence of player inputs in a loop.
type script struct {
	steps    []step
	length   float32
	time     float32
	nextShot float32
	held     map[core.Action]bool
	// Block trace distance of the current frame, negative without a hit.
	obstacle float32
}

func newScript() *script {
	steps := []step{
		{start: 0, end: 1, lookX: 20, moveY: 1},
		{start: 1, end: 1.5, lookY: 10, actions: []core.Action{core.ACTION_AIM}},
		{start: 1.5, end: 2.5, actions: []core.Action{core.ACTION_AIM}, fireRate: 0.1},
		{start: 2.5, end: 3, lookX: -20, actions: []core.Action{core.ACTION_LEAN_LEFT}},
		{start: 3, end: 4, moveY: 1, actions: []core.Action{core.ACTION_SPRINT}},
		{start: 4, end: 5, lookY: -10, actions: []core.Action{core.ACTION_PRONE}},
		{start: 5, end: 5.5, actions: []core.Action{core.ACTION_POINT_AIM}, fireRate: 0.15},
		{start: 5.5, end: 6, moveX: -1, actions: []core.Action{core.ACTION_CHANGE_SIGHT}},
		{start: 6, end: 7, moveY: 0.5, obstacle: 0.3},
	}
	return &script{
		steps:    steps,
		length:   steps[len(steps)-1].end,
		held:     make(map[core.Action]bool),
		obstacle: -1,
	}
}

func (s *script) current() *step {
	for i := range s.steps {
		if s.time >= s.steps[i].start && s.time < s.steps[i].end {
			return &s.steps[i]
		}
	}
	return nil
}

// drive feeds the inputs of the frame to the input system. A little noise is
// added to the look input to keep the sway springs busy.
func (s *script) drive(deltaTime float32, rng *rand.Rand) {
	s.time += deltaTime
	if s.time >= s.length {
		s.time -= s.length
		s.nextShot = 0
	}

	s.obstacle = -1
	st := s.current()
	if st == nil {
		return
	}
	if st.obstacle > 0 {
		s.obstacle = st.obstacle
	}

	jitter := func() float32 { return (rng.Float32() - 0.5) * 0.2 }
	core.InputProcessLook((st.lookX+jitter())*deltaTime, (st.lookY+jitter())*deltaTime)
	core.InputProcessMove(st.moveX, st.moveY)

	wanted := make(map[core.Action]bool, len(st.actions))
	for _, a := range st.actions {
		wanted[a] = true
	}
	for a := core.Action(0); a < core.ACTION_MAX_ACTIONS; a++ {
		if a == core.ACTION_FIRE {
			continue
		}
		if wanted[a] != s.held[a] {
			core.InputProcessAction(a, wanted[a])
			s.held[a] = wanted[a]
		}
	}

	// Fire is pressed and released within the frame, one shot per press.
	if st.fireRate > 0 && s.time >= s.nextShot {
		core.InputProcessAction(core.ACTION_FIRE, true)
		core.InputProcessAction(core.ACTION_FIRE, false)
		s.nextShot = s.time + st.fireRate
	}
}
