package core

import "sync"

// Action is a gameplay input the animation system reacts to.
type Action uint16

const (
	ACTION_AIM Action = iota
	ACTION_FIRE
	ACTION_RELOAD
	ACTION_CROUCH
	ACTION_SPRINT
	ACTION_PRONE
	ACTION_POINT_AIM
	ACTION_LEAN_LEFT
	ACTION_LEAN_RIGHT
	ACTION_CHANGE_SIGHT
	ACTION_MAX_ACTIONS
)

var actionNames = [ACTION_MAX_ACTIONS]string{
	"aim", "fire", "reload", "crouch", "sprint", "prone", "point_aim", "lean_left", "lean_right", "change_sight",
}

func (a Action) String() string {
	if a >= ACTION_MAX_ACTIONS {
		return "unknown"
	}
	return actionNames[a]
}

type actionState struct {
	Actions [ACTION_MAX_ACTIONS]bool
}

type axisState struct {
	// Look delta accumulated during the frame, in degrees.
	LookX, LookY float32
	// Movement axis in [-1, 1].
	MoveX, MoveY float32
}

type InputState struct {
	mutex           sync.Mutex
	ActionsCurrent  actionState
	ActionsPrevious actionState
	Axis            axisState
}

var onceInput sync.Once
var inputInitialized bool = false
var inputState *InputState = nil

func InputInitialize() error {
	onceInput.Do(func() {
		inputState = &InputState{}
	})
	inputState.mutex.Lock()
	inputState.ActionsCurrent = actionState{}
	inputState.ActionsPrevious = actionState{}
	inputState.Axis = axisState{}
	inputState.mutex.Unlock()
	inputInitialized = true
	LogInfo("Input subsystem initialized.")
	return nil
}

func InputShutdown() error {
	inputInitialized = false
	return nil
}

// InputUpdate copies the current state into the previous one and clears the
// per-frame look delta. Must be the last input call of a frame.
func InputUpdate(deltaTime float64) error {
	if !inputInitialized {
		return nil
	}
	inputState.mutex.Lock()
	defer inputState.mutex.Unlock()

	inputState.ActionsPrevious = inputState.ActionsCurrent
	inputState.Axis.LookX = 0
	inputState.Axis.LookY = 0
	return nil
}

func InputIsActionDown(action Action) bool {
	if !inputInitialized || action >= ACTION_MAX_ACTIONS {
		return false
	}
	inputState.mutex.Lock()
	defer inputState.mutex.Unlock()
	return inputState.ActionsCurrent.Actions[action]
}

func InputWasActionDown(action Action) bool {
	if !inputInitialized || action >= ACTION_MAX_ACTIONS {
		return false
	}
	inputState.mutex.Lock()
	defer inputState.mutex.Unlock()
	return inputState.ActionsPrevious.Actions[action]
}

// InputIsActionTriggered reports a press that happened this frame.
func InputIsActionTriggered(action Action) bool {
	return InputIsActionDown(action) && !InputWasActionDown(action)
}

func InputProcessAction(action Action, pressed bool) error {
	if !inputInitialized || action >= ACTION_MAX_ACTIONS {
		return nil
	}
	inputState.mutex.Lock()
	changed := inputState.ActionsCurrent.Actions[action] != pressed
	inputState.ActionsCurrent.Actions[action] = pressed
	inputState.mutex.Unlock()

	// Only fire if the state actually changed.
	if changed {
		code := EVENT_CODE_ACTION_RELEASED
		if pressed {
			code = EVENT_CODE_ACTION_PRESSED
		}
		EventFire(EventContext{
			Type: code,
			Data: &ActionEvent{
				Action: action,
			},
		})
	}
	return nil
}

// InputProcessLook accumulates a look delta for the current frame.
func InputProcessLook(dx, dy float32) {
	if !inputInitialized {
		return
	}
	inputState.mutex.Lock()
	defer inputState.mutex.Unlock()
	inputState.Axis.LookX += dx
	inputState.Axis.LookY += dy
}

func InputProcessMove(x, y float32) {
	if !inputInitialized {
		return
	}
	inputState.mutex.Lock()
	defer inputState.mutex.Unlock()
	inputState.Axis.MoveX = x
	inputState.Axis.MoveY = y
}

func InputGetLookDelta() (float32, float32) {
	if !inputInitialized {
		return 0, 0
	}
	inputState.mutex.Lock()
	defer inputState.mutex.Unlock()
	return inputState.Axis.LookX, inputState.Axis.LookY
}

func InputGetMoveAxis() (float32, float32) {
	if !inputInitialized {
		return 0, 0
	}
	inputState.mutex.Lock()
	defer inputState.mutex.Unlock()
	return inputState.Axis.MoveX, inputState.Axis.MoveY
}
