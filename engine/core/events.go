package core

import "sync"

// Internal event codes. Applications should use codes beyond MAX_EVENT_CODE.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Gameplay action pressed.
	/* Context usage:
	 * ae := ctx.Data.(*ActionEvent)
	 */
	EVENT_CODE_ACTION_PRESSED EventCode = 0x02

	// Gameplay action released.
	/* Context usage:
	 * ae := ctx.Data.(*ActionEvent)
	 */
	EVENT_CODE_ACTION_RELEASED EventCode = 0x03

	// An asset file changed on disk and was re-indexed.
	/* Context usage:
	 * ae := ctx.Data.(AssetEvent)
	 */
	EVENT_CODE_ASSET_RELOADED EventCode = 0x04

	// A weapon was equipped on a character.
	EVENT_CODE_WEAPON_EQUIPPED EventCode = 0x05

	// The active sight of the equipped weapon changed.
	EVENT_CODE_SIGHT_CHANGED EventCode = 0x06

	// A new base pose was sampled into the skeleton.
	EVENT_CODE_POSE_SAMPLED EventCode = 0x07

	MAX_EVENT_CODE EventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type EventContext struct {
	Type EventCode
	Data interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// State structure.
type eventSystemState struct {
	mutex sync.RWMutex
	// Lookup table for event codes.
	registered map[EventCode][]*registeredEvent
}

var onceEvent sync.Once
var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			registered: make(map[EventCode][]*registeredEvent),
		}
	})
	return eventState != nil
}

func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()

	// Listeners are owned elsewhere, drop the references only.
	eventState.registered = make(map[EventCode][]*registeredEvent)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. A listener
 * can only be registered once per code.
 * @param code The event code to listen for.
 * @param listener The listener instance, used as identity for unregistering. Can be nil.
 * @param onEvent The callback invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	if eventState == nil || onEvent == nil || code >= MAX_MESSAGE_CODES {
		return false
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()

	for _, e := range eventState.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}

	eventState.registered[code] = append(eventState.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister a listener from the provided code.
 * @param code The event code to stop listening for.
 * @param listener The listener instance used at registration.
 * @returns true if the event is successfully unregistered; otherwise false.
 */
func EventUnregister(code EventCode, listener interface{}) bool {
	if eventState == nil {
		return false
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()

	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the context type. If a handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * Callbacks run on the calling goroutine.
 * @param context The event type and data.
 * @returns true if handled, otherwise false.
 */
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mutex.RLock()
	events := make([]*registeredEvent, len(eventState.registered[context.Type]))
	copy(events, eventState.registered[context.Type])
	eventState.mutex.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// AssetEvent is the payload of EVENT_CODE_ASSET_RELOADED.
type AssetEvent struct {
	Path string
	Name string
}

// ActionEvent is the payload of the action pressed/released events.
type ActionEvent struct {
	Action Action
}
