// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a translated event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether all bits of m2 are set.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Mods   Modifier
	Width  int
	Height int
	MouseX int
	MouseY int
	// DX, DY are the relative motion of a mouse move.
	DX, DY int
	// Wheel is positive when scrolling away from the user.
	Wheel  int
	Button uint8
	Repeat bool
}

// Input handles all input processing.
type Input struct {
	events  []Event
	keys    map[sdl.Scancode]bool
	buttons map[uint8]bool
	mouseX  int
	mouseY  int
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		keys:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events and converts them to Events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	mods := modifiers(uint16(sdl.GetModState()))
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		e, ok := translate(ev, mods)
		if !ok {
			continue
		}
		i.Record(e)
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// Record appends e to this frame's events and updates held state.
func (i *Input) Record(e Event) {
	switch e.Type {
	case EventKeyDown:
		i.keys[e.Key] = true
	case EventKeyUp:
		delete(i.keys, e.Key)
	case EventMouseDown:
		i.buttons[e.Button] = true
	case EventMouseUp:
		delete(i.buttons, e.Button)
	}
	if e.Type == EventMouseMove || e.Type == EventMouseDown || e.Type == EventMouseUp {
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	}
	i.events = append(i.events, e)
}

// translate converts one SDL event; ok is false for events the viewer
// ignores. mods is the modifier state for events that do not carry one.
func translate(ev sdl.Event, mods Modifier) (Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		out := Event{
			Key:    e.Keysym.Scancode,
			Mods:   modifiers(uint16(e.Keysym.Mod)),
			Repeat: e.Repeat != 0,
		}
		switch e.Type {
		case sdl.KEYDOWN:
			out.Type = EventKeyDown
			return out, true
		case sdl.KEYUP:
			out.Type = EventKeyUp
			return out, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			Mods:   mods,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DX:     int(e.XRel),
			DY:     int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		out := Event{Mods: mods, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			out.Type = EventMouseDown
			return out, true
		case sdl.MOUSEBUTTONUP:
			out.Type = EventMouseUp
			return out, true
		}

	case *sdl.MouseWheelEvent:
		wheel := int(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			wheel = -wheel
		}
		return Event{Type: EventMouseWheel, Mods: mods, Wheel: wheel}, true
	}
	return Event{}, false
}

func modifiers(state uint16) Modifier {
	var m Modifier
	if state&uint16(sdl.KMOD_SHIFT) != 0 {
		m |= ModShift
	}
	if state&uint16(sdl.KMOD_CTRL) != 0 {
		m |= ModCtrl
	}
	if state&uint16(sdl.KMOD_ALT) != 0 {
		m |= ModAlt
	}
	return m
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.keys[scancode]
}

// IsButtonHeld reports whether a mouse button is currently down.
func (i *Input) IsButtonHeld(button uint8) bool {
	return i.buttons[button]
}

// MousePosition returns the last known cursor position.
func (i *Input) MousePosition() (int, int) {
	return i.mouseX, i.mouseY
}
