// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
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

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	// XRel and YRel are motion deltas, valid in relative mouse mode.
	XRel   int
	YRel   int
	WheelY int
	Button uint8
}

// Input handles all input processing. Besides the per-frame event list it
// tracks which keys are held so movement can be applied every frame.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	mouseDX, mouseDY int
	wheel            int
	quit             bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events. Returns true if the application should quit.
func (i *Input) Update() bool {
	i.reset()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.quit
}

func (i *Input) reset() {
	i.events = i.events[:0]
	i.mouseDX, i.mouseDY = 0, 0
	i.wheel = 0
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		i.quit = true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		case sdl.WINDOWEVENT_FOCUS_LOST:
			clear(i.held)
		}

	case *sdl.KeyboardEvent:
		code := e.Keysym.Scancode
		if e.Type == sdl.KEYDOWN {
			i.held[code] = true
			i.events = append(i.events, Event{Type: EventKeyDown, Key: code, Repeat: e.Repeat != 0})
		} else if e.Type == sdl.KEYUP {
			delete(i.held, code)
			i.events = append(i.events, Event{Type: EventKeyUp, Key: code})
		}

	case *sdl.MouseMotionEvent:
		i.mouseDX += int(e.XRel)
		i.mouseDY += int(e.YRel)
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			XRel:   int(e.XRel),
			YRel:   int(e.YRel),
		})

	case *sdl.MouseWheelEvent:
		y := int(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		i.wheel += y
		i.events = append(i.events, Event{Type: EventMouseWheel, WheelY: y})

	case *sdl.MouseButtonEvent:
		t := EventMouseDown
		if e.Type == sdl.MOUSEBUTTONUP {
			t = EventMouseUp
		}
		i.events = append(i.events, Event{
			Type:   t,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		})
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether a key went down this frame. Auto-repeat
// events do not count.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// MouseDelta returns the summed relative motion of the last Update.
func (i *Input) MouseDelta() (dx, dy int) {
	return i.mouseDX, i.mouseDY
}

// Wheel returns the summed vertical wheel motion of the last Update.
func (i *Input) Wheel() int {
	return i.wheel
}
