// Package input turns SDL2 events into per-frame viewer input.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a translated event.
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
	Width  int
	Height int
	MouseX int
	MouseY int
	DX, DY int     // relative motion
	Wheel  float32 // positive away from the user
	Button uint8
}

// Frame is everything that happened since the previous Update.
type Frame struct {
	Quit    bool
	DragX   float32 // pixels moved with the left button held
	DragY   float32
	Wheel   float32
	Resized bool
	Width   int
	Height  int
	Pressed []sdl.Scancode
}

// KeyPressed reports whether key went down this frame.
func (f *Frame) KeyPressed(key sdl.Scancode) bool {
	for _, k := range f.Pressed {
		if k == key {
			return true
		}
	}
	return false
}

// Input handles all input processing.
type Input struct {
	frame    Frame
	dragging bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{}
}

// Update polls SDL events and folds them into a Frame.
func (i *Input) Update() *Frame {
	i.Reset()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := Translate(event); ok {
			i.Apply(e)
		}
	}
	return &i.frame
}

// Reset clears the frame state of the previous Update.
// The left button stays held across frames.
func (i *Input) Reset() {
	pressed := i.frame.Pressed[:0]
	i.frame = Frame{Pressed: pressed}
}

// Apply folds one event into the current frame.
func (i *Input) Apply(e Event) {
	f := &i.frame

	switch e.Type {
	case EventQuit:
		f.Quit = true
	case EventWindowResize:
		f.Resized = true
		f.Width, f.Height = e.Width, e.Height
	case EventKeyDown:
		f.Pressed = append(f.Pressed, e.Key)
	case EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT {
			i.dragging = true
		}
	case EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT {
			i.dragging = false
		}
	case EventMouseMove:
		if i.dragging {
			f.DragX += float32(e.DX)
			f.DragY += float32(e.DY)
		}
	case EventMouseWheel:
		f.Wheel += e.Wheel
	}
}

// Translate converts one SDL event. Events the viewer does not use
// report false.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}
		if e.Type == sdl.KEYUP {
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DX:     int(e.XRel),
			DY:     int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
			return ev, true
		}
		if e.Type == sdl.MOUSEBUTTONUP {
			ev.Type = EventMouseUp
			return ev, true
		}

	case *sdl.MouseWheelEvent:
		y := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		return Event{Type: EventMouseWheel, Wheel: y}, true
	}

	return Event{}, false
}
