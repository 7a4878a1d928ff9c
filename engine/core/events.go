package core

// System internal event codes. Application should use codes beyond 255.
type EventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed.
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel scrolled.
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Resized/resolution changed from the OS.
	EVENT_CODE_RESIZED EventCode = 0x08

	MAX_EVENT_CODE EventCode = 0xFF
)

// Event is a platform event routed by the system plugin to the video, input and
// UI plugins.
type Event interface {
	Code() EventCode
}

type QuitEvent struct{}

func (QuitEvent) Code() EventCode { return EVENT_CODE_APPLICATION_QUIT }

type KeyEvent struct {
	KeyCode KeyCode
	// Rune is the printable character, if any.
	Rune    rune
	Pressed bool
}

func (e KeyEvent) Code() EventCode {
	if e.Pressed {
		return EVENT_CODE_KEY_PRESSED
	}
	return EVENT_CODE_KEY_RELEASED
}

type MouseButtonEvent struct {
	Button  Button
	Pressed bool
}

func (e MouseButtonEvent) Code() EventCode {
	if e.Pressed {
		return EVENT_CODE_BUTTON_PRESSED
	}
	return EVENT_CODE_BUTTON_RELEASED
}

type MouseMoveEvent struct {
	X int32
	Y int32
}

func (MouseMoveEvent) Code() EventCode { return EVENT_CODE_MOUSE_MOVED }

type MouseWheelEvent struct {
	Delta int8
}

func (MouseWheelEvent) Code() EventCode { return EVENT_CODE_MOUSE_WHEEL }

type ResizeEvent struct {
	Width  uint32
	Height uint32
}

func (ResizeEvent) Code() EventCode { return EVENT_CODE_RESIZED }
