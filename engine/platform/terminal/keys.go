package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/spaghettifunk/ember/engine/core"
)

var specialKeys = map[tcell.Key]core.KeyCode{
	tcell.KeyEnter:      core.KEY_ENTER,
	tcell.KeyTab:        core.KEY_TAB,
	tcell.KeyBackspace:  core.KEY_BACKSPACE,
	tcell.KeyBackspace2: core.KEY_BACKSPACE,
	tcell.KeyEscape:     core.KEY_ESCAPE,
	tcell.KeyUp:         core.KEY_UP,
	tcell.KeyDown:       core.KEY_DOWN,
	tcell.KeyLeft:       core.KEY_LEFT,
	tcell.KeyRight:      core.KEY_RIGHT,
	tcell.KeyHome:       core.KEY_HOME,
	tcell.KeyEnd:        core.KEY_END,
	tcell.KeyPgUp:       core.KEY_PRIOR,
	tcell.KeyPgDn:       core.KEY_NEXT,
	tcell.KeyInsert:     core.KEY_INSERT,
	tcell.KeyDelete:     core.KEY_DELETE,
	tcell.KeyF1:         core.KEY_F1,
	tcell.KeyF2:         core.KEY_F2,
	tcell.KeyF3:         core.KEY_F3,
	tcell.KeyF4:         core.KEY_F4,
	tcell.KeyF5:         core.KEY_F5,
	tcell.KeyF6:         core.KEY_F6,
	tcell.KeyF7:         core.KEY_F7,
	tcell.KeyF8:         core.KEY_F8,
	tcell.KeyF9:         core.KEY_F9,
	tcell.KeyF10:        core.KEY_F10,
	tcell.KeyF11:        core.KEY_F11,
	tcell.KeyF12:        core.KEY_F12,
}

var runeKeys = map[rune]core.KeyCode{
	' ': core.KEY_SPACE,
	';': core.KEY_SEMICOLON,
	'+': core.KEY_PLUS,
	'=': core.KEY_PLUS,
	',': core.KEY_COMMA,
	'-': core.KEY_MINUS,
	'.': core.KEY_PERIOD,
	'/': core.KEY_SLASH,
	'`': core.KEY_GRAVE,
}

// isQuit reports the key combinations that end the program.
func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		return ev.Modifiers()&tcell.ModCtrl != 0 && (r == 'c' || r == 'q')
	}
	return false
}

func translateKey(ev *tcell.EventKey) (core.KeyCode, bool) {
	if ev.Key() != tcell.KeyRune {
		code, ok := specialKeys[ev.Key()]
		return code, ok
	}

	r := unicode.ToUpper(ev.Rune())
	switch {
	case r >= 'A' && r <= 'Z':
		return core.KEY_A + core.KeyCode(r-'A'), true
	case r >= '0' && r <= '9':
		// digits share their ASCII codes
		return core.KeyCode(r), true
	}
	code, ok := runeKeys[r]
	return code, ok
}

// translate converts a tcell event into the engine events it stands for.
// Terminals never report key releases.
func translate(ev tcell.Event) []core.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return []core.Event{core.QuitEvent{}}
		}
		code, ok := translateKey(ev)
		if !ok {
			return nil
		}
		var r rune
		if ev.Key() == tcell.KeyRune {
			r = ev.Rune()
		}
		return []core.Event{core.KeyEvent{KeyCode: code, Rune: r, Pressed: true}}

	case *tcell.EventResize:
		w, h := ev.Size()
		return []core.Event{core.ResizeEvent{Width: uint32(w), Height: uint32(h)}}

	case *tcell.EventMouse:
		x, y := ev.Position()
		buttons := ev.Buttons()
		out := []core.Event{
			core.MouseMoveEvent{X: int32(x), Y: int32(y)},
			core.MouseButtonEvent{Button: core.BUTTON_LEFT, Pressed: buttons&tcell.Button1 != 0},
			core.MouseButtonEvent{Button: core.BUTTON_RIGHT, Pressed: buttons&tcell.Button2 != 0},
			core.MouseButtonEvent{Button: core.BUTTON_MIDDLE, Pressed: buttons&tcell.Button3 != 0},
		}
		switch {
		case buttons&tcell.WheelUp != 0:
			out = append(out, core.MouseWheelEvent{Delta: 1})
		case buttons&tcell.WheelDown != 0:
			out = append(out, core.MouseWheelEvent{Delta: -1})
		}
		return out
	}
	return nil
}
