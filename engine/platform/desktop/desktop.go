package desktop

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/containers"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/platform"
	"github.com/spaghettifunk/ember/engine/systems"
)

const eventQueueSize = 256

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type WindowConfig struct {
	Name   string
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

// Desktop is the glfw window shared by the desktop plugins. The System plugin
// owns its lifecycle.
type Desktop struct {
	config    WindowConfig
	logger    *core.Logger
	assetsDir string

	window *glfw.Window
	// filled by the glfw callbacks, drained by GenerateEvents
	mu     sync.Mutex
	events *containers.RingQueue[core.Event]
}

func New(config WindowConfig, logger *core.Logger, assetsDir string) *Desktop {
	return &Desktop{
		config:    config,
		logger:    core.LoggerOrDefault(logger).With("Desktop 🪟 "),
		assetsDir: assetsDir,
		events:    containers.NewRingQueue[core.Event](eventQueueSize),
	}
}

func (d *Desktop) Factory() api.PluginFactory {
	return platform.Slots(map[api.Kind]platform.Constructor{
		api.KindSystem: func(api.Host) api.Plugin { return &System{desktop: d} },
		api.KindVideo:  func(api.Host) api.Plugin { return &Video{desktop: d} },
		api.KindInput:  func(api.Host) api.Plugin { return &Input{state: core.NewInputState()} },
	})
}

func (d *Desktop) startup() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	// no client API, the renderer brings its own
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(d.config.Width), int(d.config.Height), d.config.Name, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}
	d.window = window

	d.window.SetKeyCallback(d.keyCallback)
	d.window.SetMouseButtonCallback(d.mouseButtonCallback)
	d.window.SetCursorPosCallback(d.cursorPosCallback)
	d.window.SetScrollCallback(d.scrollCallback)
	d.window.SetFramebufferSizeCallback(d.framebufferSizeCallback)
	d.window.SetPos(int(d.config.X), int(d.config.Y))
	d.window.Show()

	d.logger.Info("Window '%s' created at %dx%d", d.config.Name, d.config.Width, d.config.Height)
	return nil
}

func (d *Desktop) shutdown() {
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
	glfw.Terminate()
}

// push drops the oldest event when the queue is full.
func (d *Desktop) push(ev core.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.events.IsFull() {
		_, _ = d.events.Dequeue()
	}
	_ = d.events.Enqueue(ev)
}

func (d *Desktop) drain() []core.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Event, 0, d.events.Len())
	for !d.events.IsEmpty() {
		ev, _ := d.events.Dequeue()
		out = append(out, ev)
	}
	return out
}

func (d *Desktop) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	code, ok := translateKey(key)
	if !ok {
		return
	}
	d.push(core.KeyEvent{KeyCode: code, Pressed: action == glfw.Press})
}

func (d *Desktop) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	d.push(core.MouseButtonEvent{Button: b, Pressed: action == glfw.Press})
}

func (d *Desktop) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	d.push(core.MouseMoveEvent{X: int32(xpos), Y: int32(ypos)})
}

func (d *Desktop) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	d.push(core.MouseWheelEvent{Delta: wheelDelta(yoff)})
}

func (d *Desktop) framebufferSizeCallback(w *glfw.Window, width, height int) {
	d.push(core.ResizeEvent{Width: uint32(width), Height: uint32(height)})
}

// System polls glfw and routes the buffered window events.
type System struct {
	desktop *Desktop
	jobs    *systems.JobSystem
}

func (s *System) Name() string {
	return "desktop-system"
}

func (s *System) Init() error {
	if err := s.desktop.startup(); err != nil {
		return err
	}
	jobs, err := systems.NewJobSystem(s.desktop.logger, runtime.NumCPU(), eventQueueSize)
	if err != nil {
		s.desktop.shutdown()
		return err
	}
	s.jobs = jobs
	return nil
}

func (s *System) Shutdown() error {
	err := s.jobs.Shutdown()
	s.desktop.shutdown()
	return err
}

func (s *System) GenerateEvents(video api.Video, input api.Input, ui api.UI) bool {
	glfw.PollEvents()
	if s.desktop.window.ShouldClose() {
		return false
	}
	for _, ev := range s.desktop.drain() {
		if !platform.Route(ev, video, input, ui) {
			return false
		}
	}
	return true
}

func (s *System) Spawn(name string, fn func() error) {
	if err := s.jobs.Submit(systems.Job{Name: name, Run: fn}); err != nil {
		s.desktop.logger.Warn("could not spawn '%s': %s", name, err)
	}
}

func (s *System) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (s *System) AssetsDir() string {
	return s.desktop.assetsDir
}

// Video tracks the framebuffer. Presenting is left to the renderer that owns
// the surface.
type Video struct {
	desktop *Desktop
	width   uint32
	height  uint32
	frames  uint64
}

func (v *Video) Name() string {
	return "desktop-video"
}

func (v *Video) Init() error {
	v.width, v.height = v.desktop.config.Width, v.desktop.config.Height
	return nil
}

func (v *Video) Shutdown() error {
	return nil
}

func (v *Video) BeginFrame() {}

func (v *Video) EndFrame() {
	v.frames++
}

func (v *Video) HandleEvent(ev core.Event) bool {
	resize, ok := ev.(core.ResizeEvent)
	if !ok {
		return false
	}
	v.width, v.height = resize.Width, resize.Height
	return true
}

func (v *Video) Size() (uint32, uint32) {
	return v.width, v.height
}

// Input keeps the keyboard and mouse state. glfw reports releases, so keys
// carry over between frames.
type Input struct {
	state *core.InputState
}

func (i *Input) Name() string {
	return "desktop-input"
}

func (i *Input) Init() error {
	return nil
}

func (i *Input) Shutdown() error {
	return nil
}

func (i *Input) BeginFrame(ts core.PreciseTimestep) {
	i.state.BeginFrame(false)
}

func (i *Input) HandleEvent(ev core.Event) bool {
	return i.state.Apply(ev)
}

func (i *Input) IsKeyDown(key core.KeyCode) bool {
	return i.state.IsKeyDown(key)
}

func (i *Input) IsKeyPressed(key core.KeyCode) bool {
	return i.state.IsKeyPressed(key)
}

func (i *Input) MousePosition() (int32, int32) {
	return i.state.MousePosition()
}
