package engine

import (
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
)

type CoreConfig struct {
	FPS        int `toml:"fps"`
	MaxPlugins int `toml:"max_plugins"`
}

type AssetsConfig struct {
	Dir       string `toml:"dir"`
	HotReload bool   `toml:"hot_reload"`
}

type WindowConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
}

// ApplicationConfig is the content of config.toml.
type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// debug, info, warn or error
	LogLevel string `toml:"log_level"`
	// terminal or desktop
	Platform string       `toml:"platform"`
	Core     CoreConfig   `toml:"core"`
	Assets   AssetsConfig `toml:"assets"`
	Window   WindowConfig `toml:"window"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "ember",
		LogLevel: "info",
		Platform: "terminal",
		Core: CoreConfig{
			FPS:        60,
			MaxPlugins: int(api.KindUser),
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Window: WindowConfig{
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
		},
	}
}

// ParseConfig decodes a TOML document over the defaults.
func ParseConfig(data []byte) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads the config file at path. A missing file yields the defaults.
func LoadConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultApplicationConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// NewLogger builds the logger described by the config.
func (c *ApplicationConfig) NewLogger(w io.Writer) (*core.Logger, error) {
	level, err := core.ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return core.NewLogger(w, level), nil
}

// ToProperties builds CoreProperties from the config.
func (c *ApplicationConfig) ToProperties(factory api.PluginFactory, init ResourceInitializer, logger *core.Logger) CoreProperties {
	props := DefaultCoreProperties(factory)
	props.FPS = c.Core.FPS
	props.MaxPlugins = c.Core.MaxPlugins
	props.AssetsDir = c.Assets.Dir
	props.HotReload = c.Assets.HotReload
	props.Logger = logger
	if init != nil {
		props.ResourceInitializer = init
	}
	return props
}
