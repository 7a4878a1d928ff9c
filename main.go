/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/ember/engine"
	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/platform/desktop"
	"github.com/spaghettifunk/ember/engine/platform/terminal"
	"github.com/spaghettifunk/ember/testbed"
)

const (
	configPath = "config.toml"
	// the terminal platform owns stdout and stderr
	terminalLogPath = "ember.log"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %s\n", configPath, err)
		return 1
	}

	var sink io.Writer = os.Stderr
	if cfg.Platform == "terminal" {
		f, err := os.Create(terminalLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create %s: %s\n", terminalLogPath, err)
			return 1
		}
		defer f.Close()
		sink = f
	}

	logger, err := cfg.NewLogger(sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %s\n", err)
		return 1
	}

	factory, err := platformFactory(cfg, logger)
	if err != nil {
		logger.Error("%s", err)
		return 1
	}

	game := testbed.NewTestGame()
	c, err := engine.New(cfg.ToProperties(factory, testbed.RegisterResources, logger), game)
	if err != nil {
		logger.Error("failed to create the engine: %s", err)
		return 1
	}
	if err := c.Init(); err != nil {
		logger.Error("failed to initialize the engine: %s", err)
		return 1
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		// capture sigterm and other system call here
		<-sigCh
		game.Exit(0)
	}()

	code := c.Dispatch()
	if err := c.Shutdown(); err != nil {
		logger.Error("shutdown: %s", err)
	}
	return exitStatus(code)
}

// exitStatus maps the Dispatch result to a process status. A loop that ended
// without any exit request counts as success.
func exitStatus(code int) int {
	if code == engine.ExitCodeUnset {
		return 0
	}
	return code
}

func platformFactory(cfg *engine.ApplicationConfig, logger *core.Logger) (api.PluginFactory, error) {
	switch cfg.Platform {
	case "terminal":
		return terminal.New(terminal.WithLogger(logger), terminal.WithAssetsDir(cfg.Assets.Dir)).Factory(), nil
	case "desktop":
		window := desktop.WindowConfig{
			Name:   cfg.Name,
			X:      cfg.Window.StartPosX,
			Y:      cfg.Window.StartPosY,
			Width:  cfg.Window.StartWidth,
			Height: cfg.Window.StartHeight,
		}
		return desktop.New(window, logger, cfg.Assets.Dir).Factory(), nil
	default:
		return nil, fmt.Errorf("unknown platform '%s'", cfg.Platform)
	}
}
