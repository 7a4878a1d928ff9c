package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/ember/engine"
)

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, exitStatus(engine.ExitCodeUnset))
	assert.Equal(t, 0, exitStatus(0))
	assert.Equal(t, 7, exitStatus(7))
}

func TestPlatformFactory(t *testing.T) {
	cfg := engine.DefaultApplicationConfig()

	factory, err := platformFactory(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, factory)

	cfg.Platform = "console"
	_, err = platformFactory(cfg, nil)
	assert.ErrorContains(t, err, "unknown platform 'console'")
}
