//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests of every package.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the engine tests with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/..."), withStream())
	return err
}

// Runs the resource cache tests from the engine directory.
func (Test) Resources() error {
	_, err := executeCmd("go", withArgs("test", "-count=1", "./resources/..."), withDir("engine"), withStream())
	return err
}
