//go:build mage

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs go mod download and then builds the binary into bin/.
func (Build) Engine() error {
	if err := goTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/ember", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Compiles every GLSL stage under assets/shaders to SPIR-V next to it.
func (Build) Shaders() error {
	for _, ext := range []string{"vert", "geom", "frag", "comp"} {
		sources, err := filepath.Glob(filepath.Join("assets", "shaders", "*."+ext))
		if err != nil {
			return err
		}
		for _, src := range sources {
			out := strings.TrimSuffix(src, filepath.Ext(src)) + "." + ext + ".spv"
			if _, err := executeCmd("glslc", withArgs(src, "-o", out), withStream()); err != nil {
				return fmt.Errorf("compiling %s: %w", src, err)
			}
		}
	}
	return nil
}
