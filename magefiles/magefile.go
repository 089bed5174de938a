//go:build mage

package main

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary     = "bin/modelview"
	shaderDir  = "internal/viewer/shaders"
	glslLinter = "glslangValidator"
)

type Build mg.Namespace

// Builds the viewer binary into bin/.
func (Build) Viewer() error {
	mg.Deps(Build.Shaders)
	return sh.RunV("go", "build", "-o", binary, "./cmd/modelview")
}

// Validates the embedded GLSL sources when glslangValidator is installed.
func (Build) Shaders() error {
	if _, err := exec.LookPath(glslLinter); err != nil {
		fmt.Printf("%s not found, skipping shader validation\n", glslLinter)
		return nil
	}
	for _, ext := range []string{"*.vert", "*.geom", "*.frag"} {
		files, err := filepath.Glob(filepath.Join(shaderDir, ext))
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := sh.RunV(glslLinter, f); err != nil {
				return err
			}
		}
	}
	return nil
}

type Test mg.Namespace

// Runs the unit tests with the race detector.
func (Test) Unit() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Runs go vet.
func (Test) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Runs the viewer on two model files: mage run model.gltf light.gltf
func Run(model, light string) error {
	mg.Deps(Build.Viewer)
	return sh.RunV(binary, model, light)
}

// Removes build output.
func Clean() error {
	return sh.Rm("bin")
}
