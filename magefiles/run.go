//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the testbed with the configuration in assets/config.toml.
func (Run) Demo() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run demo...")
	if _, err := executeCmd(filepath.Join("bin", binaryName), withArgs("-config", filepath.Join("assets", "config.toml")), withDir("."), withStream()); err != nil {
		return err
	}
	return nil
}
