// Command rengactl drives a Renga session from the command line: it reports
// the application version, lists the category catalogue, imports category
// files into a project and lists what a project contains.
package main

import (
	"os"

	"github.com/hupe1980/renga/native"
)

func main() {
	if err := newRootCmd(native.DefaultBackend()).Execute(); err != nil {
		os.Exit(1)
	}
}
