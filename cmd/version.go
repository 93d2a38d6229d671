package cmd

import (
	"fmt"
	"runtime"
)

// Version is injected at build time:
//
//	go build -ldflags "-X github.com/koopa0/todo/cmd.Version=v0.2.0"
var Version = "dev"

// runVersion prints version and build information.
func runVersion() {
	fmt.Printf("todo %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
