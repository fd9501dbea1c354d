//go:build !windows

package info

import "runtime"

func osInfo() string {
	return runtime.GOOS + " " + runtime.GOARCH
}
