//go:build windows

package info

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

func osInfo() string {
	v := windows.RtlGetVersion()
	if v == nil {
		return runtime.GOOS + " " + runtime.GOARCH
	}
	return fmt.Sprintf("Windows %d.%d Build %d %s", v.MajorVersion, v.MinorVersion, v.BuildNumber, runtime.GOARCH)
}
