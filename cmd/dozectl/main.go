// Command dozectl enters, leaves or reads doze mode on one device over ADB or
// against an in-process simulated device.
package main

import (
	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("dozectl"),
		kong.Description("Drive a device in and out of doze idle mode and verify the result."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run(&cli))
}
