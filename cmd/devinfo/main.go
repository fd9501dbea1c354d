// Command devinfo prints the session metadata the demo logs at startup.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"nakazima/padinput/internal/info"
	"nakazima/padinput/internal/logger"
)

func main() {
	backend := flag.String("backend", "xinput", "Backend name to stamp into the session")
	flag.Parse()

	session := info.NewSession("", *backend, logger.StdoutLogger{})
	session.PopulateDeviceInfo()

	jsonBytes, err := json.MarshalIndent(session, "", "\t")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error marshaling to JSON:", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonBytes))
}
