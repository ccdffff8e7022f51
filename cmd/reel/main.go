// Command reel plays sprite-sheet animations headlessly, renders their
// frames to images and streams playback to remote viewers.
package main

import (
	"os"

	"github.com/go-drift/reel/cmd/reel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
