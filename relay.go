package main

import (
	_ "embed"
	"fmt"
	"os"

	cli "github.com/relaylabs/relay/cmd/relay"
	"github.com/relaylabs/relay/internal/config"

	"github.com/joho/godotenv"
)

//go:embed etc/relay.yaml
var embeddedConfig []byte

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	c, err := config.LoadFromBytes(embeddedConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load embedded config: %v\n", err)
		os.Exit(1)
	}

	if err := cli.SetupRootCmd(&c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
