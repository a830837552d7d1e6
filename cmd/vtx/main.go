// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vtx/vtx/internal/config"
	vtxlog "github.com/vtx/vtx/internal/log"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

const usage = `vtx - video translation client

Usage:
  vtx login      -email <addr> [-password <pw>]     authenticate and store the session
  vtx languages                                     list selectable target languages
  vtx upload     -file <path> -lang <code> [...]    validate, submit and watch a translation
  vtx dashboard                                     show the account summary
  vtx serve-mock                                    run the simulated backend
  vtx -version                                      print version and exit

Every subcommand accepts -config <path> to load a YAML config file.
Environment (VTX_*) overrides the file; the file overrides defaults.
`

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if args[0] == "-version" || args[0] == "--version" {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var code int
	switch args[0] {
	case "login":
		code = runLogin(ctx, args[1:])
	case "languages":
		code = runLanguages(ctx, args[1:])
	case "upload":
		code = runUpload(ctx, args[1:])
	case "dashboard":
		code = runDashboard(ctx, args[1:])
	case "serve-mock":
		code = runServeMock(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		code = 2
	}
	os.Exit(code)
}

// bootstrap loads configuration and configures logging for a subcommand.
func bootstrap(configPath string) (config.AppConfig, error) {
	vtxlog.Configure(vtxlog.Config{Level: "info", Service: "vtx", Version: version})

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return config.AppConfig{}, err
	}

	vtxlog.Configure(vtxlog.Config{Level: cfg.LogLevel, Service: "vtx", Version: version})
	return cfg, nil
}
