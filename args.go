package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Args are command line arguments. Modeled on catbox's args.go, trimmed of
// the -listen-fd/-server-name/-sid flags that exist there only to support
// the TS6 server-linking Non-goal this spec excludes.
type Args struct {
	ConfigFile string
}

func getArgs() (*Args, error) {
	configFile := flag.String("conf", "", "Configuration file.")

	flag.Parse()

	if len(*configFile) == 0 {
		printUsage()
		return nil, errors.New("you must provide a configuration file")
	}

	configPath, err := filepath.Abs(*configFile)
	if err != nil {
		printUsage()
		return nil, errors.Wrap(err, "unable to determine path to the configuration file")
	}

	return &Args{ConfigFile: configPath}, nil
}

func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, "Usage: %s -conf <file>\n", os.Args[0])
	flag.PrintDefaults()
}
