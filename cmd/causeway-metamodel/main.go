// Command causeway-metamodel builds the metamodel of Go domain packages and
// reports on it.
package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/pkg/errors"

	"causeway-metamodel/internal/config"
	"causeway-metamodel/internal/log"
)

const usage = `usage: causeway-metamodel [-config=<file>] [-env=<file>] [-dir=<path>] [-log=<level>] <command> [<packages>]

Configuration flags:

   -config     YAML configuration file. Defaults apply to every key it omits.
   -env        Environment file loaded before CAUSEWAY_* variables are read (default .env).
   -dir        Directory package patterns are resolved from.
   -log        Log level: debug, info or error.

Package patterns given after the command replace the configured packages.

Commands
   validate    Build the metamodel and print its deficiencies as a numbered list
   classify    Print the bean sort of every type and the rule that decided it
   dump        Print the introspected specifications in Go syntax
   export      Write a YAML summary of the metamodel
   config      Print the effective configuration
   help        Display this help message
`

var (
	configFlag = flag.String("config", "", "configuration file")
	envFlag    = flag.String("env", ".env", "environment file")
	dirFlag    = flag.String("dir", "", "package directory")
	logFlag    = flag.String("log", "", "log level")
)

// errFailures signals validation failures after they have been printed.
var errFailures = errors.New("metamodel has validation failures")

func main() {
	flag.Parse()
	stdlog.SetFlags(0)

	args := flag.Args()
	if len(args) == 0 {
		stdlog.Printf("missing command\n\n")
		fmt.Print(usage)

		return
	}

	cmd, args := args[0], args[1:]
	if cmd == "help" {
		fmt.Print(usage)
		return
	}

	cfg, err := loadConfig(args)
	if err != nil {
		stdlog.Fatalf("config error: %+v\n", err)
	}

	log.Root = log.New(os.Stderr, log.ParseLevel(cfg.LogLevel))

	switch cmd {
	case "validate":
		err = validateCmd(cfg, os.Stdout)
	case "classify":
		err = classifyCmd(cfg, os.Stdout)
	case "dump":
		err = dumpCmd(cfg, os.Stdout)
	case "export":
		err = exportCmd(cfg, os.Stdout)
	case "config":
		err = configCmd(cfg, os.Stdout)
	default:
		stdlog.Printf("unknown command: %s\n\n", cmd)
		fmt.Print(usage)
		os.Exit(2)
	}

	if errors.Is(err, errFailures) {
		os.Exit(1)
	}

	if err != nil {
		stdlog.Fatalf("%s error: %+v\n", cmd, err)
	}
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(packages []string) (*config.Config, error) {
	cfg := config.Default()

	if *configFlag != "" {
		var err error
		if cfg, err = config.LoadFile(*configFlag); err != nil {
			return nil, err
		}
	}

	if err := config.LoadDotEnv(*envFlag); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if *dirFlag != "" {
		cfg.Dir = *dirFlag
	}

	if *logFlag != "" {
		cfg.LogLevel = *logFlag
	}

	if len(packages) > 0 {
		cfg.Packages = packages
	}

	return cfg, nil
}
