// Package cmd implements the reel CLI commands.
//
// The root command handles the global flags and dispatches to a registered
// subcommand (fit, play, render, serve). Each subcommand parses its own
// flags.
package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command is a reel subcommand.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

const rootLong = `Reel plays sprite-sheet animations described by a YAML descriptor.
It fits frames into a viewport, steps playback on a frame loop and
can render, publish or stream the result.

Use "reel <command> --help" for more information about a command.`

// commands holds the registered subcommands by name.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI. Registering a name twice
// panics.
func RegisterCommand(cmd *Command) {
	if _, dup := commands[cmd.Name]; dup {
		panic("reel: command registered twice: " + cmd.Name)
	}
	commands[cmd.Name] = cmd
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func run(args []string) error {
	rest, err := parseGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		printHelp(os.Stdout)
		return nil
	}

	switch rest[0] {
	case "-h", "-help", "--help", "help":
		printHelp(os.Stdout)
		return nil
	case "-v", "--version", "version":
		fmt.Printf("reel version %s (built %s)\n", Version, BuildTime)
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", rest[0])
		printHelp(os.Stderr)
		return fmt.Errorf("unknown command: %s", rest[0])
	}

	// -h is the height flag of several subcommands, so only the long forms
	// ask for help there.
	cmdArgs := rest[1:]
	for _, arg := range cmdArgs {
		if arg == "-help" || arg == "--help" || arg == "help" {
			printCommandHelp(os.Stdout, cmd)
			return nil
		}
	}
	return cmd.Run(cmdArgs)
}

// parseGlobalFlags consumes --log-level anywhere on the command line and
// returns the remaining arguments.
func parseGlobalFlags(args []string) ([]string, error) {
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if v, ok := strings.CutPrefix(arg, "--log-level="); ok {
			logLevel = v
			continue
		}
		if arg != "--log-level" {
			rest = append(rest, arg)
			continue
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("--log-level requires a level")
		}
		i++
		logLevel = args[i]
	}
	return rest, nil
}

func sortedCommands() []*Command {
	cmds := make([]*Command, 0, len(commands))
	for _, c := range commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "%s\n\nUsage:\n  reel <command> [flags]\n\nCommands:\n", rootLong)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range sortedCommands() {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Short)
	}
	tw.Flush()

	fmt.Fprint(w, `
Flags:
  -h, --help           Show help (--help after a command)
  -v, --version        Show version information
  --log-level LEVEL    Log level (debug, info, warn, error)

Environment:
  REEL_LOG_LEVEL       Log level (lower priority than --log-level)

Examples:
  reel fit -w 400 -h 100 -ratio 2     Fit a 2:1 cell into 400x100
  reel play -config walk.yaml         Play a sprite headlessly
  reel render -config walk.yaml -sheet walk.png -out frames/
  reel serve -config walk.yaml        Stream frames over WebSocket
`)
}

func printCommandHelp(w io.Writer, cmd *Command) {
	fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.Usage)
}
