package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandRun        Command = "run"
	CommandConnect    Command = "connect"
	CommandDisconnect Command = "disconnect"
	CommandRecord     Command = "record"
	CommandTest       Command = "test"
	CommandTrain      Command = "train"
	CommandReset      Command = "reset"
	CommandStatus     Command = "status"
	CommandCounts     Command = "counts"
	CommandDoctor     Command = "doctor"
	CommandVersion    Command = "version"
	CommandHelp       Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandRun:        {},
	CommandConnect:    {},
	CommandDisconnect: {},
	CommandRecord:     {},
	CommandTest:       {},
	CommandTrain:      {},
	CommandReset:      {},
	CommandStatus:     {},
	CommandCounts:     {},
	CommandDoctor:     {},
	CommandVersion:    {},
	CommandHelp:       {},
}

type Parsed struct {
	Command    Command
	Label      string
	ConfigPath string
	ShowHelp   bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp

			// record takes exactly one gesture label argument.
			if cmd == CommandRecord {
				i++
				if i >= len(args) {
					return Parsed{}, errors.New("record requires a gesture label")
				}
				if strings.HasPrefix(args[i], "-") {
					return Parsed{}, errors.New("record requires a gesture label")
				}
				parsed.Label = args[i]
			}

			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command>

Commands:
  run             Start the daemon (sensor bridge + command socket)
  connect         Scan for the sensor and connect to the first match
  disconnect      Drop the sensor link and cancel any open capture
  record LABEL    Capture one training example for the given gesture
  test            Capture one window and classify it against the model
  train           Train the classifier on the collected examples
  reset           Discard all collected examples and the trained model
  status          Print current link state
  counts          Print per-gesture example counts
  doctor          Run configuration and environment checks
  version         Print version information
  help            Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/gestured/config.yaml)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
