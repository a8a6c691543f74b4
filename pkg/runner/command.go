package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// CommandName identifies a runner command.
type CommandName string

const (
	CmdNavigate CommandName = "go"
	CmdStatus   CommandName = "status"
	CmdJournal  CommandName = "journal"
	CmdHelp     CommandName = "help"
	CmdQuit     CommandName = "quit"
)

// ErrEmptyCommand is returned for blank input lines.
var ErrEmptyCommand = errors.New("empty command")

// Command is one parsed input line.
type Command struct {
	Name CommandName `json:"command"`
	Args []string    `json:"args,omitempty"`
}

var aliases = map[string]CommandName{
	"go":       CmdNavigate,
	"navigate": CmdNavigate,
	"nav":      CmdNavigate,
	"status":   CmdStatus,
	"snapshot": CmdStatus,
	"journal":  CmdJournal,
	"history":  CmdJournal,
	"help":     CmdHelp,
	"?":        CmdHelp,
	"quit":     CmdQuit,
	"exit":     CmdQuit,
	"close":    CmdQuit,
}

// ParseCommand splits line with shell quoting rules. A single unknown word is
// taken as a namespace to navigate to.
func ParseCommand(line string) (Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("invalid command: %w", err)
	}
	if len(words) == 0 {
		return Command{}, ErrEmptyCommand
	}
	name, ok := aliases[strings.ToLower(words[0])]
	if !ok {
		if len(words) == 1 {
			return Command{Name: CmdNavigate, Args: words}, nil
		}
		return Command{}, fmt.Errorf("unknown command %q", words[0])
	}
	return Command{Name: name, Args: words[1:]}.validate()
}

func (c Command) validate() (Command, error) {
	switch c.Name {
	case CmdNavigate:
		if len(c.Args) != 1 {
			return Command{}, fmt.Errorf("usage: go <namespace>")
		}
	case CmdJournal:
		if len(c.Args) > 1 {
			return Command{}, fmt.Errorf("usage: journal [n]")
		}
		if len(c.Args) == 1 {
			if n, err := strconv.Atoi(c.Args[0]); err != nil || n <= 0 {
				return Command{}, fmt.Errorf("journal: %q is not a positive number", c.Args[0])
			}
		}
	case CmdStatus, CmdHelp, CmdQuit:
		if len(c.Args) > 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", c.Name)
		}
	default:
		return Command{}, fmt.Errorf("unknown command %q", c.Name)
	}
	return c, nil
}

// Limit returns the journal size requested, or fallback.
func (c Command) Limit(fallback int) int {
	if len(c.Args) == 1 {
		if n, err := strconv.Atoi(c.Args[0]); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

const helpText = `commands:
  go <namespace>   navigate to a page (a bare namespace works too)
  status           show the orchestrator state
  journal [n]      show the most recent cycle reports
  help             show this help
  quit             close the orchestrator and exit`
