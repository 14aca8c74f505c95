package engine

import (
	"strconv"
	"strings"
)

// CommandKind enumerates the inbound session commands. Free text that
// matches no command is a search query.
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdFolders
	CmdFolder
	CmdConv
	CmdRange
	CmdBack
	CmdCalendar
	CmdActions
	CmdQuery
)

// Command is one parsed inbound token.
type Command struct {
	Kind  CommandKind
	Index int    // 1-based, for CmdFolder and CmdConv
	Arg   string // range token or query text
}

// ParseCommand turns one line of user input into a Command. Numeric
// arguments are 1-based screen positions; anything unrecognized is a
// query.
func ParseCommand(text string) Command {
	trimmed := strings.TrimSpace(text)
	fields := strings.Fields(strings.ToLower(trimmed))
	if len(fields) == 0 {
		return Command{Kind: CmdQuery, Arg: ""}
	}

	switch fields[0] {
	case "start":
		if len(fields) == 1 {
			return Command{Kind: CmdStart}
		}
	case "back":
		if len(fields) == 1 {
			return Command{Kind: CmdBack}
		}
	case "folders":
		if len(fields) == 1 {
			return Command{Kind: CmdFolders}
		}
	case "calendar":
		if len(fields) == 1 {
			return Command{Kind: CmdCalendar}
		}
	case "actions":
		if len(fields) == 1 {
			return Command{Kind: CmdActions}
		}
	case "folder":
		if len(fields) == 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				return Command{Kind: CmdFolder, Index: n}
			}
		}
	case "conv":
		if len(fields) == 2 {
			if n, err := strconv.Atoi(fields[1]); err == nil {
				return Command{Kind: CmdConv, Index: n}
			}
		}
	case "range":
		if len(fields) == 2 {
			return Command{Kind: CmdRange, Arg: fields[1]}
		}
	}
	return Command{Kind: CmdQuery, Arg: trimmed}
}
