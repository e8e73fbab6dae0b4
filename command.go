package main

type Command int

const (
	CmdNone Command = iota
	CmdJump
	CmdSearch
)

type commandSpec struct {
	badge  string
	prompt string
}

var commandSpecs = map[Command]commandSpec{
	CmdJump:   {badge: "[JUMP]", prompt: "sample id: "},
	CmdSearch: {badge: "[FIND]", prompt: "timestamp: "},
}

// CommandInput is the one-line prompt typed in the table pane.
type CommandInput struct {
	cmd Command
	buf string
}

// activeCommandLine is what the footer status line shows while typing.
func (m *model) activeCommandLine() string {
	spec, ok := commandSpecs[m.ui.command.cmd]
	if !ok {
		return ""
	}
	return spec.badge + " " + spec.prompt + m.ui.command.buf + "▏  enter: go  esc: cancel"
}
