package xwm

import (
	"bytes"

	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/ipc"
)

// CallCommand adapts an IPC call vector into a command invocation: the
// head is the command name, the tail its arguments. Output and error
// streams are captured and returned verbatim with the exit code. An
// empty vector becomes an empty command name, which the interpreter
// rejects on its own terms.
func (m *MainLoop) CallCommand(call []string) ipc.CallResult {
	var output, errOutput bytes.Buffer
	name := ""
	args := []string{}
	if len(call) > 0 {
		name = call[0]
		args = call[1:]
	}
	channels := command.OutputChannels{Name: name, Out: &output, Err: &errOutput}
	exitCode := m.root.Commands.Call(command.NewInput(name, args), channels)
	return ipc.CallResult{
		ExitCode: exitCode,
		Output:   output.String(),
		Error:    errOutput.String(),
	}
}
