package xwm

import (
	"fmt"
	"testing"

	"github.com/ItsNotGoodName/x-tilewm/internal/command"
)

func TestCallCommandPassesNameAndArguments(t *testing.T) {
	f := newFixture(t)
	var got command.Input
	f.commands.fn = func(input command.Input, channels command.OutputChannels) int {
		got = input
		fmt.Fprint(channels.Out, "out text")
		fmt.Fprint(channels.Err, "err text")
		return 3
	}

	result := f.loop.CallCommand([]string{"focus", "left", "--wrap"})

	if got.Command != "focus" {
		t.Fatalf("command = %q", got.Command)
	}
	if len(got.Args) != 2 || got.Args[0] != "left" || got.Args[1] != "--wrap" {
		t.Fatalf("args = %v", got.Args)
	}
	if result.ExitCode != 3 || result.Output != "out text" || result.Error != "err text" {
		t.Fatalf("result = %+v", result)
	}
}

func TestCallCommandEmptyCall(t *testing.T) {
	f := newFixture(t)
	var got command.Input
	called := false
	f.commands.fn = func(input command.Input, channels command.OutputChannels) int {
		called = true
		got = input
		return command.ExitNotFound
	}

	result := f.loop.CallCommand(nil)

	if !called {
		t.Fatal("an empty call still reaches the interpreter")
	}
	if got.Command != "" || len(got.Args) != 0 {
		t.Fatalf("input = %+v, want empty command and no args", got)
	}
	if result.ExitCode != command.ExitNotFound {
		t.Fatalf("exit = %d", result.ExitCode)
	}
}
