package main

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// globalState holds everything the commands touch outside the process, so
// tests can swap in an in-memory filesystem, buffers and a fake environment.
type globalState struct {
	fs        afero.Fs
	stdout    io.Writer
	stderr    io.Writer
	stdoutTTY bool
	lookupEnv func(string) (string, bool)
	logger    *logrus.Logger
}

func newGlobalState() *globalState {
	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderr := colorable.NewColorableStderr()

	return &globalState{
		fs:        afero.NewOsFs(),
		stdout:    colorable.NewColorableStdout(),
		stderr:    stderr,
		stdoutTTY: stdoutTTY,
		lookupEnv: os.LookupEnv,
		logger: &logrus.Logger{
			Out:       stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}
