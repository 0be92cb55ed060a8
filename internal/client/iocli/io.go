// Package iocli abstracts terminal input and output for the CLI.
package iocli

//go:generate moq -out io_mock.go . IO

// IO терминал пользователя
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
	// IsInteractive reports whether input comes from a terminal,
	// so prompts can be answered
	IsInteractive() bool
}
