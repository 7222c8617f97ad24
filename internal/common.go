package internal

// FnModeOptions carries the run modes shared by the CLI, the TUI and the hub
type FnModeOptions struct {
	Debug bool
	// Test replaces the TV transport with a simulated one that always succeeds
	Test bool
}

type FnModeOption func(*FnModeOptions)

func WithDebug(debug bool) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Debug = debug
	}
}

func WithTest(test bool) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Test = test
	}
}

func NewModeOptions(options ...FnModeOption) *FnModeOptions {
	opts := &FnModeOptions{}
	for _, option := range options {
		option(opts)
	}
	return opts
}
