package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/tendero"
	"github.com/aretw0/tendero/internal/presentation/tui"
	"github.com/aretw0/tendero/pkg/runner"
	"golang.org/x/term"
)

// ChatOptions configures an interactive console session.
type ChatOptions struct {
	Identity string
	// Fresh discards the conversation in progress before starting.
	Fresh bool
	// Plain disables markdown rendering and the banner.
	Plain bool

	In  io.Reader
	Out io.Writer
}

// RunChat drives the flow from the terminal as opts.Identity.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	if opts.Fresh {
		if err := app.Dispatcher.Reset(sigCtx, opts.Identity); err != nil {
			return err
		}
	}

	consoleOpts := []runner.ConsoleOption{
		runner.WithInput(opts.In),
		runner.WithOutput(opts.Out),
	}
	if !opts.Plain && isTerminal(opts.Out) {
		tui.PrintBanner(opts.Out, tendero.Version)
		consoleOpts = append(consoleOpts, runner.WithRenderer(tui.NewRenderer()))
	}

	app.Logger.Info("chat started", "identity", opts.Identity)
	err := runner.NewConsole(app.Dispatcher, opts.Identity, consoleOpts...).Run(sigCtx)
	logCompletion(opts.Out, opts.Identity, err, sigCtx.Signal())
	return handleExecutionError(err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
