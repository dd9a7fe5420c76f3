// Package clipboard copies a code block's text to the system clipboard and
// tells the user how it went.
package clipboard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var ErrClipboardDenied = errors.New("clipboard write denied")

const (
	SuccessMessage    = "Code copied to clipboard!"
	ManualCopyMessage = "Could not copy the code automatically. Please select it and copy it manually."
)

// Writer places text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// Notifier shows a message the user has to acknowledge.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Widget runs one copy per Activate call. The write runs asynchronously and the
// notification is only shown once it has resolved or failed.
type Widget struct {
	Clipboard Writer
	Notifier  Notifier
	Logger    *slog.Logger
}

func (w *Widget) Activate(text string) error {
	result := make(chan error, 1)
	go func() {
		result <- w.Clipboard.WriteAll(text)
	}()
	err := <-result

	if err != nil {
		if !errors.Is(err, ErrClipboardDenied) {
			err = fmt.Errorf("%w: %w", ErrClipboardDenied, err)
		}
		w.logger().Error("copy to clipboard failed", "error", err)
		w.Notifier.Notify(ManualCopyMessage)
		return err
	}
	w.Notifier.Notify(SuccessMessage)
	return nil
}

func (w *Widget) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// TerminalNotifier prints the message and, when In is set, blocks until the
// user presses Enter.
type TerminalNotifier struct {
	Out io.Writer
	In  io.Reader
}

func (n TerminalNotifier) Notify(message string) {
	if n.In == nil {
		fmt.Fprintln(n.Out, message)
		return
	}
	fmt.Fprintf(n.Out, "%s [press Enter]", message)
	_, _ = bufio.NewReader(n.In).ReadString('\n')
	fmt.Fprintln(n.Out)
}
