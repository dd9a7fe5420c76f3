package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows clipboard API).
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility available on this system", ErrClipboardDenied)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboardDenied, err)
	}
	return nil
}
