// Package clipboard copies text to the system clipboard: the native
// clipboard first, then the OSC 52 escape sequence, which also works over
// SSH in most modern terminals.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// Copier puts text on a clipboard.
type Copier interface {
	Copy(text string) error
}

// System is the Copier backed by the user's clipboard.
type System struct{}

// Copy tries the native clipboard and falls back to OSC 52.
func (System) Copy(text string) error {
	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return nil
		}
	}
	return CopyOSC52(text)
}

// CopyOSC52 writes the OSC 52 clipboard sequence to the controlling
// terminal.
func CopyOSC52(text string) error {
	seq := fmt.Sprintf("\033]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))

	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("clipboard: no terminal for OSC 52: %w", err)
	}
	defer tty.Close()

	_, err = fmt.Fprint(tty, seq)
	return err
}
