// Package clipboard copies text to the system clipboard, falling back to
// the OSC52 terminal escape when no native clipboard is reachable (ssh,
// headless boxes).
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/andareed/siftly-labeler/logging"
)

// native is swapped in tests.
var native = clipboard.WriteAll

func Copy(text string) error {
	if !clipboard.Unsupported {
		err := native(text)
		if err == nil {
			logging.Debugf("Clipboard: copied %d bytes natively", len(text))
			return nil
		}
		logging.Warnf("Clipboard: native copy failed, trying OSC52: %v", err)
	}
	return copyOSC52(text)
}
