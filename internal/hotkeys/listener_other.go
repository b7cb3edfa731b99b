//go:build !linux && !windows

package hotkeys

import (
	"log/slog"

	"github.com/1broseidon/winsnap/internal/platform"
)

func NewListener(platform.Native, *slog.Logger) (Listener, error) {
	return nil, platform.ErrUnsupported
}
