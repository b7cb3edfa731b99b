// Package resize normalizes a window's show state and applies a new size.
package resize

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winsnap/internal/platform"
)

// DefaultSettleDelay is how long Resize waits after a restore before
// re-checking the window state.
const DefaultSettleDelay = 100 * time.Millisecond

type Options struct {
	// SettleDelay is the wait after a restore. Zero selects DefaultSettleDelay.
	SettleDelay time.Duration
	// Sleep replaces time.Sleep, mainly for tests.
	Sleep  func(time.Duration)
	Logger *slog.Logger
}

// Orchestrator resizes windows through a platform.Native.
type Orchestrator struct {
	native platform.Native
	settle time.Duration
	sleep  func(time.Duration)
	logger *slog.Logger
}

func New(native platform.Native, opts Options) *Orchestrator {
	o := &Orchestrator{
		native: native,
		settle: opts.SettleDelay,
		sleep:  opts.Sleep,
		logger: opts.Logger,
	}
	if o.settle <= 0 {
		o.settle = DefaultSettleDelay
	}
	if o.sleep == nil {
		o.sleep = time.Sleep
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Resize sizes win to width x height, keeping its top-left corner. A
// minimized or maximized window is restored first. Every failure is
// reported in the returned Outcome.
func (o *Orchestrator) Resize(win platform.Window, width, height int) Outcome {
	requested := platform.Size{Width: width, Height: height}
	out := Outcome{Window: win, Requested: requested}

	if win.Handle == 0 {
		return out.failed(KindInvalidHandle, msgInvalidHandle, nil)
	}
	if !requested.Valid() {
		return out.failed(KindInvalidSize, msgInvalidSize, nil)
	}

	h := win.Handle
	log := o.logger.With("handle", h, "title", win.Title)

	bounds, err := o.native.WindowRect(h)
	if err != nil {
		log.Debug("bounds unavailable", "err", err)
		return out.failed(KindBoundsUnavailable, msgBoundsUnavailable, codeOf(err))
	}

	if state := Classify(o.native, h); state != platform.StateNormal {
		log.Debug("restoring window before resize", "state", state)
		if err := o.restore(h); err != nil {
			log.Warn("restore failed", "state", state, "err", err)
			return out.failed(KindRestoreFailed, fmt.Sprintf("Failed to restore window from %s state", state), codeOf(err))
		}
		out.StateChanged = true
		// The restored window sits at its normal position, not the
		// maximized or iconified one.
		if restored, err := o.native.WindowRect(h); err == nil {
			bounds = restored
		}
	}

	target := platform.Rect{X: bounds.X, Y: bounds.Y, Width: width, Height: height}
	if err := o.native.SetBounds(h, target); err != nil {
		log.Warn("resize failed", "target", target, "err", err)
		code := codeOf(err)
		if code == nil {
			return out.failed(KindNativeOperationFailed, fmt.Sprintf("Unexpected error: %v", err), nil)
		}
		return out.failed(KindNativeOperationFailed, DescribeCode(*code), code)
	}

	out.Actual = requested
	if after, err := o.native.WindowRect(h); err == nil {
		out.Actual = after.Size()
	} else {
		log.Debug("could not verify new size", "err", err)
	}
	out.Success = true
	log.Info("window resized", "requested", requested, "actual", out.Actual, "state_changed", out.StateChanged)
	return out
}

// restore issues a "show normal" and, if the window is still not normal
// after the settle delay, writes a normal placement directly.
func (o *Orchestrator) restore(h platform.Handle) error {
	if err := o.native.Restore(h); err != nil {
		o.logger.Debug("show-normal failed, trying placement", "handle", h, "err", err)
	} else {
		o.sleep(o.settle)
		if Classify(o.native, h) == platform.StateNormal {
			return nil
		}
	}
	return o.native.SetNormalPlacement(h)
}

// Activate restores a minimized window and brings it to the foreground.
// When the window system refuses foreground activation the window is only
// raised, which still counts as success.
func (o *Orchestrator) Activate(win platform.Window) bool {
	h := win.Handle
	if h == 0 {
		return false
	}
	if o.native.IsMinimized(h) {
		if err := o.native.Restore(h); err != nil {
			o.logger.Debug("restore before activate failed", "handle", h, "err", err)
		}
	}
	err := o.native.SetForeground(h)
	if err == nil {
		return true
	}
	o.logger.Debug("foreground refused, raising instead", "handle", h, "err", err)
	if err := o.native.BringToTop(h); err != nil {
		o.logger.Warn("activate failed", "handle", h, "err", err)
		return false
	}
	return true
}
