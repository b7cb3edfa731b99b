//go:build !linux && !windows

package platform

// NewNative reports that no window-system backend exists for this OS.
func NewNative() (Native, error) {
	return nil, ErrUnsupported
}
