//go:build !linux

package workerpool

// PinToCPU is not available outside Linux.
func PinToCPU(cpu int) error {
	return ErrAffinityUnsupported
}
