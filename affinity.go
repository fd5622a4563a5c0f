//go:build linux

package workerpool

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling OS thread to a single CPU. Workers pin
// to their index modulo the CPU count. The caller must hold the thread
// with runtime.LockOSThread.
func PinToCPU(cpu int) error {
	if cpu < 0 {
		return fmt.Errorf("workerpool: invalid cpu %d", cpu)
	}
	cpu %= runtime.NumCPU()

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return fmt.Errorf("workerpool: pin to cpu %d: %w", cpu, err)
	}
	return nil
}
