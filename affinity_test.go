//go:build linux

package workerpool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	wp "github.com/azargarov/ppool"
)

func TestPinToCPURejectsNegative(t *testing.T) {
	assert.Error(t, wp.PinToCPU(-1))
}

func TestPinnedWorkersRunOnOneCPU(t *testing.T) {
	var allowed unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &allowed))
	if !allowed.IsSet(0) {
		t.Skip("cpu 0 is not in this process's affinity mask")
	}

	p, err := wp.NewPoolFromOptions(wp.Options{Workers: 1, PinWorkers: true})
	require.NoError(t, err)
	defer p.Stop()

	fut, err := wp.Submit(p, func(context.Context) (int, error) {
		var mask unix.CPUSet
		if err := unix.SchedGetaffinity(0, &mask); err != nil {
			return 0, err
		}
		return mask.Count(), nil
	})
	require.NoError(t, err)

	n, err := fut.Get(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
