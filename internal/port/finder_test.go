package port

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProbe is a fake Probe that reports the ports in bound as taken
// and records every port it is asked about, in call order.
type recordingProbe struct {
	bound map[int]bool
	calls []int
}

func newRecordingProbe(bound ...int) *recordingProbe {
	p := &recordingProbe{bound: make(map[int]bool)}
	for _, b := range bound {
		p.bound[b] = true
	}
	return p
}

func (p *recordingProbe) IsBound(port int) bool {
	p.calls = append(p.calls, port)
	return p.bound[port]
}

// allBound reports every port as bound.
type allBound struct{ calls int }

func (p *allBound) IsBound(int) bool {
	p.calls++
	return true
}

func TestFindAvailablePort_StartFree(t *testing.T) {
	for _, start := range []int{0, 1, 3000, 3100, MaxPort} {
		probe := newRecordingProbe()

		got, err := FindAvailablePort(start, probe, MaxPort)
		require.NoError(t, err)

		assert.Equal(t, start, got)
		assert.Equal(t, []int{start}, probe.calls, "a free start port must be probed exactly once")
	}
}

// TestFindAvailablePort_SkipsBoundPorts covers the pandocs scenario: 3000
// and 3001 are taken, so the server lands on 3002 after three probes.
func TestFindAvailablePort_SkipsBoundPorts(t *testing.T) {
	probe := newRecordingProbe(3000, 3001)

	got, err := FindAvailablePort(3000, probe, MaxPort)
	require.NoError(t, err)

	assert.Equal(t, 3002, got)
	assert.Equal(t, []int{3000, 3001, 3002}, probe.calls)
}

func TestFindAvailablePort_AllBound(t *testing.T) {
	tests := []struct {
		name  string
		start int
		max   int
	}{
		{"single port", 4000, 4000},
		{"small range", 4000, 4009},
		{"top of port space", 65500, MaxPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &allBound{}

			_, err := FindAvailablePort(tt.start, probe, tt.max)
			require.Error(t, err)

			var noPort *NoAvailablePortError
			require.True(t, errors.As(err, &noPort), "expected NoAvailablePortError, got %T", err)
			assert.Equal(t, tt.start, noPort.Start)
			assert.Equal(t, tt.max, noPort.End)
			assert.Equal(t, tt.max-tt.start+1, probe.calls)
			assert.Contains(t, err.Error(), "no available port")
		})
	}
}

func TestFindAvailablePort_InvalidRange(t *testing.T) {
	tests := []struct {
		name  string
		start int
		max   int
	}{
		{"start above max", 3001, 3000},
		{"negative start", -1, 3000},
		{"max above port space", 3000, MaxPort + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := newRecordingProbe()

			_, err := FindAvailablePort(tt.start, probe, tt.max)

			var invalid *InvalidRangeError
			require.True(t, errors.As(err, &invalid), "expected InvalidRangeError, got %v", err)
			assert.Empty(t, probe.calls, "probe must not be called for an invalid range")
		})
	}
}

func TestFindAvailablePort_LastPortInRange(t *testing.T) {
	probe := newRecordingProbe(5000, 5001, 5002)

	got, err := FindAvailablePort(5000, probe, 5003)
	require.NoError(t, err)
	assert.Equal(t, 5003, got)
	assert.Len(t, probe.calls, 4)
}

func TestFinder_DefaultMax(t *testing.T) {
	probe := newRecordingProbe(MaxPort - 1)

	got, err := Finder{Probe: probe}.Find(MaxPort - 1)
	require.NoError(t, err)
	assert.Equal(t, MaxPort, got)

	_, err = Finder{Probe: &allBound{}}.Find(MaxPort)
	var noPort *NoAvailablePortError
	require.ErrorAs(t, err, &noPort)
	assert.Equal(t, MaxPort, noPort.End)
}

func TestFinder_OnBusy(t *testing.T) {
	var busy []int
	f := Finder{
		Probe:  newRecordingProbe(3100, 3101),
		OnBusy: func(p int) { busy = append(busy, p) },
	}

	got, err := f.Find(3100)
	require.NoError(t, err)
	assert.Equal(t, 3102, got)
	assert.Equal(t, []int{3100, 3101}, busy)
}

func TestProbeFunc(t *testing.T) {
	p := ProbeFunc(func(port int) bool { return port%2 == 0 })

	got, err := FindAvailablePort(10, p, 20)
	require.NoError(t, err)
	assert.Equal(t, 11, got)
}

// TestFinder_ScanIgnoresMax checks that Scan uses its own bound, so an
// explicit end of 0 scans only port 0.
func TestFinder_ScanIgnoresMax(t *testing.T) {
	probe := newRecordingProbe(0)
	f := Finder{Probe: probe, Max: 10}

	_, err := f.Scan(0, 0)
	var noPort *NoAvailablePortError
	require.ErrorAs(t, err, &noPort)
	assert.Equal(t, []int{0}, probe.calls)

	got, err := f.Scan(20, 30)
	require.NoError(t, err)
	assert.Equal(t, 20, got)
}
