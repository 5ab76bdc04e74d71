package port

import (
	"fmt"
)

const (
	// MaxPort is the highest valid TCP/UDP port number (2^16 - 1).
	MaxPort = 65535

	// minPort is the lowest port number accepted as a scan bound.
	minPort = 0
)

// Probe answers whether a port currently has a listener bound to it on the
// local host. Implementations decide how to ask: a bind-and-release attempt,
// an external query tool, or the Docker daemon's published ports.
type Probe interface {
	IsBound(port int) bool
}

// ProbeFunc adapts an ordinary function to the Probe interface.
type ProbeFunc func(port int) bool

// IsBound calls f(port).
func (f ProbeFunc) IsBound(port int) bool {
	return f(port)
}

// InvalidRangeError is returned when the scan bounds are unusable, most
// commonly because the start port is above the upper bound. No port is
// probed when this error is returned.
type InvalidRangeError struct {
	Start int
	Max   int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid port range %d-%d (ports must satisfy %d <= start <= max <= %d)",
		e.Start, e.Max, minPort, MaxPort)
}

// NoAvailablePortError is returned when every port in [Start, End] was
// reported as bound. It is deterministic: scanning the same range again
// without releasing a port gives the same answer.
type NoAvailablePortError struct {
	Start int
	End   int
}

func (e *NoAvailablePortError) Error() string {
	return fmt.Sprintf("no available port found in range %d-%d", e.Start, e.End)
}

// Finder scans ports in ascending order using Probe.
//
// Max is the inclusive upper bound of the scan; zero means MaxPort.
// OnBusy, when set, is called for every port the probe reports as bound,
// before the next port is tried. The CLI uses it to tell the user which
// ports were skipped.
type Finder struct {
	Probe  Probe
	Max    int
	OnBusy func(port int)
}

// Find returns the first port in [start, f.Max] for which the probe reports
// no listener. The probe is called exactly once per scanned port, in
// strictly ascending order, and never for ports above the returned one.
func (f Finder) Find(start int) (int, error) {
	end := f.Max
	if end == 0 {
		end = MaxPort
	}
	return f.Scan(start, end)
}

// Scan is Find with an explicit inclusive upper bound, ignoring f.Max.
func (f Finder) Scan(start, end int) (int, error) {
	if start < minPort || end > MaxPort || start > end {
		return 0, &InvalidRangeError{Start: start, Max: end}
	}

	for port := start; port <= end; port++ {
		if !f.Probe.IsBound(port) {
			return port, nil
		}
		if f.OnBusy != nil {
			f.OnBusy(port)
		}
	}

	return 0, &NoAvailablePortError{Start: start, End: end}
}

// FindAvailablePort scans [start, maxPort] and returns the first port the
// probe reports as free.
//
// It fails with *InvalidRangeError when start > maxPort (or either bound lies
// outside 0-65535) and with *NoAvailablePortError when every port in the
// range is bound. There are no retries.
func FindAvailablePort(start int, probe Probe, maxPort int) (int, error) {
	return Finder{Probe: probe}.Scan(start, maxPort)
}
