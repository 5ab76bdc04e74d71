// Package port finds a free host port for the local documentation servers.
//
// The search is a linear scan: starting from a preferred port, each port is
// handed to a Probe and the first one the probe does not report as bound is
// returned. The probe is injected so the scan itself never touches the
// network stack and can be tested with a fake:
//
//	p, err := port.FindAvailablePort(3000, port.ListenProbe{}, port.MaxPort)
//
// A returned port is a hint, not a reservation. Another process may bind it
// between the scan and the moment the server starts listening, and callers
// treat that late failure as an ordinary I/O error.
package port
