package port

import (
	"fmt"
	"net"
)

// ListenProbe reports a port as bound when the operating system refuses to
// let us bind it ourselves.
//
// This asks the network stack directly instead of parsing /proc/net/* or
// relying on external commands like lsof, which may be missing or need
// elevated permissions. The listener is closed immediately after a
// successful bind.
//
// Network is "tcp" (the default when empty) or "udp". Host is the address to
// bind; empty means all interfaces, which is where mdbook's --port listener
// ends up competing with other servers.
type ListenProbe struct {
	Network string
	Host    string
}

// IsBound attempts to bind the port and reports whether the attempt failed.
// Unknown networks are treated as bound so the scan never returns a port it
// could not actually check.
func (p ListenProbe) IsBound(port int) bool {
	addr := net.JoinHostPort(p.Host, fmt.Sprint(port))

	switch p.Network {
	case "", "tcp":
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return true
		}
		_ = listener.Close()
		return false

	case "udp":
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return true
		}
		_ = conn.Close()
		return false

	default:
		return true
	}
}

// QuietRunner runs an external command with its output discarded and
// reports failure (including a non-zero exit status) as an error.
// execx.ShellRunner satisfies it.
type QuietRunner interface {
	Quiet(name string, args ...string) error
}

// LsofProbe reports a port as bound when `lsof -i :<port>` exits
// successfully, i.e. lsof found at least one open socket on that port.
// If lsof cannot be run at all the port is reported free.
type LsofProbe struct {
	Runner QuietRunner
}

// IsBound runs lsof for the port.
func (p LsofProbe) IsBound(port int) bool {
	return p.Runner.Quiet("lsof", "-i", fmt.Sprintf(":%d", port)) == nil
}

// AnyProbe combines probes: a port is bound if any of them says so. Probes
// are consulted in order and the first positive answer wins.
func AnyProbe(probes ...Probe) Probe {
	return ProbeFunc(func(port int) bool {
		for _, p := range probes {
			if p.IsBound(port) {
				return true
			}
		}
		return false
	})
}
