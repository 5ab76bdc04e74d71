// Package docker provides a small wrapper around the Docker Engine SDK
// client for finding ports that running containers publish on the host.
//
// The port finder consults it so a documentation server is never started
// on a port Docker has already claimed, even when the container's proxy
// has not bound the port yet. Socket detection and connectivity checks
// live here; the port query lives in ports.go.
package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/shinji-kodama/gbdocs/internal/model"
)

// defaultPingTimeout bounds how long Ping waits for the daemon. Docker
// Desktop on macOS can take a few seconds to answer, while a healthy
// Linux daemon replies almost immediately.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client. It detects the daemon socket
// on Linux, macOS and Windows and verifies that the daemon answers before
// the port query runs.
//
// Usage:
//
//	c, err := docker.NewClient()
//	if err != nil { /* handle */ }
//	defer c.Close()
//	if err := c.Ping(ctx); err != nil { /* Docker not running */ }
type Client struct {
	// inner is the underlying Docker SDK client. It is wrapped rather than
	// embedded so the package exposes only what the port query needs.
	inner *client.Client
}

// NewClient creates a Docker client with automatic socket detection.
//
// The detection strategy follows this priority order:
//  1. DOCKER_HOST environment variable (if set, used as-is)
//  2. Platform-specific default socket paths:
//     - Linux: /var/run/docker.sock
//     - macOS: /var/run/docker.sock, then ~/.docker/run/docker.sock
//     - Windows: npipe:////./pipe/docker_engine
//
// Returns a model.CLIError with ExitToolMissing if no Docker socket is
// found or the client cannot be created.
func NewClient() (*Client, error) {
	// An explicit DOCKER_HOST wins unconditionally; the SDK parses it.
	if dockerHost := os.Getenv("DOCKER_HOST"); dockerHost != "" {
		return newClientWithHost(dockerHost)
	}

	// Otherwise look for the platform's default socket.
	host, err := detectDockerHost(runtime.GOOS, dockerSocketPaths(runtime.GOOS))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitToolMissing, "Docker socket not found", err)
	}

	return newClientWithHost(host)
}

// newClientWithHost creates a client for a Docker connection string such
// as "unix:///var/run/docker.sock" or "npipe:////./pipe/docker_engine".
func newClientWithHost(host string) (*Client, error) {
	// API version negotiation keeps the client working against older and
	// newer daemons without pinning a version.
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitToolMissing,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}

	return &Client{inner: c}, nil
}

// dockerSocketPaths lists the Unix socket locations to try on goos, most
// preferred first.
func dockerSocketPaths(goos string) []string {
	paths := []string{"/var/run/docker.sock"}
	if goos == "darwin" {
		// Newer Docker Desktop versions may not create the /var/run symlink.
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, home+"/.docker/run/docker.sock")
		}
	}
	return paths
}

// detectDockerHost returns the Docker host URI for goos, trying
// socketPaths in order on Unix platforms.
//
// Design note: only socket existence is checked here. A stat needs no
// running daemon and returns at once; Ping verifies connectivity
// separately so the two failures produce different messages.
func detectDockerHost(goos string, socketPaths []string) (string, error) {
	switch goos {
	case "linux", "darwin":
		return detectUnixSocket(socketPaths)

	case "windows":
		// os.Stat does not work on named pipes, so dial briefly instead.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err == nil {
			// The pipe answered; the dial was only a presence check.
			conn.Close()
			return "npipe://" + pipePath, nil
		}
		return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)

	default:
		return "", fmt.Errorf("unsupported platform: %s", goos)
	}
}

// detectUnixSocket returns the host URI for the first path that exists.
// Callers list paths from most to least preferred.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		// A present socket file does not prove the daemon is listening.
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of: %v (is Docker running?)", paths)
}

// Ping verifies that the Docker daemon is reachable, waiting up to
// defaultPingTimeout.
//
// Returns a model.CLIError with ExitToolMissing if the daemon does not
// respond. The launcher then falls back to bind checks alone.
func (c *Client) Ping(ctx context.Context) error {
	// A paused Docker Desktop accepts the connection but never answers,
	// so the request needs its own deadline.
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitToolMissing,
			"Docker daemon is not responding (is Docker running?)",
			err,
		)
	}
	return nil
}

// Close releases the client's resources. Call it via defer right after
// NewClient. It is safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the underlying Docker SDK client for API calls the wrapper
// does not expose, such as the ContainerList in PublishedPorts.
func (c *Client) Inner() *client.Client {
	return c.inner
}
