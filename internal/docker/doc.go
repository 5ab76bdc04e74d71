// Package docker asks the Docker daemon which host ports its containers
// have published.
//
// A container that publishes a port holds it through docker-proxy or a VM
// port forwarder, which a local bind attempt does not always notice (for
// example with Docker Desktop on macOS). Probe closes that gap so the free
// port scan skips ports Docker already owns.
//
// The client uses github.com/docker/docker/client with automatic socket
// detection and API version negotiation.
package docker
