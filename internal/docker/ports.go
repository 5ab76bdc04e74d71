package docker

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/shinji-kodama/gbdocs/internal/model"
)

// Published is one container port mapped onto the host.
type Published struct {
	Container string
	HostIP    string
	HostPort  int
}

// PublishedPorts lists the host ports published by running containers.
// Ports that are exposed but not published (HostPort 0) are left out.
func PublishedPorts(ctx context.Context, cli *Client) ([]Published, error) {
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(filters.Arg("status", "running")),
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to list Docker containers", err)
	}

	var out []Published
	for _, c := range containers {
		name := c.ID
		if len(c.Names) > 0 {
			name = trimSlash(c.Names[0])
		}
		for _, p := range c.Ports {
			if p.PublicPort == 0 {
				continue
			}
			out = append(out, Published{
				Container: name,
				HostIP:    p.IP,
				HostPort:  int(p.PublicPort),
			})
		}
	}
	return out, nil
}

// trimSlash drops the leading "/" Docker puts on container names.
func trimSlash(name string) string {
	if len(name) > 0 && name[0] == '/' {
		return name[1:]
	}
	return name
}

// Probe reports ports published by Docker containers as bound. It is a
// snapshot taken by NewProbe; containers started later are not seen.
type Probe struct {
	owners map[int]string
}

// NewProbe builds a Probe from published ports.
func NewProbe(published []Published) *Probe {
	p := &Probe{owners: make(map[int]string, len(published))}
	for _, pub := range published {
		if _, ok := p.owners[pub.HostPort]; !ok {
			p.owners[pub.HostPort] = pub.Container
		}
	}
	return p
}

// LoadProbe queries the daemon and returns a Probe for its published ports.
func LoadProbe(ctx context.Context, cli *Client) (*Probe, error) {
	published, err := PublishedPorts(ctx, cli)
	if err != nil {
		return nil, err
	}
	return NewProbe(published), nil
}

// IsBound reports whether a container publishes port.
func (p *Probe) IsBound(port int) bool {
	_, ok := p.owners[port]
	return ok
}

// Owner returns the name of the container publishing port.
func (p *Probe) Owner(port int) (string, bool) {
	name, ok := p.owners[port]
	return name, ok
}
