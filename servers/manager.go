package servers

import (
	"context"

	"adachi/interfaces"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Manager holds and manages all the servers.
type Manager struct {
	servers []Server
	log     interfaces.Logger
}

// NewManager creates a new server manager.
func NewManager(log interfaces.Logger) *Manager {
	return &Manager{log: log}
}

// AddServer adds a new server to the manager.
func (m *Manager) AddServer(server Server) {
	m.servers = append(m.servers, server)
}

// Run starts every server and blocks until all of them return. The first
// failure cancels the others.
func (m *Manager) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range m.servers {
		g.Go(func() error {
			m.log.Info("Starting server", "name", s.Name())
			if err := s.Start(ctx); err != nil {
				return errors.Wrapf(err, "server %s", s.Name())
			}
			m.log.Info("Server stopped", "name", s.Name())
			return nil
		})
	}
	return g.Wait()
}
