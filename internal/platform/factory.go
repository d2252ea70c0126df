package platform

import (
	"github.com/aretw0/notehub/pkg/app"
	"github.com/aretw0/notehub/pkg/core"
)

// Client bundles every wired component of a NoteHub client.
type Client struct {
	Config     Config
	Repository core.Repository
	Service    *core.Service
	Controller *app.Controller
}

// Open resolves the configuration and wires repository, service and
// controller. The controller is not started.
func Open(opts ...Option) (*Client, error) {
	o := apply(opts)

	repo, cfg, err := initRepository(o)
	if err != nil {
		return nil, err
	}

	service := newService(repo, o)
	controller := app.New(service,
		app.WithPageSize(cfg.PageSize),
		app.WithDebounce(cfg.Debounce),
		app.WithStaleTime(cfg.StaleTime),
		app.WithLogger(o.logger.With("component", "controller")),
	)

	return &Client{
		Config:     cfg,
		Repository: repo,
		Service:    service,
		Controller: controller,
	}, nil
}

// New returns a configured, unstarted controller.
//
//	ctrl, err := notehub.New(notehub.WithPageSize(6))
func New(opts ...Option) (*app.Controller, error) {
	client, err := Open(opts...)
	if err != nil {
		return nil, err
	}
	return client.Controller, nil
}

// NewService returns the domain service without the view layer.
func NewService(opts ...Option) (*core.Service, error) {
	o := apply(opts)
	repo, _, err := initRepository(o)
	if err != nil {
		return nil, err
	}
	return newService(repo, o), nil
}

func newService(repo core.Repository, o *options) *core.Service {
	sopts := []core.ServiceOption{core.WithServiceLogger(o.logger)}
	if o.eventBuffer > 0 {
		sopts = append(sopts, core.WithEventBuffer(o.eventBuffer))
	}
	return core.NewService(repo, sopts...)
}
