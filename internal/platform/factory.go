package platform

import (
	"github.com/aretw0/quire/pkg/core"
)

// New initializes the repository and wires the domain service on top of it.
//
//	svc, err := quire.New("./notes", quire.WithVersioning(false))
//
// The URI argument is adapter-specific (see Init).
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	serviceOpts := []core.ServiceOption{core.WithServiceLogger(o.logger)}
	if o.clock != nil {
		serviceOpts = append(serviceOpts, core.WithClock(o.clock))
	}
	if size, ok := o.config["event_buffer"].(int); ok {
		serviceOpts = append(serviceOpts, core.WithEventBufferSize(size))
	}
	return core.NewService(repo, serviceOpts...), nil
}
