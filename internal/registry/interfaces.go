package registry

import "github.com/MKhiriev/autoenv/internal/envconfig"

//go:generate mockgen -source=interfaces.go -destination=../mock/registry_mock.go -package=mock

// Discoverer is a Source that can also list its envs and peek into them.
type Discoverer interface {
	envconfig.Source
	// IDs lists the available env ids.
	IDs() ([]string, error)
	// Lookup reads one dotted key of the raw env id.
	Lookup(id, key string) (any, bool, error)
}
