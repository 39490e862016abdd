package shell

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

// Registry holds one Shell per browser session. Sessions idle for longer
// than the ttl are evicted and their audio stopped.
type Registry struct {
	cache *gocache.Cache
	svc   advisor.Service
	deps  Deps
}

func NewRegistry(ttl time.Duration, svc advisor.Service, deps Deps) *Registry {
	c := gocache.New(ttl, ttl/2)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*Shell); ok {
			s.Close()
		}
	})
	return &Registry{cache: c, svc: svc, deps: deps}
}

// Create registers a new session at the landing step.
func (r *Registry) Create() *Shell {
	s := New(uuid.New(), r.svc, r.deps)
	r.cache.SetDefault(s.ID().String(), s)
	return s
}

// Get returns the session and extends its idle deadline.
func (r *Registry) Get(id string) (*Shell, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	s := v.(*Shell)
	r.cache.SetDefault(id, s)
	return s, nil
}

func (r *Registry) Exists(id string) bool {
	_, ok := r.cache.Get(id)
	return ok
}

func (r *Registry) Delete(id string) {
	r.cache.Delete(id)
}

func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
