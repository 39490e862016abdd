package speech

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/muhammadolammi/careeradvisor/internal/advisor"
)

// PhraseCache holds synthesized audio for the fixed encouragement phrases.
// It is shared by every session.
type PhraseCache struct {
	cache *cache.Cache
}

// NewPhraseCache creates a cache whose entries expire after ttl. A zero ttl
// keeps entries until the process exits.
func NewPhraseCache(ttl time.Duration) *PhraseCache {
	if ttl <= 0 {
		return &PhraseCache{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &PhraseCache{cache: cache.New(ttl, ttl/2)}
}

func (p *PhraseCache) Get(text string) (*advisor.Audio, bool) {
	if x, found := p.cache.Get(text); found {
		return x.(*advisor.Audio), true
	}
	return nil, false
}

func (p *PhraseCache) Set(text string, audio *advisor.Audio) {
	p.cache.Set(text, audio, cache.DefaultExpiration)
}

func (p *PhraseCache) Len() int {
	return p.cache.ItemCount()
}
