package enrich

import "sync"

// claimRegistry tracks which enrichment keys have an external call in
// flight. A run claims the keys it will fetch; overlapping runs wait on
// the claim channels instead of issuing duplicate calls.
type claimRegistry struct {
	mu       sync.Mutex
	inflight map[string]chan struct{}
}

func newClaimRegistry() *claimRegistry {
	return &claimRegistry{inflight: make(map[string]chan struct{})}
}

// claim partitions keys into those now owned by this caller and the done
// channels of keys already claimed elsewhere.
func (r *claimRegistry) claim(keys []string) (owned []string, foreign []chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		if done, ok := r.inflight[key]; ok {
			foreign = append(foreign, done)
			continue
		}
		r.inflight[key] = make(chan struct{})
		owned = append(owned, key)
	}
	return owned, foreign
}

// release drops the claims and wakes every waiter, whether or not the
// fetch succeeded; waiters re-check the cache afterward.
func (r *claimRegistry) release(owned []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range owned {
		if done, ok := r.inflight[key]; ok {
			close(done)
			delete(r.inflight, key)
		}
	}
}
