package composer

import "time"

func SetRegistryClock(r *Registry, now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}
