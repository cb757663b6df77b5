package bot

import "sync"

// guildTracker remembers which guilds were known since the last Ready, so a
// GuildCreate can be told apart from a guild coming back after an outage.
type guildTracker struct {
	mu      sync.Mutex
	readied bool
	known   map[string]struct{}
}

func newGuildTracker() *guildTracker {
	return &guildTracker{known: make(map[string]struct{})}
}

// reset replaces the known set with the guilds delivered in Ready.
func (t *guildTracker) reset(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readied = true
	t.known = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.known[id] = struct{}{}
	}
}

// observeCreate records id and reports whether it is new. It returns nil
// before the first Ready, when newness cannot be judged.
func (t *guildTracker) observeCreate(id string) *bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, seen := t.known[id]
	t.known[id] = struct{}{}
	if !t.readied {
		return nil
	}
	isNew := !seen
	return &isNew
}

func (t *guildTracker) forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.known, id)
}
