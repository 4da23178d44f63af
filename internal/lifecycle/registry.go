// Package lifecycle consumes the host's record-created events and applies
// the pending extra-field stash to the new user record. Hosts fire this
// event under several historical names; the registry folds them into one
// internal event, and the stash's at-most-once fetch makes duplicate firing
// harmless.
package lifecycle

// Event is an internal lifecycle event.
type Event string

// EventRecordCreated fires when the host has created the user record a
// registration submission was stashed for.
const EventRecordCreated Event = "record_created"

// defaultAliases maps the external hook names seen across host forks onto
// the internal event.
var defaultAliases = map[string]Event{
	"user_register_completed": EventRecordCreated,
	"register_completed":      EventRecordCreated,
	"after_user_register":     EventRecordCreated,
}

// Registry resolves external trigger names to internal events.
type Registry struct {
	aliases map[string]Event
}

// NewRegistry builds a registry preloaded with the known hook aliases.
func NewRegistry() *Registry {
	aliases := make(map[string]Event, len(defaultAliases))
	for name, event := range defaultAliases {
		aliases[name] = event
	}
	return &Registry{aliases: aliases}
}

// Register adds another external name for an event.
func (r *Registry) Register(name string, event Event) {
	r.aliases[name] = event
}

// Resolve maps an external hook name to its internal event.
func (r *Registry) Resolve(name string) (Event, bool) {
	event, ok := r.aliases[name]
	return event, ok
}
