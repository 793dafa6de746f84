package ports

type EventBus interface {
	Publish(evt Event)
	// Subscribe renvoie les events acceptés par filter (nil = tous).
	Subscribe(filter func(Event) bool) (ch <-chan Event, cancel func())
}

// Event est diffusé sur le bus. SessionID est vide pour les events globaux.
type Event struct {
	Topic     string
	SessionID string
	Payload   []byte
}

const (
	TopicMounted   = "widget.mounted"
	TopicReady     = "widget.ready"
	TopicTick      = "widget.tick"
	TopicSelected  = "widget.selected"
	TopicUnmounted = "widget.unmounted"
	TopicSettings  = "settings.updated"
)

// ForSession filtre les events d'une session.
func ForSession(id string) func(Event) bool {
	return func(e Event) bool { return e.SessionID == id }
}
