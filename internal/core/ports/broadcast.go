package ports

// Broadcast event names carried to connected clients.
const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
)

// Event is a push notification fanned out to all connected sessions.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// Broadcaster fans an event out to every currently connected session.
// Delivery is best-effort and must never fail the triggering request.
type Broadcaster interface {
	Publish(evt Event)
}
