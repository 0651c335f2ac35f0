package eventdetails

// Store holds the event details state of every event the console has
// opened. Dispatch applies a transition and returns the resulting state.
type Store interface {
	Dispatch(eventID string, t Transition) State
	Snapshot(eventID string) State
}
