package db

// State is the connection lifecycle state of a Manager.
// Transitions: Disconnected -> Connecting -> Connected | Failed;
// Connected -> Disconnected; Failed -> Connecting (retry).
type State int

const (
	// StateDisconnected indicates no connection exists and none is being made.
	StateDisconnected State = iota
	// StateConnecting indicates a connection attempt is in flight.
	StateConnecting
	// StateConnected indicates a live connection is held.
	StateConnected
	// StateFailed indicates the last connection attempt failed or timed out.
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
