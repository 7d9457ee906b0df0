package connection

// State is the externally observable connection state. There is no terminal
// state: teardown silently stops all activity.
type State int32

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
)

// String returns the state name for logs and status displays.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
