package websocket

import (
	"fmt"
)

// Event names exchanged with mode clients.
const (
	EventModeUpdate = "mode_update"
	EventChangeMode = "change_mode"
	// EventSetMode is the object-payload variant accepted for older clients.
	EventSetMode = "set_mode"
)

// ModeUpdate is the payload of a server→client mode_update event.
type ModeUpdate struct {
	Mode string `json:"mode"`
}

// requestedMode extracts the mode from a change request. The first argument
// is either a bare string or an object with a string "mode" field. A trailing
// ack callback is ignored.
func requestedMode(args []any) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("change request without payload")
	}

	switch v := args[0].(type) {
	case string:
		return v, nil
	case map[string]any:
		mode, ok := v["mode"].(string)
		if !ok {
			return "", fmt.Errorf("change request payload: mode is %T, want string", v["mode"])
		}
		return mode, nil
	default:
		return "", fmt.Errorf("change request payload: unexpected %T", args[0])
	}
}
