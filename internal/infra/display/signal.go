package display

import (
	"time"
)

const (
	// ChannelSuffix is appended to the store namespace to form the pub/sub
	// channel companion surfaces subscribe to.
	ChannelSuffix = "display"

	SignalTypeReload  = "reload"
	SignalTypeOverdue = "overdue"
)

// Signal is the message published to companion surfaces.
type Signal struct {
	Type     string     `json:"type"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

func Channel(namespace string) string {
	if namespace == "" {
		return ChannelSuffix
	}
	return namespace + ":" + ChannelSuffix
}
