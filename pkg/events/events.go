package events

import (
	"github.com/fystack/appstate/pkg/common/enum"
)

// StoreEvent describes something that happened to committed store state.
type StoreEvent struct {
	Type      enum.StoreEventType `json:"type"`
	Backend   string              `json:"backend"`
	Written   []string            `json:"written"`
	Failed    map[string]string   `json:"failed,omitempty"`
	Timestamp int64               `json:"timestamp"`
}
