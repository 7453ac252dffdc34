package dto

import "time"

// ActivityMessage is the wire form of an activity event on the in-process bus.
type ActivityMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
