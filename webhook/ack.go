package webhook

import "time"

// Ack is the acknowledgment body a webhook endpoint returns to the gateway.
// It is deliberately separate from whether internal processing fully
// succeeded: endpoints normally answer 200 with an Ack even when a callback
// was rejected, so the gateway does not retry-storm.
type Ack struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewAck builds an acknowledgment with the current UTC time in ISO-8601
// format. An empty message defaults to "OK".
func NewAck(success bool, message string) Ack {
	if message == "" {
		message = "OK"
	}
	return Ack{
		Success:   success,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
