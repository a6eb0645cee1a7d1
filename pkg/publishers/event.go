package publishers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mcsrvstat/mcsrvstat-go/pkg/mcsrvstat"
)

// Message attribute keys set on every published event so subscribers can
// filter without decoding the body.
const (
	AttrTargetID = "target_id"
	AttrPlatform = "platform"
	AttrOnline   = "online"
)

// Event is the status report published for one target per poll pass.
type Event struct {
	TargetID  string                        `json:"target_id"`
	Address   string                        `json:"address"`
	Platform  string                        `json:"platform"`
	Online    bool                          `json:"online"`
	Players   *mcsrvstat.PlayerCount        `json:"players,omitempty"`
	Software  *mcsrvstat.ServerSoftwareInfo `json:"software,omitempty"`
	Motd      []string                      `json:"motd,omitempty"`
	Error     string                        `json:"error,omitempty"`
	CheckedAt time.Time                     `json:"checked_at"`
}

// NewEvent constructs an Event for the given target.
func NewEvent(targetID, address, platform string) Event {
	return Event{
		TargetID:  targetID,
		Address:   address,
		Platform:  platform,
		CheckedAt: time.Now().UTC(),
	}
}

// Attributes returns the routing attributes for the event. Empty values are
// omitted; online is always present as "true" or "false".
func (e Event) Attributes() map[string]string {
	attrs := map[string]string{AttrOnline: strconv.FormatBool(e.Online)}
	if e.TargetID != "" {
		attrs[AttrTargetID] = e.TargetID
	}
	if e.Platform != "" {
		attrs[AttrPlatform] = e.Platform
	}
	return attrs
}

func (e Event) payload() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.TargetID, err)
	}
	return data, nil
}
