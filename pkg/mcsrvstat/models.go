package mcsrvstat

import (
	"fmt"

	"github.com/google/uuid"
)

// Player is an online player as reported by the status document.
type Player struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// UUID parses the opaque player id. Bedrock servers may report ids that are not UUIDs.
func (p Player) UUID() (uuid.UUID, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse player %q id: %w", p.Name, err)
	}
	return id, nil
}

func (p Player) String() string {
	return fmt.Sprintf("Name: %s; UUID: %s", p.Name, p.ID)
}

// ServerSoftwareInfo describes the backend implementation the server reports.
type ServerSoftwareInfo struct {
	Version  string `json:"version"`
	Software string `json:"software"`
}

func (s ServerSoftwareInfo) String() string {
	return fmt.Sprintf("Version: %s; Software: %s", s.Version, s.Software)
}

// PlayerCount holds the online and maximum player numbers.
type PlayerCount struct {
	Online int `json:"online"`
	Max    int `json:"max"`
}

func (c PlayerCount) String() string {
	return fmt.Sprintf("Online: %d; Max: %d", c.Online, c.Max)
}

// Icon is the server icon exactly as served by the API (normally a 64x64 PNG).
type Icon struct {
	Data        []byte
	ContentType string
}
