package mcsrvstat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is one decoded status document. Only the top level is decoded up
// front; each projection decodes the section it reads, so a malformed optional
// section only affects the projections that use it.
type Status struct {
	fields map[string]json.RawMessage
}

// textLines is a multi-line text value. The API sends arrays; a bare string is
// accepted as a single line.
type textLines []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *textLines) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = textLines{s}
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// ParseStatus decodes a status document. The body must be a JSON object;
// the contents of individual sections are checked lazily by the projections.
func ParseStatus(body []byte) (*Status, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: decode status document: %w", ErrLookupFailure, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: status document is null", ErrLookupFailure)
	}
	return &Status{fields: fields}, nil
}

// field decodes fields[key] into T. Missing keys, JSON null and values of the
// wrong shape all report false.
func field[T any](fields map[string]json.RawMessage, key string) (T, bool) {
	var v T
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

func (s *Status) section(key string) (map[string]json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	return field[map[string]json.RawMessage](s.fields, key)
}

// IsOnline returns the online flag; a document without a boolean online
// field is malformed.
func (s *Status) IsOnline() (bool, error) {
	if s == nil {
		return false, fmt.Errorf("%w: status document has no online field", ErrLookupFailure)
	}
	online, ok := field[bool](s.fields, "online")
	if !ok {
		return false, fmt.Errorf("%w: status document has no online field", ErrLookupFailure)
	}
	return online, nil
}

// MotdLines returns the requested MOTD rendering, or false when the document
// does not carry it. Other keys under motd are ignored.
func (s *Status) MotdLines(kind MotdKind) ([]string, bool) {
	motd, ok := s.section("motd")
	if !ok {
		return nil, false
	}
	lines, ok := field[textLines](motd, string(kind))
	if !ok || lines == nil {
		return nil, false
	}
	return []string(lines), true
}

// SoftwareInfo requires both version and software; partial data counts as none.
func (s *Status) SoftwareInfo() (ServerSoftwareInfo, bool) {
	if s == nil {
		return ServerSoftwareInfo{}, false
	}
	version, ok := field[string](s.fields, "version")
	if !ok {
		return ServerSoftwareInfo{}, false
	}
	software, ok := field[string](s.fields, "software")
	if !ok {
		return ServerSoftwareInfo{}, false
	}
	return ServerSoftwareInfo{Version: version, Software: software}, true
}

// DebugValue looks up a boolean debug flag by case-insensitive name. Unlike the
// other projections a missing key is an error, not an absent result.
func (s *Status) DebugValue(name string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	debug, ok := s.section("debug")
	if !ok {
		return false, fmt.Errorf("%w: status document has no debug section", ErrLookupFailure)
	}
	if _, ok := debug[key]; !ok {
		return false, fmt.Errorf("%w: invalid debug value %q", ErrLookupFailure, name)
	}
	v, ok := field[bool](debug, key)
	if !ok {
		return false, fmt.Errorf("%w: debug value %q is not a boolean", ErrLookupFailure, name)
	}
	return v, nil
}

// PlayerByName resolves an online player's id. Names are matched exactly.
func (s *Status) PlayerByName(name string) (Player, error) {
	ids, _ := s.playerIDs()
	id := ids[name]
	if name == "" || id == "" {
		return Player{}, fmt.Errorf("%w: player %q offline or nonexistent", ErrLookupFailure, name)
	}
	return Player{Name: name, ID: id}, nil
}

// PlayerCount returns online and max counts, or false if either is missing.
func (s *Status) PlayerCount() (PlayerCount, bool) {
	players, ok := s.section("players")
	if !ok {
		return PlayerCount{}, false
	}
	online, ok := field[int](players, "online")
	if !ok {
		return PlayerCount{}, false
	}
	limit, ok := field[int](players, "max")
	if !ok {
		return PlayerCount{}, false
	}
	return PlayerCount{Online: online, Max: limit}, true
}

// PlayerList returns players in server order. It reports false when the
// players section or its list is missing, or when a listed name has no id.
func (s *Status) PlayerList() ([]Player, bool) {
	players, ok := s.section("players")
	if !ok {
		return nil, false
	}
	names, ok := field[[]string](players, "list")
	if !ok {
		return nil, false
	}
	ids, _ := s.playerIDs()
	out := make([]Player, 0, len(names))
	for _, name := range names {
		id := ids[name]
		if name == "" || id == "" {
			return nil, false
		}
		out = append(out, Player{Name: name, ID: id})
	}
	return out, true
}

func (s *Status) playerIDs() (map[string]string, bool) {
	players, ok := s.section("players")
	if !ok {
		return nil, false
	}
	return field[map[string]string](players, "uuid")
}
