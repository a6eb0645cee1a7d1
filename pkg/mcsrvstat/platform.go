package mcsrvstat

import (
	"fmt"
	"strings"
)

// Platform is the server edition; it selects the status endpoint.
type Platform string

const (
	PlatformJava    Platform = "java"
	PlatformBedrock Platform = "bedrock"
)

// ParsePlatform normalizes s and checks it against the supported editions.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: platform %q must be %q or %q", ErrInvalidArgument, s, PlatformJava, PlatformBedrock)
	}
	return p, nil
}

// Valid reports whether p is one of the supported editions.
func (p Platform) Valid() bool {
	return p == PlatformJava || p == PlatformBedrock
}

func (p Platform) String() string { return string(p) }

// MotdKind selects one rendering of the message of the day.
type MotdKind string

const (
	MotdRaw   MotdKind = "raw"
	MotdClean MotdKind = "clean"
	MotdHTML  MotdKind = "html"
)

// ParseMotdKind is case-insensitive: "RAW" and "raw" are the same kind.
func ParseMotdKind(s string) (MotdKind, error) {
	k := MotdKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case MotdRaw, MotdClean, MotdHTML:
		return k, nil
	default:
		return "", fmt.Errorf("%w: motd kind %q must be raw, clean or html", ErrInvalidArgument, s)
	}
}
