package core

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the reconciliation policy applied to each import row.
// It decides what happens when a row does or does not match a catalog entry.
type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeUpdate
	ModeUpsert
	ModeSkipDuplicates
)

// DefaultMode is used when a request does not name a mode.
const DefaultMode = ModeCreate

// ErrUnknownMode is returned by ParseMode for unrecognized values.
var ErrUnknownMode = errors.New("unknown import mode")

var modeNames = map[Mode]string{
	ModeCreate:         "create",
	ModeUpdate:         "update",
	ModeUpsert:         "upsert",
	ModeSkipDuplicates: "skip_duplicates",
}

// ParseMode parses a mode name. An empty string yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMode, nil
	}
	s = strings.ReplaceAll(s, "-", "_")
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ActionKind is the write a row resolves to.
type ActionKind int

const (
	ActionInsert ActionKind = iota + 1
	ActionUpdate
	ActionSkip
)

// Skip reasons reported in row results.
const (
	ReasonAlreadyExists = "already exists"
	ReasonDoesNotExist  = "does not exist"
	ReasonDuplicate     = "duplicate skipped"
)

// Action is the outcome of applying a Mode to a match result.
type Action struct {
	Kind   ActionKind
	Reason string // set for ActionSkip
}

// Decide is the single dispatch point for reconciliation modes.
// exists reports whether the row matched a catalog entry.
func (m Mode) Decide(exists bool) Action {
	switch m {
	case ModeCreate:
		if exists {
			return Action{Kind: ActionSkip, Reason: ReasonAlreadyExists}
		}
		return Action{Kind: ActionInsert}
	case ModeUpdate:
		if exists {
			return Action{Kind: ActionUpdate}
		}
		return Action{Kind: ActionSkip, Reason: ReasonDoesNotExist}
	case ModeUpsert:
		if exists {
			return Action{Kind: ActionUpdate}
		}
		return Action{Kind: ActionInsert}
	case ModeSkipDuplicates:
		if exists {
			return Action{Kind: ActionSkip, Reason: ReasonDuplicate}
		}
		return Action{Kind: ActionInsert}
	default:
		return Action{Kind: ActionSkip, Reason: ErrUnknownMode.Error()}
	}
}
