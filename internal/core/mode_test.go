package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: ModeCreate},
		{input: "create", want: ModeCreate},
		{input: "UPDATE", want: ModeUpdate},
		{input: " upsert ", want: ModeUpsert},
		{input: "skip_duplicates", want: ModeSkipDuplicates},
		{input: "skip-duplicates", want: ModeSkipDuplicates},
		{input: "replace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Fatalf("ParseMode(%q) error = %v, want ErrUnknownMode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestModeDecide(t *testing.T) {
	tests := []struct {
		mode       Mode
		exists     bool
		wantKind   ActionKind
		wantReason string
	}{
		{ModeCreate, false, ActionInsert, ""},
		{ModeCreate, true, ActionSkip, ReasonAlreadyExists},
		{ModeUpdate, false, ActionSkip, ReasonDoesNotExist},
		{ModeUpdate, true, ActionUpdate, ""},
		{ModeUpsert, false, ActionInsert, ""},
		{ModeUpsert, true, ActionUpdate, ""},
		{ModeSkipDuplicates, false, ActionInsert, ""},
		{ModeSkipDuplicates, true, ActionSkip, ReasonDuplicate},
	}

	for _, tt := range tests {
		got := tt.mode.Decide(tt.exists)
		if got.Kind != tt.wantKind || got.Reason != tt.wantReason {
			t.Errorf("%v.Decide(%v) = %+v, want kind %v reason %q", tt.mode, tt.exists, got, tt.wantKind, tt.wantReason)
		}
	}
}

func TestModeDecideUnknownSkips(t *testing.T) {
	got := Mode(0).Decide(false)
	if got.Kind != ActionSkip {
		t.Errorf("unknown mode Decide = %+v, want skip", got)
	}
}

func TestModeJSON(t *testing.T) {
	var body struct {
		Mode Mode `json:"mode"`
	}
	if err := json.Unmarshal([]byte(`{"mode":"upsert"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Mode != ModeUpsert {
		t.Fatalf("mode = %v, want upsert", body.Mode)
	}

	out, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"mode":"upsert"}` {
		t.Errorf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"mode":"nope"}`), &body); err == nil {
		t.Error("expected error for unknown mode")
	}
}
