package bcf_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/blert-io/bcf"
)

const players = `{"type":"player","id":"p1","name":"Player 1"},{"type":"player","id":"p2","name":"Player 2"}`

// chart renders a document around the given fragments. augmentation may be
// empty.
func chart(config, actors, ticks, augmentation string) string {
	s := fmt.Sprintf(`{"version":"1.0","name":"Test chart","config":%s,"timeline":{"actors":[%s],"ticks":[%s]}`, config, actors, ticks)
	if augmentation != "" {
		s += `,"augmentation":` + augmentation
	}
	return s + "}"
}

const validChart = `{
  "version": "1.0",
  "name": "Verzik P2",
  "config": {"totalTicks": 10, "startTick": 1, "endTick": 8, "rowOrder": ["boss", "p1", "markers"]},
  "timeline": {
    "actors": [
      {"type": "player", "id": "p1", "name": "Player 1"},
      {"type": "npc", "id": "boss", "name": "Verzik", "npcId": 8372, "spawnTick": 0, "deathTick": 9}
    ],
    "ticks": [
      {"tick": 0, "cells": [{"actorId": "p1", "actions": [{"type": "attack", "attackType": "SCYTHE", "targetActorId": "boss", "weaponId": 22325}]}]},
      {"tick": 2, "cells": [
        {"actorId": "p1", "actions": [{"type": "attack", "attackType": "DAWN_SPEC", "specCost": 35, "targetActorId": "boss"}], "state": {"specEnergy": 65}},
        {"actorId": "boss", "actions": [{"type": "npcAttack", "attackType": "BOUNCE", "targetActorId": "p1"}, {"type": "npcPhase", "phaseType": "P2"}]}
      ]},
      {"tick": 4, "cells": [{"actorId": "p1", "actions": [{"type": "death"}]}]}
    ],
    "phases": [{"tick": 0, "phaseType": "START"}, {"tick": 2, "phaseType": "P2"}]
  },
  "augmentation": {
    "splits": [{"tick": 2, "name": "P2"}],
    "backgroundColors": [{"tick": 1, "length": 3, "color": "#ff0000", "intensity": "low", "rowIds": ["p1"]}],
    "customRows": [{"id": "markers", "name": "Markers", "cells": [{"tick": 3, "label": "X", "opacity": 0.5}]}]
  }
}`

func TestParseAndValidate_ValidDocument(t *testing.T) {
	for _, mode := range []bcf.Mode{bcf.ModeAuto, bcf.ModeStrict, bcf.ModeLax} {
		res := bcf.ParseAndValidate([]byte(validChart), bcf.ValidateOptions{Mode: mode})
		if !res.Valid {
			t.Fatalf("%s: expected valid, got %v", mode, res.Errors)
		}
		if res.Version != bcf.V1_0 {
			t.Fatalf("%s: version = %s", mode, res.Version)
		}
		doc := res.Document
		if len(doc.Timeline.Actors) != 2 {
			t.Fatalf("actors = %d", len(doc.Timeline.Actors))
		}
		if _, ok := doc.Timeline.Actors[1].(*bcf.NPC); !ok {
			t.Fatalf("expected *NPC, got %T", doc.Timeline.Actors[1])
		}
		atk, ok := doc.Timeline.Ticks[1].Cells[0].Actions[0].(*bcf.AttackAction)
		if !ok || atk.SpecCost == nil || *atk.SpecCost != 35 {
			t.Fatalf("unexpected attack: %+v", doc.Timeline.Ticks[1].Cells[0].Actions[0])
		}
		if res.Err() != nil {
			t.Fatalf("Err() should be nil for a valid result")
		}
	}
}

func TestParseAndValidate_InvalidJSON(t *testing.T) {
	res := bcf.ParseAndValidate([]byte(`{"version": "1.0",`))
	if res.Valid || len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %v", res.Errors)
	}
	e := res.Errors[0]
	if e.Path != "/" || e.Type != bcf.ErrorTypeSchema || !strings.HasPrefix(e.Message, "Invalid JSON: ") {
		t.Fatalf("unexpected error: %+v", e)
	}
}

func TestValidate_StrictVsLax(t *testing.T) {
	var data map[string]any
	if err := json.Unmarshal([]byte(validChart), &data); err != nil {
		t.Fatal(err)
	}
	data["extra"] = true

	if res := bcf.Validate(data); !res.Valid {
		t.Fatalf("lax auto-detected validation should accept extra fields: %v", res.Errors)
	}
	res := bcf.Validate(data, bcf.ValidateOptions{Mode: bcf.ModeStrict})
	if res.Valid {
		t.Fatalf("strict validation should reject extra fields")
	}
	e := res.Errors[0]
	if e.Path != "/extra" || !strings.Contains(e.Message, "additional properties") {
		t.Fatalf("unexpected error: %+v", e)
	}
	// Pinning a version is strict by default.
	if res := bcf.Validate(data, bcf.ValidateOptions{Version: bcf.V1_0}); res.Valid {
		t.Fatalf("pinned validation should be strict")
	}
	if res := bcf.Validate(data, bcf.ValidateOptions{Version: bcf.V1_0, Mode: bcf.ModeLax}); !res.Valid {
		t.Fatalf("pinned lax validation should accept extra fields: %v", res.Errors)
	}
}

func TestValidate_NestedUnknownProperty(t *testing.T) {
	doc := chart(`{"totalTicks":5}`, players, `{"tick":0,"cells":[{"actorId":"p1","state":{"isDead":false,"mood":"happy"}}]}`, "")
	res := bcf.ParseAndValidate([]byte(doc), bcf.ValidateOptions{Mode: bcf.ModeStrict})
	if res.Valid {
		t.Fatalf("expected strict failure")
	}
	if got := res.Errors[0].Path; got != "/timeline/ticks/0/cells/0/state/mood" {
		t.Fatalf("path = %s", got)
	}
	if res := bcf.ParseAndValidate([]byte(doc)); !res.Valid {
		t.Fatalf("lax should accept: %v", res.Errors)
	}
}

func TestValidate_Versions(t *testing.T) {
	body := func(version string) string {
		return strings.Replace(chart(`{"totalTicks":5}`, players, "", ""), `"version":"1.0"`, version, 1)
	}
	tests := []struct {
		name    string
		doc     string
		opts    bcf.ValidateOptions
		valid   bool
		message string
	}{
		{name: "exact", doc: body(`"version":"1.0"`), valid: true},
		{name: "missing", doc: body(`"v":"1.0"`), message: "Missing required field: version"},
		{name: "not a string", doc: body(`"version":1`), message: "Missing required field: version"},
		{name: "unknown major", doc: body(`"version":"2.0"`), message: `Unsupported BCF version: "2.0"`},
		{name: "malformed", doc: body(`"version":"one"`), message: "Unsupported BCF version"},
		{name: "newer minor lax", doc: body(`"version":"1.7"`), valid: true},
		{name: "newer minor strict", doc: body(`"version":"1.7"`), opts: bcf.ValidateOptions{Mode: bcf.ModeStrict}, message: "Unsupported BCF version"},
		{name: "pinned match", doc: body(`"version":"1.0"`), opts: bcf.ValidateOptions{Version: bcf.V1_0}, valid: true},
		{name: "pinned newer minor", doc: body(`"version":"1.7"`), opts: bcf.ValidateOptions{Version: bcf.V1_0}, message: `Document version "1.7" is not supported. Expected "1.0".`},
		{name: "pinned missing", doc: body(`"v":"1.0"`), opts: bcf.ValidateOptions{Version: bcf.V1_0}, message: `Document version "null" is not supported. Expected "1.0".`},
		{name: "pinned not a string", doc: body(`"version":1`), opts: bcf.ValidateOptions{Version: bcf.V1_0}, message: `Document version "null" is not supported. Expected "1.0".`},
		{name: "pinned unsupported", doc: body(`"version":"1.0"`), opts: bcf.ValidateOptions{Version: bcf.Version{Major: 3}}, message: "Unsupported BCF version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := bcf.ParseAndValidate([]byte(tt.doc), tt.opts)
			if res.Valid != tt.valid {
				t.Fatalf("valid = %v, errors = %v", res.Valid, res.Errors)
			}
			if tt.valid {
				if res.Version != bcf.V1_0 {
					t.Fatalf("version = %s", res.Version)
				}
				return
			}
			if len(res.Errors) != 1 {
				t.Fatalf("expected one error, got %v", res.Errors)
			}
			e := res.Errors[0]
			if e.Path != "/version" || e.Type != bcf.ErrorTypeSchema || !strings.Contains(e.Message, tt.message) {
				t.Fatalf("unexpected error: %+v", e)
			}
		})
	}
}

func TestValidate_UnknownActionType(t *testing.T) {
	doc := chart(`{"totalTicks":5}`, players,
		`{"tick":1,"cells":[{"actorId":"p1","actions":[{"type":"emote","emote":"wave","targetActorId":"p2"}]}]}`, "")

	res := bcf.ParseAndValidate([]byte(doc))
	if !res.Valid {
		t.Fatalf("lax should accept unknown action types: %v", res.Errors)
	}
	u, ok := res.Document.Timeline.Ticks[0].Cells[0].Actions[0].(*bcf.UnknownAction)
	if !ok || u.Tag != "emote" || u.Fields["emote"] != "wave" {
		t.Fatalf("unexpected action: %#v", res.Document.Timeline.Ticks[0].Cells[0].Actions[0])
	}
	if _, has := u.Fields["type"]; has {
		t.Fatalf("type should not be kept in Fields")
	}

	res = bcf.ParseAndValidate([]byte(doc), bcf.ValidateOptions{Mode: bcf.ModeStrict})
	if res.Valid {
		t.Fatalf("strict should reject unknown action types")
	}
	if got := res.Errors[0].Path; got != "/timeline/ticks/0/cells/0/actions/0/type" {
		t.Fatalf("path = %s", got)
	}
}

func TestValidate_UnknownActionTargetChecked(t *testing.T) {
	doc := chart(`{"totalTicks":5}`, players,
		`{"tick":1,"cells":[{"actorId":"p1","actions":[{"type":"emote","targetActorId":"ghost"}]}]}`, "")
	res := bcf.ParseAndValidate([]byte(doc))
	if res.Valid || res.Errors[0].Path != "/timeline/ticks/0/cells/0/actions/0/targetActorId" {
		t.Fatalf("unexpected result: %v", res.Errors)
	}
}

func TestValidate_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
		code string
	}{
		{
			name: "zero total ticks",
			doc:  chart(`{"totalTicks":0}`, players, "", ""),
			path: "/config/totalTicks",
			code: "too_small",
		},
		{
			name: "missing timeline ticks",
			doc:  `{"version":"1.0","config":{"totalTicks":5},"timeline":{"actors":[]}}`,
			path: "/timeline/ticks",
			code: "required",
		},
		{
			name: "unknown actor type",
			doc:  chart(`{"totalTicks":5}`, `{"type":"pet","id":"x","name":"X"}`, "", ""),
			path: "/timeline/actors/0/type",
			code: "discriminator_unknown",
		},
		{
			name: "npc without npcId",
			doc:  chart(`{"totalTicks":5}`, `{"type":"npc","id":"x","name":"X"}`, "", ""),
			path: "/timeline/actors/0/npcId",
			code: "required",
		},
		{
			name: "spec energy above 100",
			doc:  chart(`{"totalTicks":5}`, players, `{"tick":0,"cells":[{"actorId":"p1","state":{"specEnergy":101}}]}`, ""),
			path: "/timeline/ticks/0/cells/0/state/specEnergy",
			code: "too_big",
		},
		{
			name: "fractional tick",
			doc:  chart(`{"totalTicks":5}`, players, `{"tick":1.5,"cells":[]}`, ""),
			path: "/timeline/ticks/0/tick",
			code: "invalid_type",
		},
		{
			name: "bad color",
			doc:  chart(`{"totalTicks":5}`, players, "", `{"backgroundColors":[{"tick":0,"color":"red"}]}`),
			path: "/augmentation/backgroundColors/0/color",
			code: "pattern",
		},
		{
			name: "bad intensity",
			doc:  chart(`{"totalTicks":5}`, players, "", `{"backgroundColors":[{"tick":0,"color":"#ffffff","intensity":"max"}]}`),
			path: "/augmentation/backgroundColors/0/intensity",
			code: "invalid_enum",
		},
		{
			name: "attack without attackType",
			doc:  chart(`{"totalTicks":5}`, players, `{"tick":0,"cells":[{"actorId":"p1","actions":[{"type":"attack"}]}]}`, ""),
			path: "/timeline/ticks/0/cells/0/actions/0/attackType",
			code: "required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := bcf.ParseAndValidate([]byte(tt.doc))
			if res.Valid {
				t.Fatalf("expected failure")
			}
			for _, e := range res.Errors {
				if e.Type != bcf.ErrorTypeSchema {
					t.Fatalf("expected only schema errors, got %+v", e)
				}
			}
			e := res.Errors[0]
			if e.Path != tt.path || e.Code != tt.code {
				t.Fatalf("got %s %s (%s), want %s %s", e.Path, e.Code, e.Message, tt.path, tt.code)
			}
		})
	}
}

func TestValidate_SchemaFailureSkipsSemantics(t *testing.T) {
	// Duplicate actors would be a semantic error, but the bad tick type
	// stops validation first.
	doc := chart(`{"totalTicks":5}`, players+`,{"type":"player","id":"p1","name":"Again"}`, `{"tick":"zero","cells":[]}`, "")
	res := bcf.ParseAndValidate([]byte(doc))
	if res.Valid {
		t.Fatalf("expected failure")
	}
	if n := len(res.Errors.OfType(bcf.ErrorTypeSemantic)); n != 0 {
		t.Fatalf("semantic checks should not run, got %d semantic errors", n)
	}
}

func TestParseAndValidate_DuplicateKeys(t *testing.T) {
	doc := chart(`{"totalTicks":5,"totalTicks":6}`, players, "", "")
	if res := bcf.ParseAndValidate([]byte(doc)); !res.Valid {
		t.Fatalf("lax mode should tolerate duplicate keys: %v", res.Errors)
	}
	res := bcf.ParseAndValidate([]byte(doc), bcf.ValidateOptions{Mode: bcf.ModeStrict})
	if res.Valid || len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %v", res.Errors)
	}
	if e := res.Errors[0]; e.Path != "/config/totalTicks" || e.Code != "duplicate_key" {
		t.Fatalf("unexpected error: %+v", e)
	}
}

func TestParseAndValidateYAML(t *testing.T) {
	doc := `
version: "1.0"
name: YAML chart
config:
  totalTicks: 4
timeline:
  actors:
    - {type: player, id: p1, name: Player 1}
  ticks:
    - tick: 1
      cells:
        - actorId: p1
          actions:
            - type: spell
              spellType: VENGEANCE
          state:
            offCooldown: true
`
	res := bcf.ParseAndValidateYAML([]byte(doc), bcf.ValidateOptions{Version: bcf.V1_0})
	if !res.Valid {
		t.Fatalf("expected valid: %v", res.Errors)
	}
	if _, ok := res.Document.Timeline.Ticks[0].Cells[0].Actions[0].(*bcf.SpellAction); !ok {
		t.Fatalf("expected *SpellAction")
	}

	res = bcf.ParseAndValidateYAML([]byte("version: [1.0"))
	if res.Valid || len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0].Message, "Invalid YAML: ") {
		t.Fatalf("unexpected result: %v", res.Errors)
	}
}

func TestValidate_OversizedNumbers(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		path string
		code string
	}{
		{
			name: "tick beyond int range",
			doc:  chart(`{"totalTicks":10}`, players, `{"tick":1e20,"cells":[]}`, ""),
			path: "/timeline/ticks/0/tick",
			code: "too_big",
		},
		{
			name: "totalTicks beyond int range",
			doc:  chart(`{"totalTicks":99999999999}`, players, "", ""),
			path: "/config/totalTicks",
			code: "too_big",
		},
		{
			name: "npcId beyond int range",
			doc:  chart(`{"totalTicks":10}`, `{"type":"npc","id":"boss","name":"Boss","npcId":1e300}`, "", ""),
			path: "/timeline/actors/0/npcId",
			code: "too_big",
		},
		{
			name: "weaponId beyond int range",
			doc: chart(`{"totalTicks":10}`, players,
				`{"tick":1,"cells":[{"actorId":"p1","actions":[{"type":"attack","attackType":"SCYTHE","weaponId":4294967296}]}]}`, ""),
			path: "/timeline/ticks/0/cells/0/actions/0/weaponId",
			code: "too_big",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := bcf.ParseAndValidate([]byte(tc.doc))
			if res.Valid || len(res.Errors) != 1 {
				t.Fatalf("expected one error, got %v", res.Errors)
			}
			e := res.Errors[0]
			if e.Path != tc.path || e.Code != tc.code || e.Type != bcf.ErrorTypeSchema {
				t.Fatalf("got %+v, want %s at %s", e, tc.code, tc.path)
			}
		})
	}
}

func TestParseAndValidateYAML_NonFiniteNumber(t *testing.T) {
	doc := `
version: "1.0"
config:
  totalTicks: 4
timeline:
  actors:
    - {type: player, id: p1, name: Player 1}
  ticks: []
augmentation:
  customRows:
    - id: markers
      name: Markers
      cells:
        - {tick: 1, label: X, opacity: .nan}
`
	res := bcf.ParseAndValidateYAML([]byte(doc))
	if res.Valid || len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %v", res.Errors)
	}
	if e := res.Errors[0]; e.Path != "/augmentation/customRows/0/cells/0/opacity" || e.Code != "invalid_type" {
		t.Fatalf("unexpected error: %+v", e)
	}
}

func TestResult_Err(t *testing.T) {
	res := bcf.ParseAndValidate([]byte(`[]`))
	err := res.Err()
	if err == nil {
		t.Fatalf("expected error")
	}
	errs, ok := bcf.AsValidationErrors(fmt.Errorf("wrapped: %w", err))
	if !ok || len(errs) != len(res.Errors) {
		t.Fatalf("AsValidationErrors failed: %v", err)
	}
	var target bcf.ValidationErrors
	if !errors.As(err, &target) {
		t.Fatalf("errors.As failed")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := bcf.ValidationErrors{
		{Path: "/a", Message: "one"},
		{Path: "/b", Message: "two"},
		{Path: "/c", Message: "three"},
		{Path: "/d", Message: "four"},
	}
	want := "/a: one; /b: two; /c: three; ... (total 4)"
	if got := errs.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestToValue_RoundTrip(t *testing.T) {
	res := bcf.ParseAndValidate([]byte(validChart))
	if !res.Valid {
		t.Fatalf("expected valid: %v", res.Errors)
	}
	v, err := bcf.ToValue(res.Document)
	if err != nil {
		t.Fatal(err)
	}
	again := bcf.Validate(v, bcf.ValidateOptions{Version: bcf.V1_0})
	if !again.Valid {
		t.Fatalf("re-encoded document should validate strictly: %v", again.Errors)
	}
	if len(again.Document.Timeline.Ticks) != len(res.Document.Timeline.Ticks) {
		t.Fatalf("tick count changed")
	}
}
