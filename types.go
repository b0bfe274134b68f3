package bcf

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Document is a BCF chart. It is produced by validation and treated as
// read-only afterwards.
type Document struct {
	// Version is the literal version string of the document (e.g. "1.0").
	Version      string        `json:"version"`
	Name         string        `json:"name,omitempty"`
	Description  string        `json:"description,omitempty"`
	Config       Config        `json:"config"`
	Timeline     Timeline      `json:"timeline"`
	Augmentation *Augmentation `json:"augmentation,omitempty"`
}

// Config holds timeline configuration parameters.
type Config struct {
	// TotalTicks defines the valid tick range [0, TotalTicks).
	TotalTicks int `json:"totalTicks"`
	// StartTick is the first display tick.
	StartTick *int `json:"startTick,omitempty"`
	// EndTick is the last display tick (inclusive).
	EndTick *int `json:"endTick,omitempty"`
	// RowOrder lists actor and custom row IDs in display order.
	RowOrder []string `json:"rowOrder,omitempty"`
	// Definitions pins the canonical definition sources.
	Definitions *Definitions `json:"definitions,omitempty"`
}

// Definitions holds URLs to canonical definition files used to resolve
// attack and spell identifiers.
type Definitions struct {
	Attacks    string `json:"attacks,omitempty"`
	Spells     string `json:"spells,omitempty"`
	NPCAttacks string `json:"npcAttacks,omitempty"`
}

// Timeline is the core timeline data.
type Timeline struct {
	Actors []Actor `json:"actors"`
	// Ticks is sparse: only ticks with data are present.
	Ticks []Tick `json:"ticks"`
	// Phases marks encounter-level phase transitions.
	Phases []Phase `json:"phases,omitempty"`
}

func (t *Timeline) UnmarshalJSON(b []byte) error {
	var raw struct {
		Actors []json.RawMessage `json:"actors"`
		Ticks  []Tick            `json:"ticks"`
		Phases []Phase           `json:"phases"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	actors := make([]Actor, 0, len(raw.Actors))
	for i, r := range raw.Actors {
		a, err := decodeActor(r)
		if err != nil {
			return fmt.Errorf("actor %d: %w", i, err)
		}
		actors = append(actors, a)
	}
	t.Actors = actors
	t.Ticks = raw.Ticks
	t.Phases = raw.Phases
	return nil
}

// Tick holds every cell recorded on one tick.
type Tick struct {
	Tick  int    `json:"tick"`
	Cells []Cell `json:"cells"`
}

// Cell is the data recorded for one actor on one tick.
type Cell struct {
	ActorID string   `json:"actorId"`
	Actions []Action `json:"actions,omitempty"`
	State   *State   `json:"state,omitempty"`
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var raw struct {
		ActorID string            `json:"actorId"`
		Actions []json.RawMessage `json:"actions"`
		State   *State            `json:"state"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.ActorID = raw.ActorID
	c.State = raw.State
	c.Actions = nil
	if raw.Actions != nil {
		c.Actions = make([]Action, 0, len(raw.Actions))
		for i, r := range raw.Actions {
			a, err := decodeAction(r)
			if err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
			c.Actions = append(c.Actions, a)
		}
	}
	return nil
}

// HasAction reports whether the cell contains an action of type t.
func (c *Cell) HasAction(t ActionType) bool {
	for _, a := range c.Actions {
		if a.Type() == t {
			return true
		}
	}
	return false
}

// State is the wire form of a cell's state. Which fields apply depends on
// the actor type: players use IsDead, SpecEnergy and OffCooldown; NPCs use
// Label. CustomStates applies to both.
type State struct {
	// IsDead persists across ticks.
	IsDead *bool `json:"isDead,omitempty"`
	// SpecEnergy (0-100) persists across ticks.
	SpecEnergy *int `json:"specEnergy,omitempty"`
	// OffCooldown does not persist.
	OffCooldown *bool `json:"offCooldown,omitempty"`
	// Label does not persist.
	Label *string `json:"label,omitempty"`
	// CustomStates do not persist.
	CustomStates []CustomState `json:"customStates,omitempty"`
}

// CustomState is a custom state annotation.
type CustomState struct {
	Label    string `json:"label"`
	FullText string `json:"fullText,omitempty"`
	IconURL  string `json:"iconUrl,omitempty"`
}

// Phase is an encounter-level phase transition.
type Phase struct {
	Tick      int    `json:"tick"`
	PhaseType string `json:"phaseType"`
}

// Augmentation holds optional display hints.
type Augmentation struct {
	Splits           []Split           `json:"splits,omitempty"`
	BackgroundColors []BackgroundColor `json:"backgroundColors,omitempty"`
	CustomRows       []CustomRow       `json:"customRows,omitempty"`
}

// Split is a named marker at a significant point in the timeline.
type Split struct {
	Tick        int    `json:"tick"`
	Name        string `json:"name"`
	IsImportant *bool  `json:"isImportant,omitempty"`
}

// Important reports whether the split should be emphasized. Defaults to true.
func (s Split) Important() bool {
	return s.IsImportant == nil || *s.IsImportant
}

// Intensity is the strength of a background color highlight.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// DefaultIntensity applies when a background color omits intensity.
const DefaultIntensity = IntensityMedium

// BackgroundColor highlights the half-open tick range [Tick, Tick+Length).
type BackgroundColor struct {
	Tick      int       `json:"tick"`
	Length    *int      `json:"length,omitempty"`
	Color     string    `json:"color"`
	Intensity Intensity `json:"intensity,omitempty"`
	// RowIDs restricts the color to the given actor/custom rows. Nil means
	// all rows.
	RowIDs []string `json:"rowIds,omitempty"`
}

// Len returns the range length, defaulting to 1.
func (b BackgroundColor) Len() int {
	if b.Length == nil {
		return 1
	}
	return *b.Length
}

// EffectiveIntensity returns the intensity, defaulting to DefaultIntensity.
func (b BackgroundColor) EffectiveIntensity() Intensity {
	if b.Intensity == "" {
		return DefaultIntensity
	}
	return b.Intensity
}

// CustomRow is an auxiliary per-tick display row.
type CustomRow struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Cells []CustomRowCell `json:"cells"`
}

// CustomRowCell is one cell of a custom row.
type CustomRowCell struct {
	Tick    int      `json:"tick"`
	IconURL string   `json:"iconUrl,omitempty"`
	Label   string   `json:"label,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}
