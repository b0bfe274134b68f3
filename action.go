package bcf

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ActionType tags the Action variants. Action identifiers such as attack
// types are opaque strings.
type ActionType string

const (
	ActionAttack    ActionType = "attack"
	ActionSpell     ActionType = "spell"
	ActionUtility   ActionType = "utility"
	ActionDeath     ActionType = "death"
	ActionNPCAttack ActionType = "npcAttack"
	ActionNPCPhase  ActionType = "npcPhase"
)

// Action is something an actor does on a tick. Known variants are
// *AttackAction, *SpellAction, *UtilityAction, *DeathAction (players) and
// *NPCAttackAction, *NPCPhaseAction (NPCs). Documents validated in lax mode
// may also contain *UnknownAction, which carries the raw fields of an action
// type this version does not recognize.
type Action interface {
	Type() ActionType
	isAction()
}

// AttackDisplay overrides how a player attack is drawn.
type AttackDisplay struct {
	IconURL string `json:"iconUrl,omitempty"`
	// Letter is short text for compact display (1-3 characters).
	Letter string `json:"letter,omitempty"`
	// Style is one of "melee", "ranged" or "magic".
	Style string `json:"style,omitempty"`
}

// SpellDisplay overrides how a spell or utility action is drawn.
type SpellDisplay struct {
	IconURL string `json:"iconUrl,omitempty"`
	Name    string `json:"name,omitempty"`
}

// NPCAttackDisplay overrides how an NPC attack is drawn.
type NPCAttackDisplay struct {
	IconURL     string `json:"iconUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// AttackAction is a player attack.
type AttackAction struct {
	// AttackType identifies the attack (e.g. "SCYTHE", "DAWN_SPEC").
	AttackType       string         `json:"attackType"`
	WeaponID         *int           `json:"weaponId,omitempty"`
	WeaponName       string         `json:"weaponName,omitempty"`
	TargetActorID    string         `json:"targetActorId,omitempty"`
	DistanceToTarget *int           `json:"distanceToTarget,omitempty"`
	// SpecCost is the special attack energy cost; only valid on "_SPEC"
	// attack types.
	SpecCost *int           `json:"specCost,omitempty"`
	Display  *AttackDisplay `json:"display,omitempty"`
}

// SpellAction is a player spell cast.
type SpellAction struct {
	SpellType     string        `json:"spellType"`
	TargetActorID string        `json:"targetActorId,omitempty"`
	Display       *SpellDisplay `json:"display,omitempty"`
}

// UtilityAction is a player utility action (potions, items, ...).
type UtilityAction struct {
	UtilityType   string        `json:"utilityType"`
	TargetActorID string        `json:"targetActorId,omitempty"`
	Display       *SpellDisplay `json:"display,omitempty"`
}

// DeathAction marks a player's death.
type DeathAction struct{}

// NPCAttackAction is an NPC attack.
type NPCAttackAction struct {
	AttackType    string            `json:"attackType"`
	TargetActorID string            `json:"targetActorId,omitempty"`
	Display       *NPCAttackDisplay `json:"display,omitempty"`
}

// NPCPhaseAction marks an NPC phase transition.
type NPCPhaseAction struct {
	PhaseType string `json:"phaseType"`
}

// UnknownAction is an action whose type is not known to this version.
type UnknownAction struct {
	Tag ActionType
	// Fields holds every property except "type".
	Fields map[string]any
}

func (*AttackAction) Type() ActionType    { return ActionAttack }
func (*SpellAction) Type() ActionType     { return ActionSpell }
func (*UtilityAction) Type() ActionType   { return ActionUtility }
func (*DeathAction) Type() ActionType     { return ActionDeath }
func (*NPCAttackAction) Type() ActionType { return ActionNPCAttack }
func (*NPCPhaseAction) Type() ActionType  { return ActionNPCPhase }
func (u *UnknownAction) Type() ActionType { return u.Tag }

func (*AttackAction) isAction()    {}
func (*SpellAction) isAction()     {}
func (*UtilityAction) isAction()   {}
func (*DeathAction) isAction()     {}
func (*NPCAttackAction) isAction() {}
func (*NPCPhaseAction) isAction()  {}
func (*UnknownAction) isAction()   {}

// TargetActorID returns the actor targeted by a, if any.
func TargetActorID(a Action) (string, bool) {
	var id string
	switch v := a.(type) {
	case *AttackAction:
		id = v.TargetActorID
	case *SpellAction:
		id = v.TargetActorID
	case *UtilityAction:
		id = v.TargetActorID
	case *NPCAttackAction:
		id = v.TargetActorID
	case *UnknownAction:
		id, _ = v.Fields["targetActorId"].(string)
	}
	return id, id != ""
}

func marshalTagged(t ActionType, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["type"] = t
	return json.Marshal(fields)
}

func (a *AttackAction) MarshalJSON() ([]byte, error) {
	type alias AttackAction
	return marshalTagged(ActionAttack, (*alias)(a))
}

func (a *SpellAction) MarshalJSON() ([]byte, error) {
	type alias SpellAction
	return marshalTagged(ActionSpell, (*alias)(a))
}

func (a *UtilityAction) MarshalJSON() ([]byte, error) {
	type alias UtilityAction
	return marshalTagged(ActionUtility, (*alias)(a))
}

func (a *DeathAction) MarshalJSON() ([]byte, error) {
	return marshalTagged(ActionDeath, struct{}{})
}

func (a *NPCAttackAction) MarshalJSON() ([]byte, error) {
	type alias NPCAttackAction
	return marshalTagged(ActionNPCAttack, (*alias)(a))
}

func (a *NPCPhaseAction) MarshalJSON() ([]byte, error) {
	type alias NPCPhaseAction
	return marshalTagged(ActionNPCPhase, (*alias)(a))
}

func (u *UnknownAction) MarshalJSON() ([]byte, error) {
	return marshalTagged(u.Tag, u.Fields)
}

func decodeAction(b []byte) (Action, error) {
	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, err
	}
	var a Action
	switch head.Type {
	case ActionAttack:
		a = &AttackAction{}
	case ActionSpell:
		a = &SpellAction{}
	case ActionUtility:
		a = &UtilityAction{}
	case ActionDeath:
		return &DeathAction{}, nil
	case ActionNPCAttack:
		a = &NPCAttackAction{}
	case ActionNPCPhase:
		a = &NPCPhaseAction{}
	case "":
		return nil, fmt.Errorf("action has no type")
	default:
		var fields map[string]any
		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, err
		}
		delete(fields, "type")
		return &UnknownAction{Tag: head.Type, Fields: fields}, nil
	}
	if err := json.Unmarshal(b, a); err != nil {
		return nil, err
	}
	return a, nil
}
