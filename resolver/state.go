package resolver

import "github.com/blert-io/bcf"

// ResolvedState is the effective state of an actor at one tick: either a
// *PlayerState or an *NPCState.
type ResolvedState interface {
	ActorType() bcf.ActorType
	isResolvedState()
}

// PlayerState is the resolved state of a player.
type PlayerState struct {
	// IsDead persists from the tick it is set until overridden.
	IsDead bool
	// SpecEnergy persists from the tick it is set until overridden. Nil
	// until the first tick that sets it.
	SpecEnergy *int
	// OffCooldown applies to its own tick only.
	OffCooldown *bool
	// CustomStates apply to their own tick only.
	CustomStates []bcf.CustomState
}

// NPCState is the resolved state of an NPC. NPCs carry no persistent
// fields.
type NPCState struct {
	Label        *string
	CustomStates []bcf.CustomState
}

func (*PlayerState) ActorType() bcf.ActorType { return bcf.ActorTypePlayer }
func (*NPCState) ActorType() bcf.ActorType    { return bcf.ActorTypeNPC }

func (*PlayerState) isResolvedState() {}
func (*NPCState) isResolvedState()    {}

// persistent holds the fields carried from tick to tick during a forward
// walk. Only players have any. The zero value is the initial state: alive
// with no spec energy.
type persistent struct {
	isDead     bool
	specEnergy *int
}

func extract(s ResolvedState) persistent {
	if p, ok := s.(*PlayerState); ok {
		return persistent{isDead: p.IsDead, specEnergy: p.SpecEnergy}
	}
	return persistent{}
}

// fold applies the persistent effects of a cell. A death action marks the
// player dead; explicit state fields take precedence.
func fold(p persistent, t bcf.ActorType, cell *bcf.Cell) persistent {
	if t != bcf.ActorTypePlayer || cell == nil {
		return p
	}
	if cell.HasAction(bcf.ActionDeath) {
		p.isDead = true
	}
	if st := cell.State; st != nil {
		if st.IsDead != nil {
			p.isDead = *st.IsDead
		}
		if st.SpecEnergy != nil {
			v := *st.SpecEnergy
			p.specEnergy = &v
		}
	}
	return p
}

// build combines persistent fields with the transient fields of the cell on
// the same tick. cell may be nil.
func build(p persistent, t bcf.ActorType, cell *bcf.Cell) ResolvedState {
	var st *bcf.State
	if cell != nil {
		st = cell.State
	}
	if t == bcf.ActorTypeNPC {
		s := &NPCState{}
		if st != nil {
			s.Label = st.Label
			s.CustomStates = st.CustomStates
		}
		return s
	}
	s := &PlayerState{IsDead: p.isDead, SpecEnergy: p.specEnergy}
	if st != nil {
		s.OffCooldown = st.OffCooldown
		s.CustomStates = st.CustomStates
	}
	return s
}
