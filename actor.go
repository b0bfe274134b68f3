package bcf

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ActorType tags the Actor variants.
type ActorType string

const (
	ActorTypePlayer ActorType = "player"
	ActorTypeNPC    ActorType = "npc"
)

// Actor is a timeline participant: either a *Player or an *NPC. The set of
// variants is closed; switch on the concrete type to handle each.
type Actor interface {
	ActorID() string
	ActorName() string
	Type() ActorType
	isActor()
}

// Player is a player actor.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NPC is a non-player actor.
type NPC struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// NPCID is the game NPC ID at spawn.
	NPCID int `json:"npcId"`
	// SpawnTick is the first tick the NPC exists. Nil means 0.
	SpawnTick *int `json:"spawnTick,omitempty"`
	// DeathTick is the last tick the NPC exists. Nil means it never dies.
	DeathTick *int `json:"deathTick,omitempty"`
}

func (p *Player) ActorID() string   { return p.ID }
func (p *Player) ActorName() string { return p.Name }
func (p *Player) Type() ActorType   { return ActorTypePlayer }
func (*Player) isActor()            {}

func (n *NPC) ActorID() string   { return n.ID }
func (n *NPC) ActorName() string { return n.Name }
func (n *NPC) Type() ActorType   { return ActorTypeNPC }
func (*NPC) isActor()            {}

// Spawn returns the spawn tick, defaulting to 0.
func (n *NPC) Spawn() int {
	if n.SpawnTick == nil {
		return 0
	}
	return *n.SpawnTick
}

func (p *Player) MarshalJSON() ([]byte, error) {
	type alias Player
	return json.Marshal(struct {
		Type ActorType `json:"type"`
		*alias
	}{ActorTypePlayer, (*alias)(p)})
}

func (n *NPC) MarshalJSON() ([]byte, error) {
	type alias NPC
	return json.Marshal(struct {
		Type ActorType `json:"type"`
		*alias
	}{ActorTypeNPC, (*alias)(n)})
}

func decodeActor(b []byte) (Actor, error) {
	var head struct {
		Type ActorType `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case ActorTypePlayer:
		var p Player
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case ActorTypeNPC:
		var n NPC
		if err := json.Unmarshal(b, &n); err != nil {
			return nil, err
		}
		return &n, nil
	}
	return nil, fmt.Errorf("unknown actor type %q", head.Type)
}
