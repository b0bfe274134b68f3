// Package resolver indexes a validated BCF document and answers point and
// range queries over it, including the effective state of an actor at any
// tick.
//
// A Resolver memoizes resolved states and is not safe for concurrent use.
// The document it wraps is never modified, so callers needing concurrency
// can build one Resolver per goroutine over a shared document.
package resolver

import (
	"iter"
	"sort"

	"github.com/blert-io/bcf"
)

type cellKey struct {
	actorID string
	tick    int
}

type rowCellKey struct {
	rowID string
	tick  int
}

// NPCPhase is a phase transition announced by an NPC's npcPhase action.
type NPCPhase struct {
	Tick      int
	PhaseType string
}

// Resolver answers queries over one document. Queries never fail: missing
// actors, rows and ticks produce absent results.
type Resolver struct {
	doc *bcf.Document

	actors         map[string]bcf.Actor
	ticks          map[int]*bcf.Tick
	sortedTicks    []int
	cells          map[cellKey]*bcf.Cell
	customRows     map[string]*bcf.CustomRow
	customRowCells map[rowCellKey]*bcf.CustomRowCell
	splits         map[int]*bcf.Split
	npcPhases      map[string][]NPCPhase
	backgrounds    []backgroundEntry

	states map[cellKey]ResolvedState
}

// New indexes doc. doc must have passed validation; New does not check it
// again.
func New(doc *bcf.Document) *Resolver {
	r := &Resolver{
		doc:            doc,
		actors:         make(map[string]bcf.Actor, len(doc.Timeline.Actors)),
		ticks:          make(map[int]*bcf.Tick, len(doc.Timeline.Ticks)),
		sortedTicks:    make([]int, 0, len(doc.Timeline.Ticks)),
		cells:          map[cellKey]*bcf.Cell{},
		customRows:     map[string]*bcf.CustomRow{},
		customRowCells: map[rowCellKey]*bcf.CustomRowCell{},
		splits:         map[int]*bcf.Split{},
		npcPhases:      map[string][]NPCPhase{},
		states:         map[cellKey]ResolvedState{},
	}

	for _, a := range doc.Timeline.Actors {
		r.actors[a.ActorID()] = a
	}

	for i := range doc.Timeline.Ticks {
		t := &doc.Timeline.Ticks[i]
		r.ticks[t.Tick] = t
		r.sortedTicks = append(r.sortedTicks, t.Tick)
		for j := range t.Cells {
			c := &t.Cells[j]
			r.cells[cellKey{c.ActorID, t.Tick}] = c
			for _, a := range c.Actions {
				if p, ok := a.(*bcf.NPCPhaseAction); ok {
					r.npcPhases[c.ActorID] = append(r.npcPhases[c.ActorID], NPCPhase{Tick: t.Tick, PhaseType: p.PhaseType})
				}
			}
		}
	}
	sort.Ints(r.sortedTicks)
	for id := range r.npcPhases {
		phases := r.npcPhases[id]
		sort.SliceStable(phases, func(i, j int) bool { return phases[i].Tick < phases[j].Tick })
	}

	if aug := doc.Augmentation; aug != nil {
		for i := range aug.CustomRows {
			row := &aug.CustomRows[i]
			r.customRows[row.ID] = row
			for j := range row.Cells {
				c := &row.Cells[j]
				r.customRowCells[rowCellKey{row.ID, c.Tick}] = c
			}
		}
		for i := range aug.Splits {
			// Later splits on the same tick replace earlier ones.
			r.splits[aug.Splits[i].Tick] = &aug.Splits[i]
		}
		r.backgrounds = make([]backgroundEntry, 0, len(aug.BackgroundColors))
		for _, c := range aug.BackgroundColors {
			r.backgrounds = append(r.backgrounds, newBackgroundEntry(c))
		}
	}
	return r
}

func (r *Resolver) Name() string        { return r.doc.Name }
func (r *Resolver) Description() string { return r.doc.Description }

// Version returns the document's literal version string.
func (r *Resolver) Version() string { return r.doc.Version }

func (r *Resolver) TotalTicks() int { return r.doc.Config.TotalTicks }

// MaxTick is the last valid tick, TotalTicks()-1.
func (r *Resolver) MaxTick() int { return r.doc.Config.TotalTicks - 1 }

// StartTick is the first display tick, defaulting to 0.
func (r *Resolver) StartTick() int {
	if r.doc.Config.StartTick == nil {
		return 0
	}
	return *r.doc.Config.StartTick
}

// EndTick is the last display tick, defaulting to MaxTick.
func (r *Resolver) EndTick() int {
	if r.doc.Config.EndTick == nil {
		return r.MaxTick()
	}
	return *r.doc.Config.EndTick
}

// DisplayTicks is the number of ticks in the display range.
func (r *Resolver) DisplayTicks() int { return r.EndTick() - r.StartTick() + 1 }

// RowOrder returns the configured row order, or nil when unset.
func (r *Resolver) RowOrder() []string { return r.doc.Config.RowOrder }

func (r *Resolver) Actor(id string) (bcf.Actor, bool) {
	a, ok := r.actors[id]
	return a, ok
}

// Actors returns the actors in declaration order.
func (r *Resolver) Actors() []bcf.Actor { return r.doc.Timeline.Actors }

func (r *Resolver) actorType(id string) (bcf.ActorType, bool) {
	a, ok := r.actors[id]
	if !ok {
		return "", false
	}
	return a.Type(), true
}

// Ticks yields the ticks that carry data in ascending order.
func (r *Resolver) Ticks() iter.Seq[*bcf.Tick] {
	return func(yield func(*bcf.Tick) bool) {
		for _, n := range r.sortedTicks {
			if !yield(r.ticks[n]) {
				return
			}
		}
	}
}

func (r *Resolver) Tick(n int) (*bcf.Tick, bool) {
	t, ok := r.ticks[n]
	return t, ok
}

func (r *Resolver) Cell(actorID string, tick int) (*bcf.Cell, bool) {
	c, ok := r.cells[cellKey{actorID, tick}]
	return c, ok
}

// PlayerCell is like Cell but absent unless actorID is a player.
func (r *Resolver) PlayerCell(actorID string, tick int) (*bcf.Cell, bool) {
	if t, _ := r.actorType(actorID); t != bcf.ActorTypePlayer {
		return nil, false
	}
	return r.Cell(actorID, tick)
}

// NPCCell is like Cell but absent unless actorID is an NPC.
func (r *Resolver) NPCCell(actorID string, tick int) (*bcf.Cell, bool) {
	if t, _ := r.actorType(actorID); t != bcf.ActorTypeNPC {
		return nil, false
	}
	return r.Cell(actorID, tick)
}

func (r *Resolver) CustomRow(id string) (*bcf.CustomRow, bool) {
	row, ok := r.customRows[id]
	return row, ok
}

// CustomRows returns the custom rows in declaration order.
func (r *Resolver) CustomRows() []bcf.CustomRow {
	if r.doc.Augmentation == nil {
		return nil
	}
	return r.doc.Augmentation.CustomRows
}

func (r *Resolver) CustomRowCell(rowID string, tick int) (*bcf.CustomRowCell, bool) {
	c, ok := r.customRowCells[rowCellKey{rowID, tick}]
	return c, ok
}

// SplitAt returns the split at tick. When several splits share a tick the
// last declared wins.
func (r *Resolver) SplitAt(tick int) (bcf.Split, bool) {
	s, ok := r.splits[tick]
	if !ok {
		return bcf.Split{}, false
	}
	return *s, true
}

// Splits returns every split in declaration order.
func (r *Resolver) Splits() []bcf.Split {
	if r.doc.Augmentation == nil {
		return nil
	}
	return r.doc.Augmentation.Splits
}

// BackgroundColorAt returns the highlight of tick among entries that apply
// to every row.
func (r *Resolver) BackgroundColorAt(tick int) (Background, bool) {
	return lookupBackground(r.backgrounds, tick, "", false)
}

// BackgroundColorForRow returns the highlight of tick for one row. Entries
// without a row filter apply too; among all matching entries the last
// declared wins.
func (r *Resolver) BackgroundColorForRow(tick int, rowID string) (Background, bool) {
	return lookupBackground(r.backgrounds, tick, rowID, true)
}

// NPCPhases returns the phase transitions of an NPC in tick order. It is
// empty for unknown actors and players.
func (r *Resolver) NPCPhases(actorID string) []NPCPhase {
	if t, _ := r.actorType(actorID); t != bcf.ActorTypeNPC {
		return nil
	}
	return r.npcPhases[actorID]
}

// EncounterPhases returns the encounter-level phases in tick order.
func (r *Resolver) EncounterPhases() []bcf.Phase { return r.doc.Timeline.Phases }

// NPCSpawnTick returns the spawn tick of an NPC, defaulting to 0.
func (r *Resolver) NPCSpawnTick(actorID string) (int, bool) {
	npc, ok := r.actors[actorID].(*bcf.NPC)
	if !ok {
		return 0, false
	}
	return npc.Spawn(), true
}

// NPCDeathTick returns the death tick of an NPC. It is absent for NPCs that
// never die.
func (r *Resolver) NPCDeathTick(actorID string) (int, bool) {
	npc, ok := r.actors[actorID].(*bcf.NPC)
	if !ok || npc.DeathTick == nil {
		return 0, false
	}
	return *npc.DeathTick, true
}

// PlayerState is like ActorState but absent unless actorID is a player.
func (r *Resolver) PlayerState(actorID string, tick int) (*PlayerState, bool) {
	if t, _ := r.actorType(actorID); t != bcf.ActorTypePlayer {
		return nil, false
	}
	s, ok := r.ActorState(actorID, tick)
	if !ok {
		return nil, false
	}
	return s.(*PlayerState), true
}

// NPCState is like ActorState but absent unless actorID is an NPC.
func (r *Resolver) NPCState(actorID string, tick int) (*NPCState, bool) {
	if t, _ := r.actorType(actorID); t != bcf.ActorTypeNPC {
		return nil, false
	}
	s, ok := r.ActorState(actorID, tick)
	if !ok {
		return nil, false
	}
	return s.(*NPCState), true
}

// ActorState returns the effective state of an actor at tick. It is absent
// for unknown actors and ticks outside [0, MaxTick]. Results are memoized:
// repeated calls return the same value.
func (r *Resolver) ActorState(actorID string, tick int) (ResolvedState, bool) {
	t, ok := r.actorType(actorID)
	if !ok || tick < 0 || tick > r.MaxTick() {
		return nil, false
	}
	key := cellKey{actorID, tick}
	if s, ok := r.states[key]; ok {
		return s, true
	}
	return r.resolve(actorID, t, tick), true
}

// resolve walks forward from the latest memoized state strictly before tick,
// memoizing every data tick it passes.
func (r *Resolver) resolve(actorID string, t bcf.ActorType, tick int) ResolvedState {
	var p persistent
	start := 0

	// sortedTicks[:hi] are the data ticks strictly before tick.
	hi := sort.SearchInts(r.sortedTicks, tick)
	for i := hi - 1; i >= 0; i-- {
		if s, ok := r.states[cellKey{actorID, r.sortedTicks[i]}]; ok {
			p = extract(s)
			start = i + 1
			break
		}
	}

	for _, n := range r.sortedTicks[start:] {
		if n > tick {
			break
		}
		key := cellKey{actorID, n}
		cell := r.cells[key]
		p = fold(p, t, cell)
		if n < tick {
			if _, ok := r.states[key]; !ok {
				r.states[key] = build(p, t, cell)
			}
		}
	}

	key := cellKey{actorID, tick}
	s := build(p, t, r.cells[key])
	r.states[key] = s
	return s
}
