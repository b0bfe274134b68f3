package bcf

import (
	"fmt"
	"strings"
)

// specSuffix marks attack types that may carry a spec energy cost.
const specSuffix = "_SPEC"

// semanticValidator checks the cross-referential invariants of a
// grammar-valid document. It accumulates every violation.
type semanticValidator struct {
	doc     *Document
	actions actionSets
	errs    ValidationErrors

	actors       map[string]Actor
	customRowIDs map[string]struct{}
}

func validateSemantics(doc *Document, v Version) ValidationErrors {
	s := &semanticValidator{
		doc:          doc,
		actions:      versionActionTypes[v],
		actors:       make(map[string]Actor, len(doc.Timeline.Actors)),
		customRowIDs: map[string]struct{}{},
	}
	return s.run()
}

func (s *semanticValidator) run() ValidationErrors {
	s.checkActors()
	s.collectCustomRowIDs()
	s.checkRowOrder()
	s.checkDisplayRange()
	s.checkTicks()
	s.checkPhases()
	s.checkCustomRows()
	s.checkSplits()
	s.checkBackgroundColors()
	return s.errs
}

func (s *semanticValidator) errorf(path, code, format string, args ...any) {
	s.errs = append(s.errs, ValidationError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Type:    ErrorTypeSemantic,
		Code:    code,
	})
}

func (s *semanticValidator) totalTicks() int { return s.doc.Config.TotalTicks }

func (s *semanticValidator) inBounds(tick int) bool {
	return tick >= 0 && tick < s.totalTicks()
}

func (s *semanticValidator) isRow(id string) bool {
	if _, ok := s.actors[id]; ok {
		return true
	}
	_, ok := s.customRowIDs[id]
	return ok
}

func (s *semanticValidator) augmentation() Augmentation {
	if s.doc.Augmentation == nil {
		return Augmentation{}
	}
	return *s.doc.Augmentation
}

func (s *semanticValidator) checkActors() {
	for i, a := range s.doc.Timeline.Actors {
		base := fmt.Sprintf("/timeline/actors/%d", i)
		if _, dup := s.actors[a.ActorID()]; dup {
			s.errorf(base+"/id", CodeDuplicateID, "Duplicate actor ID: %q", a.ActorID())
		}
		// The last declaration wins, as in the resolver's index.
		s.actors[a.ActorID()] = a

		npc, ok := a.(*NPC)
		if !ok {
			continue
		}
		if npc.SpawnTick != nil && !s.inBounds(*npc.SpawnTick) {
			s.errorf(base+"/spawnTick", CodeOutOfBounds,
				"spawnTick %d is out of bounds [0, %d)", *npc.SpawnTick, s.totalTicks())
		}
		if npc.DeathTick != nil && !s.inBounds(*npc.DeathTick) {
			s.errorf(base+"/deathTick", CodeOutOfBounds,
				"deathTick %d is out of bounds [0, %d)", *npc.DeathTick, s.totalTicks())
		}
		if npc.SpawnTick != nil && npc.DeathTick != nil && *npc.DeathTick < *npc.SpawnTick {
			s.errorf(base+"/deathTick", CodeInvalidRange,
				"deathTick (%d) must be greater than or equal to spawnTick (%d)", *npc.DeathTick, *npc.SpawnTick)
		}
	}
}

func (s *semanticValidator) collectCustomRowIDs() {
	for _, row := range s.augmentation().CustomRows {
		s.customRowIDs[row.ID] = struct{}{}
	}
}

func (s *semanticValidator) checkRowOrder() {
	for i, id := range s.doc.Config.RowOrder {
		if !s.isRow(id) {
			s.errorf(fmt.Sprintf("/config/rowOrder/%d", i), CodeUnknownReference,
				"Row ID %q does not reference an actor or custom row", id)
		}
	}
}

func (s *semanticValidator) checkDisplayRange() {
	c := s.doc.Config
	if c.StartTick != nil {
		if !s.inBounds(*c.StartTick) {
			s.errorf("/config/startTick", CodeOutOfBounds, "startTick is out of bounds [0, %d)", c.TotalTicks)
		}
		if c.EndTick != nil && *c.StartTick > *c.EndTick {
			s.errorf("/config/startTick", CodeInvalidRange, "startTick must be less than or equal to endTick")
		}
	}
	if c.EndTick != nil && !s.inBounds(*c.EndTick) {
		s.errorf("/config/endTick", CodeOutOfBounds, "endTick is out of bounds [0, %d)", c.TotalTicks)
	}
}

// checkOrdered is the shared check for tick-keyed arrays. Each index may be
// reported as a duplicate, out of order and out of bounds independently.
func (s *semanticValidator) checkOrdered(ticks []int, path func(i int) string, duplicate func(tick int) string) {
	seen := make(map[int]struct{}, len(ticks))
	for i, tick := range ticks {
		p := path(i)
		if _, dup := seen[tick]; dup {
			s.errorf(p, CodeDuplicateTick, "%s", duplicate(tick))
		}
		seen[tick] = struct{}{}
		if i > 0 && tick < ticks[i-1] {
			s.errorf(p, CodeOutOfOrder, "Tick %d is out of order (previous tick was %d)", tick, ticks[i-1])
		}
		if !s.inBounds(tick) {
			s.errorf(p, CodeOutOfBounds, "Tick %d is out of bounds [0, %d)", tick, s.totalTicks())
		}
	}
}

func (s *semanticValidator) checkTicks() {
	ticks := s.doc.Timeline.Ticks
	nums := make([]int, len(ticks))
	for i, t := range ticks {
		nums[i] = t.Tick
	}
	s.checkOrdered(nums,
		func(i int) string { return fmt.Sprintf("/timeline/ticks/%d/tick", i) },
		func(tick int) string { return fmt.Sprintf("Duplicate tick number: %d", tick) })

	for i, t := range ticks {
		seen := make(map[string]struct{}, len(t.Cells))
		for j := range t.Cells {
			cell := &t.Cells[j]
			base := fmt.Sprintf("/timeline/ticks/%d/cells/%d", i, j)
			if _, dup := seen[cell.ActorID]; dup {
				s.errorf(base+"/actorId", CodeDuplicateID, "Duplicate actor ID %q in tick", cell.ActorID)
			}
			seen[cell.ActorID] = struct{}{}
			s.checkCell(cell, t.Tick, base)
		}
	}
}

func (s *semanticValidator) checkCell(cell *Cell, tick int, base string) {
	actor, exists := s.actors[cell.ActorID]
	if !exists {
		s.errorf(base+"/actorId", CodeUnknownReference, "Actor ID %q does not exist", cell.ActorID)
	}
	if npc, ok := actor.(*NPC); ok {
		if npc.SpawnTick != nil && tick < *npc.SpawnTick {
			s.errorf(base+"/actorId", CodeLifecycle,
				"NPC %q has a cell at tick %d before spawnTick %d", npc.ID, tick, *npc.SpawnTick)
		}
		if npc.DeathTick != nil && tick > *npc.DeathTick {
			s.errorf(base+"/actorId", CodeLifecycle,
				"NPC %q has a cell at tick %d after deathTick %d", npc.ID, tick, *npc.DeathTick)
		}
	}

	types := make(map[ActionType]struct{}, len(cell.Actions))
	for k, a := range cell.Actions {
		path := fmt.Sprintf("%s/actions/%d", base, k)
		t := a.Type()
		if exists {
			if s.incompatible(actor.Type(), t) {
				s.errorf(path, CodeActorMismatch, "%s actor cannot perform %q action", actor.Type(), t)
			}
		}
		if _, dup := types[t]; dup {
			s.errorf(path, CodeDuplicateAction, "Duplicate action type %q in cell", t)
		}
		types[t] = struct{}{}

		if target, ok := TargetActorID(a); ok {
			if _, known := s.actors[target]; !known {
				s.errorf(path+"/targetActorId", CodeUnknownReference, "Target actor ID %q does not exist", target)
			}
		}
		if atk, ok := a.(*AttackAction); ok && atk.SpecCost != nil && !strings.HasSuffix(atk.AttackType, specSuffix) {
			s.errorf(path+"/specCost", CodeSpecCost,
				"specCost is only allowed on special attacks (attackType ending in %q), got %q", specSuffix, atk.AttackType)
		}
	}
}

// incompatible reports whether a known action type is reserved for the
// other actor type. Unknown action types are allowed on any actor.
func (s *semanticValidator) incompatible(actor ActorType, t ActionType) bool {
	if _, npcOnly := s.actions.npc[t]; npcOnly {
		return actor != ActorTypeNPC
	}
	if _, playerOnly := s.actions.player[t]; playerOnly {
		return actor != ActorTypePlayer
	}
	return false
}

func (s *semanticValidator) checkPhases() {
	phases := s.doc.Timeline.Phases
	nums := make([]int, len(phases))
	for i, p := range phases {
		nums[i] = p.Tick
	}
	s.checkOrdered(nums,
		func(i int) string { return fmt.Sprintf("/timeline/phases/%d/tick", i) },
		func(tick int) string { return fmt.Sprintf("Duplicate phase tick: %d", tick) })
}

func (s *semanticValidator) checkCustomRows() {
	seen := map[string]struct{}{}
	for i, row := range s.augmentation().CustomRows {
		base := fmt.Sprintf("/augmentation/customRows/%d", i)
		if _, ok := s.actors[row.ID]; ok {
			s.errorf(base+"/id", CodeIDConflict, "Custom row ID %q conflicts with actor ID", row.ID)
		}
		if _, dup := seen[row.ID]; dup {
			s.errorf(base+"/id", CodeDuplicateID, "Duplicate custom row ID: %q", row.ID)
		}
		seen[row.ID] = struct{}{}

		nums := make([]int, len(row.Cells))
		for j, c := range row.Cells {
			nums[j] = c.Tick
		}
		s.checkOrdered(nums,
			func(j int) string { return fmt.Sprintf("%s/cells/%d/tick", base, j) },
			func(tick int) string { return fmt.Sprintf("Duplicate tick number %d in custom row %q", tick, row.ID) })
	}
}

func (s *semanticValidator) checkSplits() {
	for i, sp := range s.augmentation().Splits {
		if !s.inBounds(sp.Tick) {
			s.errorf(fmt.Sprintf("/augmentation/splits/%d/tick", i), CodeOutOfBounds,
				"Split tick %d is out of bounds [0, %d)", sp.Tick, s.totalTicks())
		}
	}
}

func (s *semanticValidator) checkBackgroundColors() {
	for i, bg := range s.augmentation().BackgroundColors {
		base := fmt.Sprintf("/augmentation/backgroundColors/%d", i)
		if !s.inBounds(bg.Tick) {
			s.errorf(base+"/tick", CodeOutOfBounds,
				"Background color tick %d is out of bounds [0, %d)", bg.Tick, s.totalTicks())
		} else if end := bg.Tick + bg.Len() - 1; end >= s.totalTicks() {
			s.errorf(base+"/length", CodeOutOfBounds,
				"Background color extends past timeline (ends at tick %d, max is %d)", end, s.totalTicks()-1)
		}
		for j, id := range bg.RowIDs {
			if !s.isRow(id) {
				s.errorf(fmt.Sprintf("%s/rowIds/%d", base, j), CodeUnknownReference,
					"Row ID %q does not reference an actor or custom row", id)
			}
		}
	}
}
