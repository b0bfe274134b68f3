package resolver

import "github.com/blert-io/bcf"

// Background is the resolved highlight of one tick.
type Background struct {
	Color     string
	Intensity bcf.Intensity
}

// backgroundEntry is a background color with defaults applied.
type backgroundEntry struct {
	start, end int // [start, end)
	bg         Background
	rows       map[string]struct{} // nil applies to every row
}

func newBackgroundEntry(c bcf.BackgroundColor) backgroundEntry {
	e := backgroundEntry{
		start: c.Tick,
		end:   c.Tick + c.Len(),
		bg:    Background{Color: c.Color, Intensity: c.EffectiveIntensity()},
	}
	if c.RowIDs != nil {
		e.rows = make(map[string]struct{}, len(c.RowIDs))
		for _, id := range c.RowIDs {
			e.rows[id] = struct{}{}
		}
	}
	return e
}

func (e *backgroundEntry) covers(tick int) bool {
	return tick >= e.start && tick < e.end
}

// matches reports whether the entry applies to row. An empty row only
// matches unfiltered entries.
func (e *backgroundEntry) matches(row string, hasRow bool) bool {
	if e.rows == nil {
		return true
	}
	if !hasRow {
		return false
	}
	_, ok := e.rows[row]
	return ok
}

// lookupBackground returns the last declared entry covering tick that
// applies to the row, regardless of how the filters of overlapping entries
// differ.
func lookupBackground(entries []backgroundEntry, tick int, row string, hasRow bool) (Background, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		e := &entries[i]
		if e.covers(tick) && e.matches(row, hasRow) {
			return e.bg, true
		}
	}
	return Background{}, false
}
