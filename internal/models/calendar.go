package models

// CalendarCell is one slot in the projected month grid. Day 0 marks a blank
// leading cell used for weekday alignment; real day cells carry the ISO date
// and the payments falling on it.
type CalendarCell struct {
	Day      int              `json:"day"` // 0 for blank alignment cells
	Date     string           `json:"date,omitempty"`
	Payments []DividendRecord `json:"payments,omitempty"`
}

// IsBlank reports whether the cell is a leading alignment placeholder.
func (c *CalendarCell) IsBlank() bool {
	return c.Day == 0
}

// ChunkWeeks splits a flat cell sequence into rows of seven for rendering.
// The final row may be shorter than seven.
func ChunkWeeks(cells []CalendarCell) [][]CalendarCell {
	var weeks [][]CalendarCell
	for len(cells) > 7 {
		weeks = append(weeks, cells[:7])
		cells = cells[7:]
	}
	if len(cells) > 0 {
		weeks = append(weeks, cells)
	}
	return weeks
}
