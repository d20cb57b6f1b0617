package locations

// Table is an ordered sequence of numeric rows. Row 0 is the header row.
type Table [][]float64

// Len returns the number of locations, i.e. rows after the header.
// An empty table and a header-only table both have zero locations.
func (t Table) Len() int {
	if len(t) <= 1 {
		return 0
	}

	return len(t) - 1
}

// Header returns row 0, or nil for an empty table.
func (t Table) Header() []float64 {
	if len(t) == 0 {
		return nil
	}

	return t[0]
}

// Locations returns rows 1..n (shared with t, not copied).
func (t Table) Locations() [][]float64 {
	if len(t) <= 1 {
		return nil
	}

	return t[1:]
}

// Coord returns the (x, y) pair of location i, 0-based with the header
// skipped. Missing coordinates of a short row read as 0. ok is false when
// i is out of range.
func (t Table) Coord(i int) (x, y float64, ok bool) {
	if i < 0 || i >= t.Len() {
		return 0, 0, false
	}
	row := t[i+1]
	if len(row) > 0 {
		x = row[0]
	}
	if len(row) > 1 {
		y = row[1]
	}

	return x, y, true
}
