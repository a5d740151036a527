package table

import "fmt"

// Concat stacks tables vertically. Columns are the union of all inputs in
// first-seen order; cells missing from a table are null. Nil tables are skipped.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	pos := make(map[string]int)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			cells := make([]any, len(out.Columns))
			for i, c := range t.Columns {
				cells[pos[c]] = row[i]
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

// LeftJoin merges right onto left using key as the join column. Every left
// row is kept in order; it is repeated once per matching right row, or
// emitted once with null right-hand cells when nothing matches. Right
// columns that clash with left columns are suffixed with "_y".
func LeftJoin(left, right *Table, key string) (*Table, error) {
	lk := left.Index(key)
	if lk < 0 {
		return nil, fmt.Errorf("join key %q missing from left table", key)
	}
	rk := -1
	if right != nil {
		rk = right.Index(key)
	}
	if right != nil && len(right.Columns) > 0 && rk < 0 {
		return nil, fmt.Errorf("join key %q missing from right table", key)
	}

	out := &Table{Columns: append([]string(nil), left.Columns...)}
	var rightCols []int
	if right != nil {
		for i, c := range right.Columns {
			if i == rk {
				continue
			}
			name := c
			if left.Index(c) >= 0 {
				name = c + "_y"
			}
			out.Columns = append(out.Columns, name)
			rightCols = append(rightCols, i)
		}
	}

	matches := make(map[string][]int)
	if right != nil && rk >= 0 {
		for i, row := range right.Rows {
			k := Format(row[rk])
			matches[k] = append(matches[k], i)
		}
	}

	for _, lrow := range left.Rows {
		hits := matches[Format(lrow[lk])]
		if lrow[lk] == nil || len(hits) == 0 {
			cells := make([]any, len(out.Columns))
			copy(cells, lrow)
			out.Rows = append(out.Rows, cells)
			continue
		}
		for _, h := range hits {
			cells := make([]any, 0, len(out.Columns))
			cells = append(cells, lrow...)
			for _, c := range rightCols {
				cells = append(cells, right.Rows[h][c])
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out, nil
}

// Drop removes the named columns. Unknown names are ignored.
func (t *Table) Drop(columns ...string) {
	drop := make(map[int]bool)
	for _, c := range columns {
		if i := t.Index(c); i >= 0 {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	keep := t.Columns[:0:0]
	for i, c := range t.Columns {
		if !drop[i] {
			keep = append(keep, c)
		}
	}
	for r, row := range t.Rows {
		cells := make([]any, 0, len(keep))
		for i, v := range row {
			if !drop[i] {
				cells = append(cells, v)
			}
		}
		t.Rows[r] = cells
	}
	t.Columns = keep
}

// Dedup removes rows identical across all columns, keeping the first
// occurrence.
func (t *Table) Dedup() {
	seen := make(map[string]bool, len(t.Rows))
	unique := t.Rows[:0]
	for _, row := range t.Rows {
		k := rowKey(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, row)
	}
	t.Rows = unique
}
