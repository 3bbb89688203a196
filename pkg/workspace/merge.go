package workspace

// mergeColumns combines an incoming partial column set with the existing
// table. Columns match by header name; cells match by doc id. New columns
// are back-filled against the "Document" anchor column so every known row
// gets an explicit (possibly empty) cell, keeping the table rectangular.
// An incoming column that is neither the anchor nor backed by one is
// dropped. The second return is false when nothing changed.
func mergeColumns(existing TableData, incoming []TableColumn) (TableData, bool) {
	if len(incoming) == 0 {
		return existing, false
	}

	out := cloneTableData(existing)
	changed := false

	for _, in := range incoming {
		if in.Header.Name == "" {
			continue
		}

		if idx := findColumn(out.Columns, in.Header.Name); idx >= 0 {
			if mergeCells(&out.Columns[idx], in.Cells) {
				changed = true
			}
			continue
		}

		if in.Header.Name == AnchorColumnName {
			// The anchor itself establishes the row universe.
			out.Columns = append(out.Columns, TableColumn{
				Header: in.Header,
				Cells:  append([]TableCell{}, in.Cells...),
			})
			changed = true
			continue
		}

		anchorIdx := findColumn(out.Columns, AnchorColumnName)
		if anchorIdx < 0 {
			// No row universe to align against; degenerate but
			// non-crashing: skip the column.
			continue
		}

		out.Columns = append(out.Columns, backfill(in, out.Columns[anchorIdx]))
		changed = true
	}

	if !changed {
		return existing, false
	}
	return out, true
}

// mergeCells updates existing cells in place by doc id and appends the
// rest. Reports whether any cell actually changed.
func mergeCells(col *TableColumn, incoming []TableCell) bool {
	changed := false
	for _, cell := range incoming {
		if cell.DocID == "" {
			continue
		}
		idx := findCell(col.Cells, cell.DocID)
		if idx >= 0 {
			if col.Cells[idx].Content != cell.Content {
				col.Cells[idx].Content = cell.Content
				changed = true
			}
			continue
		}
		col.Cells = append(col.Cells, cell)
		changed = true
	}
	return changed
}

// backfill aligns a new column's cells to the anchor column's doc ids.
// Rows absent from the incoming payload get an empty cell; incoming cells
// for unknown doc ids are dropped.
func backfill(in TableColumn, anchor TableColumn) TableColumn {
	byDoc := make(map[string]string, len(in.Cells))
	for _, cell := range in.Cells {
		byDoc[cell.DocID] = cell.Content
	}

	cells := make([]TableCell, 0, len(anchor.Cells))
	for _, row := range anchor.Cells {
		cells = append(cells, TableCell{
			DocID:   row.DocID,
			Content: byDoc[row.DocID],
		})
	}

	return TableColumn{Header: in.Header, Cells: cells}
}

func findColumn(cols []TableColumn, name string) int {
	for i := range cols {
		if cols[i].Header.Name == name {
			return i
		}
	}
	return -1
}

func findCell(cells []TableCell, docID string) int {
	for i := range cells {
		if cells[i].DocID == docID {
			return i
		}
	}
	return -1
}
