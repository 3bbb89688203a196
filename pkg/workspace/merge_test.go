package workspace

import (
	"reflect"
	"testing"
)

func anchor(docIDs ...string) TableColumn {
	cells := make([]TableCell, len(docIDs))
	for i, id := range docIDs {
		cells[i] = TableCell{DocID: id, Content: id + ".pdf"}
	}
	return TableColumn{Header: ColumnHeader{Name: AnchorColumnName}, Cells: cells}
}

func TestMergeNewColumnBackfills(t *testing.T) {
	existing := TableData{Columns: []TableColumn{anchor("d1", "d2", "d3")}}

	merged, changed := mergeColumns(existing, []TableColumn{
		{
			Header: ColumnHeader{Name: "Revenue", Prompt: "extract revenue"},
			Cells:  []TableCell{{DocID: "d2", Content: "42"}},
		},
	})

	if !changed {
		t.Fatal("expected change")
	}
	if len(merged.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(merged.Columns))
	}

	// Every doc id in the anchor has an explicit cell in the new column.
	rev := merged.Columns[1]
	if len(rev.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(rev.Cells))
	}
	want := []TableCell{
		{DocID: "d1", Content: ""},
		{DocID: "d2", Content: "42"},
		{DocID: "d3", Content: ""},
	}
	if !reflect.DeepEqual(rev.Cells, want) {
		t.Errorf("cells = %+v, want %+v", rev.Cells, want)
	}
}

func TestMergeExistingColumnByDocID(t *testing.T) {
	existing := TableData{Columns: []TableColumn{
		anchor("d1", "d2"),
		{
			Header: ColumnHeader{Name: "Revenue"},
			Cells:  []TableCell{{DocID: "d1", Content: "10"}, {DocID: "d2", Content: ""}},
		},
	}}

	merged, changed := mergeColumns(existing, []TableColumn{
		{
			Header: ColumnHeader{Name: "Revenue"},
			Cells:  []TableCell{{DocID: "d2", Content: "20"}, {DocID: "d3", Content: "30"}},
		},
	})

	if !changed {
		t.Fatal("expected change")
	}
	rev := merged.Columns[1]
	if got := rev.Cells[0].Content; got != "10" {
		t.Errorf("unrelated cell touched: %q", got)
	}
	if got := rev.Cells[1].Content; got != "20" {
		t.Errorf("d2 not updated in place: %q", got)
	}
	// Unknown doc id on an existing column appends rather than drops.
	if got := rev.Cells[2]; got.DocID != "d3" || got.Content != "30" {
		t.Errorf("d3 not appended: %+v", got)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := TableData{Columns: []TableColumn{anchor("d1", "d2")}}
	payload := []TableColumn{
		{
			Header: ColumnHeader{Name: "Summary"},
			Cells:  []TableCell{{DocID: "d1", Content: "short"}, {DocID: "d2", Content: "long"}},
		},
	}

	once, changed := mergeColumns(existing, payload)
	if !changed {
		t.Fatal("first merge should change")
	}
	twice, changed := mergeColumns(once, payload)
	if changed {
		t.Error("re-applying the same payload must report no change")
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeWithoutAnchorIsNoOp(t *testing.T) {
	existing := TableData{Columns: []TableColumn{}}

	merged, changed := mergeColumns(existing, []TableColumn{
		{Header: ColumnHeader{Name: "Revenue"}, Cells: []TableCell{{DocID: "d1", Content: "42"}}},
	})

	if changed {
		t.Error("merging without a Document column must not change state")
	}
	if len(merged.Columns) != 0 {
		t.Errorf("columns = %+v", merged.Columns)
	}
}

func TestMergeAnchorEstablishesRows(t *testing.T) {
	merged, changed := mergeColumns(TableData{}, []TableColumn{
		anchor("d1", "d2"),
		{Header: ColumnHeader{Name: "Revenue"}, Cells: []TableCell{{DocID: "d1", Content: "42"}}},
	})

	if !changed {
		t.Fatal("expected change")
	}
	if len(merged.Columns) != 2 {
		t.Fatalf("expected anchor + 1 column, got %d", len(merged.Columns))
	}
	// The anchor arriving in the same payload backs the sibling column.
	if len(merged.Columns[1].Cells) != 2 {
		t.Errorf("sibling column not rectangular: %+v", merged.Columns[1].Cells)
	}
}

func TestMergeThroughReducer(t *testing.T) {
	s := stateWithProject("p1")
	payload := UpdateTableData{Columns: []TableColumn{
		anchor("d1"),
		{Header: ColumnHeader{Name: "Risk"}, Cells: []TableCell{{DocID: "d1", Content: "low"}}},
	}}

	once := Reduce(s, payload)
	twice := Reduce(once, payload)

	if !reflect.DeepEqual(once.Analysis.TableData, twice.Analysis.TableData) {
		t.Error("UpdateTableData must be idempotent through the reducer")
	}
	if !once.HasUnsavedChanges {
		t.Error("table update should mark state dirty")
	}
}
