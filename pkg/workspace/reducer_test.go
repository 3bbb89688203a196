package workspace

import (
	"reflect"
	"testing"
)

func projectFixture(id string) Project {
	return Project{ID: id, Name: "Project " + id}
}

func stateWithProject(id string) State {
	s := NewState()
	return Reduce(s, SetCurrentProject{Project: projectFixture(id)})
}

func TestAddDocumentsUnion(t *testing.T) {
	s := stateWithProject("p1")

	s = Reduce(s, AddDocuments{Documents: []Document{
		{ID: "d1", ProjectID: "p1", Filename: "a.pdf", Status: StatusUploading},
		{ID: "d2", ProjectID: "p1", Filename: "b.pdf", Status: StatusUploading},
	}})
	s = Reduce(s, AddDocuments{Documents: []Document{
		{ID: "d2", ProjectID: "p1", Filename: "b-v2.pdf", Status: StatusCompleted},
		{ID: "d3", ProjectID: "p1", Filename: "c.pdf", Status: StatusUploading},
	}})

	if len(s.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(s.Documents))
	}
	if s.Documents["d1"].Filename != "a.pdf" {
		t.Errorf("d1 filename = %q", s.Documents["d1"].Filename)
	}
	// Later dispatches overwrite same-id entries.
	if s.Documents["d2"].Filename != "b-v2.pdf" || s.Documents["d2"].Status != StatusCompleted {
		t.Errorf("d2 not overwritten: %+v", s.Documents["d2"])
	}
	if !s.HasUnsavedChanges {
		t.Error("AddDocuments should mark state dirty")
	}
}

func TestAddDocumentsExtendsSelection(t *testing.T) {
	s := stateWithProject("p1")

	s = Reduce(s, AddDocuments{Documents: []Document{
		{ID: "d1", ProjectID: "p1", Filename: "a.pdf", Status: StatusUploading},
	}})

	if s.Documents["d1"].Filename != "a.pdf" {
		t.Fatalf("d1 filename = %q", s.Documents["d1"].Filename)
	}
	if !containsID(s.Analysis.SelectedDocumentIDs, "d1") {
		t.Errorf("selection should include d1, got %v", s.Analysis.SelectedDocumentIDs)
	}

	// Selection never shrinks on further adds.
	s = Reduce(s, AddDocuments{Documents: []Document{
		{ID: "d2", ProjectID: "p1", Filename: "b.pdf", Status: StatusUploading},
	}})
	if !containsID(s.Analysis.SelectedDocumentIDs, "d1") || !containsID(s.Analysis.SelectedDocumentIDs, "d2") {
		t.Errorf("selection = %v, want d1 and d2", s.Analysis.SelectedDocumentIDs)
	}
}

func TestSetCurrentProjectIsolation(t *testing.T) {
	s := stateWithProject("p1")
	s = Reduce(s, AddDocuments{Documents: []Document{{ID: "d1", ProjectID: "p1", Filename: "a.pdf"}}})
	s = Reduce(s, AddMessage{Message: Message{Role: "user", Content: "hello"}})
	s = Reduce(s, SetRecentProjects{Projects: []Project{projectFixture("p1")}})

	// Re-selecting the same project refreshes the object but keeps
	// documents, messages and analysis.
	same := Reduce(s, SetCurrentProject{Project: Project{ID: "p1", Name: "Renamed"}})
	if same.CurrentProject.Name != "Renamed" {
		t.Errorf("project object not refreshed: %+v", same.CurrentProject)
	}
	if len(same.Documents) != 1 || len(same.Messages) != 1 {
		t.Errorf("same-project switch must preserve documents/messages, got %d/%d",
			len(same.Documents), len(same.Messages))
	}

	// Switching to a different project resets the scoped slices.
	other := Reduce(s, SetCurrentProject{Project: projectFixture("p2")})
	if len(other.Documents) != 0 || len(other.Messages) != 0 {
		t.Errorf("cross-project switch must reset documents/messages, got %d/%d",
			len(other.Documents), len(other.Messages))
	}
	if !reflect.DeepEqual(other.Analysis, NewAnalysis()) {
		t.Errorf("analysis not reset: %+v", other.Analysis)
	}
	if len(other.RecentProjects) != 1 {
		t.Error("recent projects must persist across switches")
	}
}

func TestSelectDocumentsFiltersCrossProject(t *testing.T) {
	s := stateWithProject("p1")
	s = Reduce(s, AddDocuments{Documents: []Document{
		{ID: "d1", ProjectID: "p1", Filename: "a.pdf"},
		{ID: "d2", ProjectID: "p1", Filename: "b.pdf"},
		{ID: "dx", ProjectID: "p2", Filename: "x.pdf"},
	}})

	s = Reduce(s, SelectDocuments{IDs: []string{"d1", "dx", "ghost", "d1"}})

	if !reflect.DeepEqual(s.Analysis.SelectedDocumentIDs, []string{"d1"}) {
		t.Errorf("selection = %v, want [d1]", s.Analysis.SelectedDocumentIDs)
	}
	for _, id := range s.Analysis.SelectedDocumentIDs {
		if doc, ok := s.Documents[id]; !ok || doc.ProjectID != "p1" {
			t.Errorf("selection leaked cross-project id %q", id)
		}
	}
}

func TestSetModeTableAutoSelects(t *testing.T) {
	s := stateWithProject("p1")
	s = Reduce(s, AddDocuments{Documents: []Document{
		{ID: "d1", ProjectID: "p1", Filename: "a.pdf"},
		{ID: "d2", ProjectID: "p1", Filename: "b.pdf"},
		{ID: "dx", ProjectID: "p2", Filename: "x.pdf"},
	}})
	s = Reduce(s, SelectDocuments{IDs: []string{"d1"}})

	s = Reduce(s, SetMode{Mode: ModeTable})
	if !reflect.DeepEqual(s.Analysis.SelectedDocumentIDs, []string{"d1", "d2"}) {
		t.Errorf("table mode selection = %v, want [d1 d2]", s.Analysis.SelectedDocumentIDs)
	}

	// Switching back to chat preserves the selection.
	s = Reduce(s, SetMode{Mode: ModeChat})
	if !reflect.DeepEqual(s.Analysis.SelectedDocumentIDs, []string{"d1", "d2"}) {
		t.Errorf("leaving table mode must keep selection, got %v", s.Analysis.SelectedDocumentIDs)
	}
}

func TestUpdateColumnInfoRenames(t *testing.T) {
	s := stateWithProject("p1")
	s.Analysis.Columns = []string{"Revenue"}
	s.Analysis.ColumnPrompts = map[string]string{"Revenue": "extract revenue"}
	s.Analysis.OriginalPrompts = map[string]string{"Revenue": "extract revenue"}
	s.Analysis.TableData = TableData{Columns: []TableColumn{
		{Header: ColumnHeader{Name: AnchorColumnName}, Cells: []TableCell{{DocID: "d1", Content: "a.pdf"}}},
		{Header: ColumnHeader{Name: "Revenue", Prompt: "extract revenue"}, Cells: []TableCell{{DocID: "d1", Content: "42"}}},
	}}

	s = Reduce(s, UpdateColumnInfo{OldName: "Revenue", NewName: "Sales", Prompt: "extract sales"})

	if !reflect.DeepEqual(s.Analysis.Columns, []string{"Sales"}) {
		t.Errorf("columns = %v", s.Analysis.Columns)
	}
	if _, ok := s.Analysis.ColumnPrompts["Revenue"]; ok {
		t.Error("old prompt key still present")
	}
	if s.Analysis.ColumnPrompts["Sales"] != "extract sales" {
		t.Errorf("prompt = %q", s.Analysis.ColumnPrompts["Sales"])
	}
	if s.Analysis.OriginalPrompts["Sales"] != "extract revenue" {
		t.Errorf("original prompt = %q", s.Analysis.OriginalPrompts["Sales"])
	}
	// Header rename stays in sync with the ordered column list.
	if s.Analysis.TableData.Columns[1].Header.Name != "Sales" {
		t.Errorf("table header = %q", s.Analysis.TableData.Columns[1].Header.Name)
	}
}

func TestUpdateColumnInfoRejectsDuplicateName(t *testing.T) {
	s := stateWithProject("p1")
	s.Analysis.Columns = []string{"Revenue", "Sales"}
	s.Analysis.ColumnPrompts = map[string]string{"Revenue": "rev prompt", "Sales": "sales prompt"}
	s.Analysis.OriginalPrompts = map[string]string{"Revenue": "rev prompt", "Sales": "sales prompt"}

	// Renaming onto an existing header must be a no-op, not a merge.
	next := Reduce(s, UpdateColumnInfo{OldName: "Revenue", NewName: "Sales"})

	if !reflect.DeepEqual(next.Analysis.Columns, []string{"Revenue", "Sales"}) {
		t.Errorf("columns = %v", next.Analysis.Columns)
	}
	if next.Analysis.ColumnPrompts["Sales"] != "sales prompt" {
		t.Errorf("sales prompt clobbered: %q", next.Analysis.ColumnPrompts["Sales"])
	}
	if next.Analysis.ColumnPrompts["Revenue"] != "rev prompt" {
		t.Errorf("revenue prompt = %q", next.Analysis.ColumnPrompts["Revenue"])
	}
	if next.HasUnsavedChanges != s.HasUnsavedChanges {
		t.Error("rejected rename must not dirty the state")
	}

	// Renaming a column to its own name keeps the state intact too.
	same := Reduce(s, UpdateColumnInfo{OldName: "Sales", NewName: "Sales", Prompt: "updated"})
	if same.Analysis.ColumnPrompts["Sales"] != "updated" {
		t.Errorf("self-rename should still update the prompt, got %q", same.Analysis.ColumnPrompts["Sales"])
	}
	if !reflect.DeepEqual(same.Analysis.Columns, []string{"Revenue", "Sales"}) {
		t.Errorf("columns = %v", same.Analysis.Columns)
	}
}

func TestUpdateDocumentStatus(t *testing.T) {
	s := stateWithProject("p1")
	s = Reduce(s, AddDocuments{Documents: []Document{{ID: "d1", ProjectID: "p1", Status: StatusUploading}}})

	s = Reduce(s, UpdateDocumentStatus{ID: "d1", Status: StatusProcessing})
	if s.Documents["d1"].Status != StatusProcessing {
		t.Errorf("status = %q", s.Documents["d1"].Status)
	}

	// Unknown document id is a no-op.
	unchanged := Reduce(s, UpdateDocumentStatus{ID: "ghost", Status: StatusFailed})
	if !reflect.DeepEqual(unchanged, s) {
		t.Error("unknown id must not change state")
	}
}

func TestSetInitialStateKeepsRecentProjects(t *testing.T) {
	s := stateWithProject("p1")
	s = Reduce(s, SetRecentProjects{Projects: []Project{projectFixture("p1"), projectFixture("p2")}})
	s = Reduce(s, AddMessage{Message: Message{Role: "user", Content: "hi"}})

	s = Reduce(s, SetInitialState{})

	if s.CurrentProject != nil || len(s.Messages) != 0 || len(s.Documents) != 0 {
		t.Errorf("state not reset: %+v", s)
	}
	if len(s.RecentProjects) != 2 {
		t.Errorf("recent projects lost on reset: %v", s.RecentProjects)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := stateWithProject("p1")
	s = Reduce(s, AddDocuments{Documents: []Document{{ID: "d1", ProjectID: "p1", Filename: "a.pdf"}}})
	before := cloneAnalysis(s.Analysis)
	beforeDocs := cloneDocuments(s.Documents)

	_ = Reduce(s, AddDocuments{Documents: []Document{{ID: "d2", ProjectID: "p1", Filename: "b.pdf"}}})
	_ = Reduce(s, SelectDocuments{IDs: []string{}})
	_ = Reduce(s, UpdateTableData{Columns: []TableColumn{
		{Header: ColumnHeader{Name: AnchorColumnName}, Cells: []TableCell{{DocID: "d1", Content: "a.pdf"}}},
	}})

	if !reflect.DeepEqual(before, s.Analysis) {
		t.Error("Reduce mutated the input analysis")
	}
	if !reflect.DeepEqual(beforeDocs, s.Documents) {
		t.Error("Reduce mutated the input documents map")
	}
}

func TestUnknownActionIsNoOp(t *testing.T) {
	s := stateWithProject("p1")
	next := Reduce(s, unknownAction{})
	if !reflect.DeepEqual(s, next) {
		t.Error("unknown action must return state unchanged")
	}
}

type unknownAction struct{}

func (unknownAction) isAction() {}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
