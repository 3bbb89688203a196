package workspace

import "sort"

// Reduce applies an action to the state and returns the next state.
// The input state is never mutated and unknown actions return it
// unchanged. Malformed payloads degrade to no-ops; Reduce never panics.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetInitialState:
		next := NewState()
		next.RecentProjects = s.RecentProjects
		return next

	case SetCurrentProject:
		return reduceSetCurrentProject(s, act)

	case AddDocuments:
		return reduceAddDocuments(s, act)

	case SelectDocuments:
		return reduceSelectDocuments(s, act)

	case AddMessage:
		next := s
		next.Messages = append(cloneMessages(s.Messages), act.Message)
		next.HasUnsavedChanges = true
		return next

	case ClearMessages:
		next := s
		next.Messages = []Message{}
		next.HasUnsavedChanges = true
		return next

	case SetMode:
		return reduceSetMode(s, act)

	case UpdateTableData:
		merged, changed := mergeColumns(s.Analysis.TableData, act.Columns)
		if !changed {
			return s
		}
		next := s
		next.Analysis = cloneAnalysis(s.Analysis)
		next.Analysis.TableData = merged
		next.HasUnsavedChanges = true
		return next

	case UpdateColumnResult:
		col := TableColumn{Header: act.Header, Cells: []TableCell{act.Cell}}
		merged, changed := mergeColumns(s.Analysis.TableData, []TableColumn{col})
		if !changed {
			return s
		}
		next := s
		next.Analysis = cloneAnalysis(s.Analysis)
		next.Analysis.TableData = merged
		next.HasUnsavedChanges = true
		return next

	case UpdateColumnInfo:
		return reduceUpdateColumnInfo(s, act)

	case SetProcessingColumns:
		next := s
		next.Analysis = cloneAnalysis(s.Analysis)
		next.Analysis.ProcessingColumns = append([]string{}, act.Names...)
		return next

	case UpdateDocumentStatus:
		doc, ok := s.Documents[act.ID]
		if !ok {
			return s
		}
		next := s
		next.Documents = cloneDocuments(s.Documents)
		doc.Status = act.Status
		next.Documents[act.ID] = doc
		return next

	case SetRecentProjects:
		next := s
		next.RecentProjects = append([]Project{}, act.Projects...)
		return next

	case MarkSaved:
		next := s
		next.HasUnsavedChanges = false
		return next
	}

	return s
}

func reduceSetCurrentProject(s State, act SetCurrentProject) State {
	next := s
	p := act.Project
	next.CurrentProject = &p

	// Same project: refresh the project object only, so a redundant
	// selection does not wipe documents, messages or analysis.
	if s.CurrentProject != nil && s.CurrentProject.ID == act.Project.ID {
		return next
	}

	// Project isolation: everything scoped to the previous project is
	// reset. Recent projects persist across switches.
	next.Documents = map[string]Document{}
	next.Messages = []Message{}
	next.Analysis = NewAnalysis()
	next.HasUnsavedChanges = false
	return next
}

func reduceAddDocuments(s State, act AddDocuments) State {
	if len(act.Documents) == 0 {
		return s
	}

	next := s
	next.Documents = cloneDocuments(s.Documents)
	for _, doc := range act.Documents {
		if doc.ID == "" {
			continue
		}
		next.Documents[doc.ID] = doc
	}

	// Extend the selection with incoming ids via set union; the selection
	// never shrinks here. Only documents of the current project are added
	// so the selection stays a subset of the project's documents.
	next.Analysis = cloneAnalysis(s.Analysis)
	selected := make(map[string]bool, len(next.Analysis.SelectedDocumentIDs))
	for _, id := range next.Analysis.SelectedDocumentIDs {
		selected[id] = true
	}
	currentID := s.CurrentProjectID()
	for _, doc := range act.Documents {
		if doc.ID == "" || selected[doc.ID] {
			continue
		}
		if doc.ProjectID != currentID {
			continue
		}
		next.Analysis.SelectedDocumentIDs = append(next.Analysis.SelectedDocumentIDs, doc.ID)
		selected[doc.ID] = true
	}

	next.HasUnsavedChanges = true
	return next
}

func reduceSelectDocuments(s State, act SelectDocuments) State {
	next := s
	next.Analysis = cloneAnalysis(s.Analysis)

	// Cross-project ids are dropped silently; callers rely on the
	// filtering rather than an error.
	currentID := s.CurrentProjectID()
	filtered := make([]string, 0, len(act.IDs))
	seen := make(map[string]bool, len(act.IDs))
	for _, id := range act.IDs {
		if seen[id] {
			continue
		}
		doc, ok := s.Documents[id]
		if !ok || doc.ProjectID != currentID {
			continue
		}
		filtered = append(filtered, id)
		seen[id] = true
	}

	next.Analysis.SelectedDocumentIDs = filtered
	next.HasUnsavedChanges = true
	return next
}

func reduceSetMode(s State, act SetMode) State {
	if act.Mode != ModeChat && act.Mode != ModeTable {
		return s
	}

	next := s
	next.Analysis = cloneAnalysis(s.Analysis)
	next.Analysis.Mode = act.Mode

	// Entering table mode defaults the selection to every document of
	// the current project. Leaving it preserves whatever was selected.
	if act.Mode == ModeTable {
		currentID := s.CurrentProjectID()
		selected := make([]string, 0, len(s.Documents))
		for id, doc := range s.Documents {
			if doc.ProjectID == currentID {
				selected = append(selected, id)
			}
		}
		sort.Strings(selected)
		next.Analysis.SelectedDocumentIDs = selected
	}

	next.HasUnsavedChanges = true
	return next
}

func reduceUpdateColumnInfo(s State, act UpdateColumnInfo) State {
	if act.OldName == "" || act.NewName == "" {
		return s
	}

	found := false
	for _, name := range s.Analysis.Columns {
		if name == act.OldName {
			found = true
			break
		}
	}
	if !found {
		return s
	}

	// Headers stay unique: renaming onto an existing column would leave
	// duplicate headers and clobber that column's prompt.
	if act.NewName != act.OldName {
		for _, name := range s.Analysis.Columns {
			if name == act.NewName {
				return s
			}
		}
	}

	next := s
	next.Analysis = cloneAnalysis(s.Analysis)

	for i, name := range next.Analysis.Columns {
		if name == act.OldName {
			next.Analysis.Columns[i] = act.NewName
		}
	}

	rekey(next.Analysis.ColumnPrompts, act.OldName, act.NewName)
	rekey(next.Analysis.OriginalPrompts, act.OldName, act.NewName)
	if act.Prompt != "" {
		next.Analysis.ColumnPrompts[act.NewName] = act.Prompt
	}

	// Keep the table headers in sync with the ordered column list.
	for i := range next.Analysis.TableData.Columns {
		if next.Analysis.TableData.Columns[i].Header.Name == act.OldName {
			next.Analysis.TableData.Columns[i].Header.Name = act.NewName
			if act.Prompt != "" {
				next.Analysis.TableData.Columns[i].Header.Prompt = act.Prompt
			}
		}
	}

	next.HasUnsavedChanges = true
	return next
}

func rekey(m map[string]string, oldKey, newKey string) {
	if v, ok := m[oldKey]; ok {
		delete(m, oldKey)
		m[newKey] = v
	}
}

func cloneDocuments(in map[string]Document) map[string]Document {
	out := make(map[string]Document, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneMessages(in []Message) []Message {
	return append([]Message{}, in...)
}

func cloneAnalysis(in Analysis) Analysis {
	out := in
	out.Columns = append([]string{}, in.Columns...)
	out.SelectedDocumentIDs = append([]string{}, in.SelectedDocumentIDs...)
	out.ProcessingColumns = append([]string{}, in.ProcessingColumns...)
	out.ColumnPrompts = make(map[string]string, len(in.ColumnPrompts))
	for k, v := range in.ColumnPrompts {
		out.ColumnPrompts[k] = v
	}
	out.OriginalPrompts = make(map[string]string, len(in.OriginalPrompts))
	for k, v := range in.OriginalPrompts {
		out.OriginalPrompts[k] = v
	}
	out.TableData = cloneTableData(in.TableData)
	return out
}

func cloneTableData(in TableData) TableData {
	out := TableData{Columns: make([]TableColumn, len(in.Columns))}
	for i, col := range in.Columns {
		out.Columns[i] = TableColumn{
			Header: col.Header,
			Cells:  append([]TableCell{}, col.Cells...),
		}
	}
	return out
}
