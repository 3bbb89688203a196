package workspace

// Action is the closed set of workspace state transitions. Each variant
// carries a fully-typed payload; the reducer treats anything outside
// this set as a no-op.
type Action interface {
	isAction()
}

// SetInitialState resets the whole workspace (logout / new session).
type SetInitialState struct{}

// SetCurrentProject switches the active project. Switching to the same
// project id only refreshes the project object; switching to a different
// id resets documents, messages and analysis.
type SetCurrentProject struct {
	Project Project
}

// AddDocuments merges incoming documents into the documents map keyed by
// id (last write wins) and extends the selection with the ids that belong
// to the current project.
type AddDocuments struct {
	Documents []Document
}

// SelectDocuments replaces the selection with the requested ids, filtered
// down to documents owned by the current project. Cross-project ids are
// dropped silently.
type SelectDocuments struct {
	IDs []string
}

// AddMessage appends a chat message.
type AddMessage struct {
	Message Message
}

// ClearMessages empties the chat log of the current project.
type ClearMessages struct{}

// SetMode switches between chat and table analysis. Entering table mode
// auto-selects every document of the current project; leaving it keeps
// the selection as-is.
type SetMode struct {
	Mode string
}

// UpdateTableData merges a server-returned partial column set into the
// existing table.
type UpdateTableData struct {
	Columns []TableColumn
}

// UpdateColumnResult is the incremental one-column variant of
// UpdateTableData, used when analysis results arrive per document.
type UpdateColumnResult struct {
	Header ColumnHeader
	Cell   TableCell
}

// UpdateColumnInfo renames a column and re-keys its prompt maps. The
// rename is applied to the table headers as well so the ordered column
// list and the table stay consistent.
type UpdateColumnInfo struct {
	OldName string
	NewName string
	Prompt  string
}

// SetProcessingColumns replaces the set of columns currently being
// computed by the analysis backend.
type SetProcessingColumns struct {
	Names []string
}

// UpdateDocumentStatus reflects a server-pushed status transition.
type UpdateDocumentStatus struct {
	ID     string
	Status string
}

// SetRecentProjects replaces the recent-project list. The list survives
// project switches and full resets triggered by SetCurrentProject.
type SetRecentProjects struct {
	Projects []Project
}

// MarkSaved clears the dirty flag after a successful autosave.
type MarkSaved struct{}

func (SetInitialState) isAction()      {}
func (SetCurrentProject) isAction()    {}
func (AddDocuments) isAction()         {}
func (SelectDocuments) isAction()      {}
func (AddMessage) isAction()           {}
func (ClearMessages) isAction()        {}
func (SetMode) isAction()              {}
func (UpdateTableData) isAction()      {}
func (UpdateColumnResult) isAction()   {}
func (UpdateColumnInfo) isAction()     {}
func (SetProcessingColumns) isAction() {}
func (UpdateDocumentStatus) isAction() {}
func (SetRecentProjects) isAction()    {}
func (MarkSaved) isAction()            {}
