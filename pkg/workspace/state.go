package workspace

import "time"

// Document status lifecycle. Transitions are server-driven: the state
// machine only reflects the status pushed by the processing pipeline.
const (
	StatusUploading  = "UPLOADING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Analysis modes
const (
	ModeChat  = "chat"
	ModeTable = "table"
)

// AnchorColumnName is the pseudo-column that anchors row identity.
// Every other column's cells are aligned to the doc ids listed here.
const AnchorColumnName = "Document"

// Project is a user's document/analysis workspace.
type Project struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	IsTemporary     bool       `json:"is_temporary"`
	RetentionPeriod string     `json:"retention_period"`
	CategoryID      string     `json:"category_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Document is an uploaded file belonging to exactly one project.
type Document struct {
	ID              string `json:"id"`
	Filename        string `json:"filename"`
	ProjectID       string `json:"project_id"`
	Status          string `json:"status"`
	ContentType     string `json:"content_type,omitempty"`
	AddedColContext string `json:"added_col_context,omitempty"`
}

// Message is a single chat entry, append-only and scoped to the
// current project.
type Message struct {
	ID        string     `json:"id,omitempty"`
	Role      string     `json:"role"` // "user" | "assistant"
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type ColumnHeader struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt,omitempty"`
}

type TableCell struct {
	DocID   string `json:"doc_id"`
	Content string `json:"content"`
}

type TableColumn struct {
	Header ColumnHeader `json:"header"`
	Cells  []TableCell  `json:"cells"`
}

type TableData struct {
	Columns []TableColumn `json:"columns"`
}

// Analysis holds the chat/table view state over the current project's
// documents.
type Analysis struct {
	Mode                string            `json:"mode"`
	Columns             []string          `json:"columns"`
	ColumnPrompts       map[string]string `json:"column_prompts"`
	OriginalPrompts     map[string]string `json:"original_prompts"`
	TableData           TableData         `json:"table_data"`
	SelectedDocumentIDs []string          `json:"selected_document_ids"`
	ProcessingColumns   []string          `json:"processing_columns"`
}

// State is the full view-state of one project workspace. It is a value:
// Reduce returns a new State and never mutates its input.
type State struct {
	CurrentProject    *Project            `json:"current_project"`
	Documents         map[string]Document `json:"documents"`
	Messages          []Message           `json:"messages"`
	Analysis          Analysis            `json:"analysis"`
	RecentProjects    []Project           `json:"recent_projects"`
	HasUnsavedChanges bool                `json:"has_unsaved_changes"`
}

// NewState returns the initial workspace state.
func NewState() State {
	return State{
		Documents: map[string]Document{},
		Messages:  []Message{},
		Analysis:  NewAnalysis(),
	}
}

// NewAnalysis returns the initial analysis slice of the state. Used both
// at session start and on project switch.
func NewAnalysis() Analysis {
	return Analysis{
		Mode:                ModeChat,
		Columns:             []string{},
		ColumnPrompts:       map[string]string{},
		OriginalPrompts:     map[string]string{},
		TableData:           TableData{Columns: []TableColumn{}},
		SelectedDocumentIDs: []string{},
		ProcessingColumns:   []string{},
	}
}

// CurrentProjectID returns the id of the active project, or "" when no
// project is selected.
func (s State) CurrentProjectID() string {
	if s.CurrentProject == nil {
		return ""
	}
	return s.CurrentProject.ID
}
