package dto

import (
	"time"

	"doceasy-be/pkg/workspace"
)

// DispatchRequest carries one state action over the wire. Type selects the
// action variant, the payload fields are read per variant.
type DispatchRequest struct {
	Type string `json:"type" validate:"required"`

	Project   *workspace.Project      `json:"project,omitempty"`
	Projects  []workspace.Project     `json:"projects,omitempty"`
	Documents []workspace.Document    `json:"documents,omitempty"`
	Message   *workspace.Message      `json:"message,omitempty"`
	Columns   []workspace.TableColumn `json:"columns,omitempty"`
	Header    *workspace.ColumnHeader `json:"header,omitempty"`
	Cell      *workspace.TableCell    `json:"cell,omitempty"`

	IDs        []string `json:"ids,omitempty"`
	Mode       string   `json:"mode,omitempty"`
	DocumentID string   `json:"document_id,omitempty"`
	Status     string   `json:"status,omitempty"`
	OldName    string   `json:"old_name,omitempty"`
	NewName    string   `json:"new_name,omitempty"`
	Prompt     string   `json:"prompt,omitempty"`
	Names      []string `json:"names,omitempty"`
}

type WorkspaceStateResponse struct {
	State workspace.State `json:"state"`
	Epoch uint64          `json:"epoch"`
}

type SaveStateResponse struct {
	ProjectID string    `json:"project_id"`
	SavedAt   time.Time `json:"saved_at"`
}
