package dto

import "doceasy-be/pkg/workspace"

type TableSearchRequest struct {
	ProjectId   string   `json:"project_id" validate:"required"`
	Prompt      string   `json:"prompt" validate:"required"`
	ColumnName  string   `json:"column_name"`
	DocumentIds []string `json:"document_ids"`
}

type TableSearchResponse struct {
	Columns []workspace.TableColumn `json:"columns"`
}

type ChatRequest struct {
	ProjectId   string   `json:"project_id" validate:"required"`
	Question    string   `json:"question" validate:"required"`
	DocumentIds []string `json:"document_ids"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}
