package service

import (
	"testing"

	"doceasy-be/internal/dto"
	"doceasy-be/pkg/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToActionMapsVariants(t *testing.T) {
	cases := []struct {
		req  dto.DispatchRequest
		want workspace.Action
	}{
		{dto.DispatchRequest{Type: "SET_INITIAL_STATE"}, workspace.SetInitialState{}},
		{dto.DispatchRequest{Type: "CLEAR_MESSAGES"}, workspace.ClearMessages{}},
		{dto.DispatchRequest{Type: "SET_MODE", Mode: "table"}, workspace.SetMode{Mode: "table"}},
		{
			dto.DispatchRequest{Type: "SELECT_DOCUMENTS", IDs: []string{"d1", "d2"}},
			workspace.SelectDocuments{IDs: []string{"d1", "d2"}},
		},
		{
			dto.DispatchRequest{Type: "UPDATE_DOCUMENT_STATUS", DocumentID: "d1", Status: "COMPLETED"},
			workspace.UpdateDocumentStatus{ID: "d1", Status: "COMPLETED"},
		},
		{
			dto.DispatchRequest{Type: "UPDATE_COLUMN_INFO", OldName: "a", NewName: "b", Prompt: "p"},
			workspace.UpdateColumnInfo{OldName: "a", NewName: "b", Prompt: "p"},
		},
		{
			dto.DispatchRequest{
				Type:   "UPDATE_COLUMN_RESULT",
				Header: &workspace.ColumnHeader{Name: "Revenue", Prompt: "total revenue"},
				Cell:   &workspace.TableCell{DocID: "d1", Content: "42"},
			},
			workspace.UpdateColumnResult{
				Header: workspace.ColumnHeader{Name: "Revenue", Prompt: "total revenue"},
				Cell:   workspace.TableCell{DocID: "d1", Content: "42"},
			},
		},
		{dto.DispatchRequest{Type: "MARK_SAVED"}, workspace.MarkSaved{}},
	}

	for _, tc := range cases {
		got, err := toAction(&tc.req)
		require.NoError(t, err, tc.req.Type)
		assert.Equal(t, tc.want, got, tc.req.Type)
	}
}

func TestToActionRejectsUnknownType(t *testing.T) {
	_, err := toAction(&dto.DispatchRequest{Type: "REBOOT_UNIVERSE"})
	assert.Error(t, err)
}

func TestToActionRequiresPayload(t *testing.T) {
	_, err := toAction(&dto.DispatchRequest{Type: "SET_CURRENT_PROJECT"})
	assert.Error(t, err)

	_, err = toAction(&dto.DispatchRequest{Type: "ADD_MESSAGE"})
	assert.Error(t, err)

	_, err = toAction(&dto.DispatchRequest{Type: "UPDATE_COLUMN_RESULT"})
	assert.Error(t, err)
}

func TestToActionCarriesProjectPayload(t *testing.T) {
	p := workspace.Project{ID: "p1", Name: "Reports"}
	got, err := toAction(&dto.DispatchRequest{Type: "SET_CURRENT_PROJECT", Project: &p})
	require.NoError(t, err)
	assert.Equal(t, workspace.SetCurrentProject{Project: p}, got)
}
