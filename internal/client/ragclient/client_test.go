package ragclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTableSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/rag/table/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req TableSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ProjectID != "p1" || len(req.DocumentIDs) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"columns": []map[string]interface{}{
				{
					"header": map[string]string{"name": "Revenue", "prompt": "extract revenue"},
					"cells":  []map[string]string{{"doc_id": "d1", "content": "42"}},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewRagClient(srv.URL, 5*time.Second)
	res, err := c.TableSearch(context.Background(), &TableSearchRequest{
		ProjectID:   "p1",
		DocumentIDs: []string{"d1", "d2"},
		Prompts:     map[string]string{"Revenue": "extract revenue"},
	})
	if err != nil {
		t.Fatalf("table search: %v", err)
	}
	if len(res.Columns) != 1 || res.Columns[0].Header.Name != "Revenue" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRagClient(srv.URL, 5*time.Second)
	_, err := c.Chat(context.Background(), &ChatRequest{ProjectID: "p1", Question: "hi"})
	if err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
