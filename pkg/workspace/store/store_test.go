package store

import (
	"sync"
	"testing"

	"doceasy-be/pkg/workspace"
)

func TestDispatchAtDropsStaleResults(t *testing.T) {
	s := New()
	s.Dispatch(workspace.SetCurrentProject{Project: workspace.Project{ID: "p1", Name: "P1"}})

	// An async operation captures the epoch before starting.
	epoch := s.Epoch()

	// The user navigates away before the response lands.
	s.Dispatch(workspace.SetCurrentProject{Project: workspace.Project{ID: "p2", Name: "P2"}})

	_, applied := s.DispatchAt(epoch, workspace.AddDocuments{Documents: []workspace.Document{
		{ID: "d1", ProjectID: "p1", Filename: "stale.pdf"},
	}})
	if applied {
		t.Fatal("stale result must be dropped after project switch")
	}
	if len(s.State().Documents) != 0 {
		t.Errorf("stale result leaked into state: %+v", s.State().Documents)
	}

	// A fresh epoch applies normally.
	_, applied = s.DispatchAt(s.Epoch(), workspace.AddDocuments{Documents: []workspace.Document{
		{ID: "d2", ProjectID: "p2", Filename: "fresh.pdf"},
	}})
	if !applied {
		t.Fatal("current-epoch dispatch must apply")
	}
}

func TestSameProjectSwitchKeepsEpoch(t *testing.T) {
	s := New()
	s.Dispatch(workspace.SetCurrentProject{Project: workspace.Project{ID: "p1"}})
	epoch := s.Epoch()

	s.Dispatch(workspace.SetCurrentProject{Project: workspace.Project{ID: "p1", Name: "Renamed"}})
	if s.Epoch() != epoch {
		t.Error("re-selecting the same project must not invalidate in-flight work")
	}

	s.Dispatch(workspace.SetInitialState{})
	if s.Epoch() == epoch {
		t.Error("full reset must bump the epoch")
	}
}

func TestSubscriberSeesEveryChange(t *testing.T) {
	s := New()
	var got []workspace.State
	s.Subscribe(func(st workspace.State) { got = append(got, st) })

	s.Dispatch(workspace.SetCurrentProject{Project: workspace.Project{ID: "p1"}})
	s.Dispatch(workspace.AddMessage{Message: workspace.Message{Role: "user", Content: "hi"}})

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if !got[1].HasUnsavedChanges {
		t.Error("subscriber should observe the dirty flag")
	}
}

func TestConcurrentDispatch(t *testing.T) {
	s := New()
	s.Dispatch(workspace.SetCurrentProject{Project: workspace.Project{ID: "p1"}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Dispatch(workspace.AddMessage{Message: workspace.Message{Role: "user", Content: "m"}})
			_ = s.State()
		}(i)
	}
	wg.Wait()

	if len(s.State().Messages) != 16 {
		t.Errorf("expected 16 messages, got %d", len(s.State().Messages))
	}
}
