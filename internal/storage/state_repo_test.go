package storage

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

func TestRunStateRepo_FreshDatabase(t *testing.T) {
	repo := NewRunStateRepo(newTestDB(t))

	state, err := repo.GetRunState(context.Background())
	if err != nil {
		t.Fatalf("GetRunState() error = %v", err)
	}
	if state.InProgress || state.Total != 0 || state.Completed != 0 {
		t.Errorf("GetRunState() = %+v, want zero state", state)
	}
}

func TestRunStateRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRunStateRepo(newTestDB(t))

	if err := repo.StartRun(ctx, 23); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	state, err := repo.GetRunState(ctx)
	if err != nil {
		t.Fatalf("GetRunState() error = %v", err)
	}
	if !state.InProgress || state.Total != 23 || state.Completed != 0 {
		t.Errorf("after StartRun state = %+v", state)
	}
	if state.UpdatedAt.IsZero() {
		t.Error("after StartRun UpdatedAt is zero")
	}

	for _, n := range []int{10, 20, 23} {
		if err := repo.SetCompleted(ctx, n); err != nil {
			t.Fatalf("SetCompleted(%d) error = %v", n, err)
		}
	}
	if err := repo.FinishRun(ctx); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	state, err = repo.GetRunState(ctx)
	if err != nil {
		t.Fatalf("GetRunState() error = %v", err)
	}
	if state.InProgress {
		t.Error("after FinishRun InProgress = true")
	}
	if state.Total != 23 || state.Completed != 23 {
		t.Errorf("after FinishRun counters = %d/%d, want 23/23", state.Completed, state.Total)
	}
}

func TestRunStateRepo_StartRunResetsCounter(t *testing.T) {
	ctx := context.Background()
	repo := NewRunStateRepo(newTestDB(t))

	if err := repo.StartRun(ctx, 5); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if err := repo.SetCompleted(ctx, 5); err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}
	if err := repo.StartRun(ctx, 7); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	state, err := repo.GetRunState(ctx)
	if err != nil {
		t.Fatalf("GetRunState() error = %v", err)
	}
	if state.Total != 7 || state.Completed != 0 {
		t.Errorf("state = %+v, want total 7 completed 0", state)
	}
}

func TestRunStateRepo_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewRunStateRepo(newTestDB(t))

	if err := repo.StartRun(ctx, 50); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := repo.SetCompleted(ctx, n); err != nil {
				t.Errorf("SetCompleted(%d) error = %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	state, err := repo.GetRunState(ctx)
	if err != nil {
		t.Fatalf("GetRunState() error = %v", err)
	}
	if state.Completed < 1 || state.Completed > 50 {
		t.Errorf("Completed = %d, want within [1, 50]", state.Completed)
	}
}

func TestRunState_JSONNames(t *testing.T) {
	data, err := json.Marshal(RunState{InProgress: true, Total: 3, Completed: 1})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"indexingInProgress":true,"bookmarksLength":3,"bookmarksCounter":1}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
