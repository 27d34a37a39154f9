package tasks

import (
	"errors"
	"testing"
)

func TestMemStoreCRUD(t *testing.T) {
	store := NewMemStore()

	task := &Task{ToolType: "chart_data_generator"}
	if err := store.Create(task); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated task ID")
	}
	if task.Status != StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}

	got, err := store.Get(task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ToolType != "chart_data_generator" {
		t.Fatalf("unexpected tool type: %s", got.ToolType)
	}

	// Returned tasks are copies.
	got.ToolType = "mutated"
	again, _ := store.Get(task.ID)
	if again.ToolType != "chart_data_generator" {
		t.Fatal("store leaked internal state")
	}

	if err := store.Delete(task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestMemStoreDuplicateID(t *testing.T) {
	store := NewMemStore()
	if err := store.Create(&Task{ID: "t1", ToolType: "ppt"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(&Task{ID: "t1", ToolType: "ppt"}); err == nil {
		t.Fatal("expected duplicate ID error")
	}
}

func TestTerminalStatusIsSticky(t *testing.T) {
	store := NewMemStore()
	if err := store.Create(&Task{ID: "t1", ToolType: "ppt"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.SetStatus("t1", StatusRunning, nil, ""); err != nil {
		t.Fatalf("SetStatus running: %v", err)
	}
	if _, err := store.SetStatus("t1", StatusCancelled, nil, ""); err != nil {
		t.Fatalf("SetStatus cancelled: %v", err)
	}

	// A late completion must not overwrite the cancellation.
	got, err := store.SetStatus("t1", StatusCompleted, map[string]any{"x": 1}, "")
	if !errors.Is(err, ErrStatusFinal) {
		t.Fatalf("expected ErrStatusFinal, got %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status changed despite terminal guard: %s", got.Status)
	}

	final, _ := store.Get("t1")
	if final.Status != StatusCancelled || final.Result != nil {
		t.Fatalf("terminal state mutated: %+v", final)
	}

	// Re-setting the same terminal status is also rejected, so a repeated
	// cancel cannot bump UpdatedAt.
	repeat, err := store.SetStatus("t1", StatusCancelled, nil, "")
	if !errors.Is(err, ErrStatusFinal) {
		t.Fatalf("expected ErrStatusFinal on repeat, got %v", err)
	}
	if !repeat.UpdatedAt.Equal(final.UpdatedAt) {
		t.Fatalf("repeat transition bumped UpdatedAt: %v -> %v", final.UpdatedAt, repeat.UpdatedAt)
	}
}
