package tasks

import (
	"errors"
	"testing"
)

// memPersister records saves and can be told to fail.
type memPersister struct {
	saved   []Task
	saves   int
	loadErr error
	saveErr error
	initial []Task
}

func (m *memPersister) Load() ([]Task, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.initial, nil
}

func (m *memPersister) Save(tasks []Task) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]Task(nil), tasks...)
	return nil
}

func validFields(title string) Fields {
	f := DefaultFields()
	f.Title = title
	return f
}

func TestStore_AddGet(t *testing.T) {
	p := &memPersister{}
	store := NewStore(p)

	fields := Fields{
		Title:      "Write report",
		Notes:      "quarterly numbers",
		Due:        "2024-03-01",
		Priority:   PriorityHigh,
		EstMinutes: 90,
		Status:     StatusInProgress,
	}
	id, err := store.Add(fields)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected first id 1, got %d", id)
	}

	got, ok := store.Get(id)
	if !ok {
		t.Fatal("Get returned absent for new task")
	}
	if got.Fields() != fields {
		t.Errorf("Expected fields %+v, got %+v", fields, got.Fields())
	}
	if p.saves != 1 {
		t.Errorf("Expected 1 save, got %d", p.saves)
	}
	if len(p.saved) != 1 || p.saved[0].ID != id {
		t.Errorf("Expected saved snapshot with task %d, got %+v", id, p.saved)
	}
}

func TestStore_IDsNeverReused(t *testing.T) {
	store := NewStore(nil)

	seen := make(map[int]bool)
	for i := 0; i < 5; i++ {
		id, err := store.Add(validFields("task"))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
		if i%2 == 0 {
			if err := store.Delete(id); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
		}
	}
	id, _ := store.Add(validFields("after deletes"))
	if id != 6 {
		t.Errorf("Expected id 6 after five adds, got %d", id)
	}
}

func TestStore_AddValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		field  string
	}{
		{"empty title", validFields(""), "title"},
		{"blank title", validFields("   "), "title"},
		{"bad due", Fields{Title: "x", Due: "tomorrow", Priority: PriorityLow, EstMinutes: 5, Status: StatusTodo}, "due"},
		{"impossible date", Fields{Title: "x", Due: "2023-02-30", Priority: PriorityLow, EstMinutes: 5, Status: StatusTodo}, "due"},
		{"bad priority", Fields{Title: "x", Priority: "Urgent", EstMinutes: 5, Status: StatusTodo}, "priority"},
		{"zero estimate", Fields{Title: "x", Priority: PriorityLow, EstMinutes: 0, Status: StatusTodo}, "est_minutes"},
		{"bad status", Fields{Title: "x", Priority: PriorityLow, EstMinutes: 5, Status: "Blocked"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &memPersister{}
			store := NewStore(p)
			_, err := store.Add(tt.fields)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, verr.Field)
			}
			if store.Len() != 0 {
				t.Errorf("Expected no task inserted, got %d", store.Len())
			}
			if p.saves != 0 {
				t.Errorf("Expected no save on validation failure, got %d", p.saves)
			}
		})
	}
}

func TestStore_AddTrimsFields(t *testing.T) {
	store := NewStore(nil)
	f := validFields("  padded  ")
	f.Due = " 2024-01-02 "
	f.Notes = "\nnote\n"
	id, err := store.Add(f)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	got, _ := store.Get(id)
	if got.Title != "padded" || got.Due != "2024-01-02" || got.Notes != "note" {
		t.Errorf("Expected trimmed fields, got %+v", got)
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore(&memPersister{})
	id, _ := store.Add(validFields("Original"))

	updated := validFields("Updated")
	updated.Status = StatusDone
	updated.Due = "2025-12-31"
	if err := store.Update(id, updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := store.Get(id)
	if got.ID != id {
		t.Errorf("Update changed id: %d", got.ID)
	}
	if got.Title != "Updated" || got.Status != StatusDone || got.Due != "2025-12-31" {
		t.Errorf("Update did not replace fields: %+v", got)
	}

	if err := store.Update(id, validFields("")); err == nil {
		t.Error("Expected validation error for empty title")
	}
	got, _ = store.Get(id)
	if got.Title != "Updated" {
		t.Errorf("Failed update changed state: %+v", got)
	}
}

func TestStore_DeleteThenUpdate(t *testing.T) {
	store := NewStore(nil)
	id, _ := store.Add(validFields("Doomed"))

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Get(id); ok {
		t.Error("Expected task to be absent after delete")
	}

	var nf *NotFoundError
	if err := store.Update(id, validFields("again")); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError from Update, got %v", err)
	}
	if err := store.Delete(id); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError from Delete, got %v", err)
	}
	if err := store.MarkDone(id); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError from MarkDone, got %v", err)
	}
}

func TestStore_MarkDone(t *testing.T) {
	store := NewStore(nil)
	id, _ := store.Add(validFields("Finish me"))

	if err := store.MarkDone(id); err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}
	got, _ := store.Get(id)
	if got.Status != StatusDone {
		t.Errorf("Expected status Done, got %s", got.Status)
	}
	if got.Title != "Finish me" {
		t.Errorf("MarkDone changed title: %s", got.Title)
	}
}

func TestStore_SaveFailureKeepsMutation(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	store := NewStore(p)

	id, err := store.Add(validFields("Kept"))
	var serr *SaveError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected SaveError, got %v", err)
	}
	if _, ok := store.Get(id); !ok {
		t.Error("Expected in-memory task to survive a failed save")
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore(nil)
	id, _ := store.Add(validFields("Immutable"))

	got, _ := store.Get(id)
	got.Title = "changed"
	all := store.All()
	all[0].Title = "changed too"

	again, _ := store.Get(id)
	if again.Title != "Immutable" {
		t.Errorf("Store task was mutated through a copy: %s", again.Title)
	}
}

func TestOpen_NextIDFromLoaded(t *testing.T) {
	p := &memPersister{initial: []Task{
		{ID: 3, Title: "a", Priority: PriorityLow, EstMinutes: 5, Status: StatusTodo},
		{ID: 7, Title: "b", Priority: PriorityLow, EstMinutes: 5, Status: StatusTodo},
	}}
	store, err := Open(p)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, _ := store.Add(validFields("c"))
	if id != 8 {
		t.Errorf("Expected next id 8, got %d", id)
	}
	all := store.All()
	if len(all) != 3 || all[0].ID != 3 || all[1].ID != 7 || all[2].ID != 8 {
		t.Errorf("Expected insertion order 3,7,8, got %+v", all)
	}
}

func TestOpen_LoadErrorGivesEmptyStore(t *testing.T) {
	p := &memPersister{loadErr: errors.New("corrupt")}
	store, err := Open(p)
	if err == nil {
		t.Fatal("Expected load error")
	}
	if store == nil || store.Len() != 0 {
		t.Fatal("Expected usable empty store")
	}
	id, _ := store.Add(validFields("fresh"))
	if id != 1 {
		t.Errorf("Expected id 1, got %d", id)
	}
}

func TestOpen_DuplicateIDs(t *testing.T) {
	p := &memPersister{initial: []Task{
		{ID: 1, Title: "a", Priority: PriorityLow, EstMinutes: 5, Status: StatusTodo},
		{ID: 1, Title: "b", Priority: PriorityLow, EstMinutes: 5, Status: StatusTodo},
	}}
	store, err := Open(p)
	if err == nil {
		t.Fatal("Expected duplicate id error")
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d tasks", store.Len())
	}
}
