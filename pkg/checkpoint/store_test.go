package checkpoint

import (
	"testing"

	"github.com/gilchrisn/sbm-block-inference/pkg/sbm"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer store.Close()

	dump := sbm.StateDump{
		IDs:     []string{"a", "b"},
		Types:   []int{0, 0},
		Parents: []string{"x-1_0", "x-1_0"},
		Levels:  []int{0, 0},
	}

	if err := store.Save(0, dump); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.IDs) != len(dump.IDs) {
		t.Fatalf("loaded %d ids, want %d", len(got.IDs), len(dump.IDs))
	}
	for i := range dump.IDs {
		if got.IDs[i] != dump.IDs[i] || got.Types[i] != dump.Types[i] ||
			got.Parents[i] != dump.Parents[i] || got.Levels[i] != dump.Levels[i] {
			t.Fatalf("entry %d mismatch: got %+v, want %+v", i, got, dump)
		}
	}
}

func TestLoadMissingStepFails(t *testing.T) {
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(0); err == nil {
		t.Fatal("expected error loading a step that was never saved")
	}
}

func TestLatestStepTracksHighestSaved(t *testing.T) {
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer store.Close()

	latest, err := store.LatestStep()
	if err != nil {
		t.Fatal(err)
	}
	if latest != -1 {
		t.Fatalf("latest step on empty store = %d, want -1", latest)
	}

	dump := sbm.StateDump{IDs: []string{"a"}, Types: []int{0}, Parents: []string{""}, Levels: []int{0}}
	for _, step := range []int{0, 3, 1} {
		if err := store.Save(step, dump); err != nil {
			t.Fatalf("save step %d: %v", step, err)
		}
	}

	latest, err = store.LatestStep()
	if err != nil {
		t.Fatal(err)
	}
	if latest != 3 {
		t.Fatalf("latest step = %d, want 3", latest)
	}
}

func TestStoresWithDifferentRunIDsDoNotCollide(t *testing.T) {
	a, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.RunID() == b.RunID() {
		t.Fatal("expected distinct run ids across separate stores")
	}
}
