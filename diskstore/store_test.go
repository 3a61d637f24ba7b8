package diskstore

import (
	"path/filepath"
	"reflect"
	"testing"

	ofc "github.com/timpalpant/go-ofc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nodes.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	regrets := []float64{1.25, -3, 0}
	strats := []float64{0.5, 0.5, 0}
	if err := store.Put("some|key", regrets, strats); err != nil {
		t.Fatalf("Put: %v", err)
	}

	gotR, gotS, err := store.Get("some|key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(gotR, regrets) || !reflect.DeepEqual(gotS, strats) {
		t.Errorf("Get = (%v, %v), expected (%v, %v)", gotR, gotS, regrets, strats)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)
	r, s, err := store.Get("absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r != nil || s != nil {
		t.Errorf("Get(absent) = (%v, %v), expected nils", r, s)
	}
}

func TestSaveLoadSolver(t *testing.T) {
	store := openTestStore(t)

	src := ofc.NewSolver(ofc.Params{})
	for key, vecs := range map[string][2][]float64{
		"a": {{1, 2}, {3, 4}},
		"b": {{-1, 0, 5}, {0.5, 0.25, 0.25}},
	} {
		if err := src.SetNode(key, vecs[0], vecs[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := Save(store, src); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := ofc.NewSolver(ofc.Params{})
	if err := Load(store, dst); err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := make(map[string][2][]float64)
	src.EachNode(func(key string, r, s []float64) bool {
		want[key] = [2][]float64{r, s}
		return true
	})
	got := make(map[string][2][]float64)
	dst.EachNode(func(key string, r, s []float64) bool {
		got[key] = [2][]float64{r, s}
		return true
	})
	if !reflect.DeepEqual(want, got) {
		t.Errorf("store round trip changed the table")
	}
}
