package store

import (
	"database/sql"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestKV_PutGetDelete(t *testing.T) {
	store := setupTestStore(t)

	if _, ok, err := store.GetValue("missing"); err != nil || ok {
		t.Fatalf("GetValue(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := store.PutValue("k", "v1"); err != nil {
		t.Fatalf("PutValue: %v", err)
	}
	if v, ok, err := store.GetValue("k"); err != nil || !ok || v != "v1" {
		t.Fatalf("GetValue = %q ok=%v err=%v, want v1", v, ok, err)
	}

	// Overwrite is unconditional.
	if err := store.PutValue("k", "v2"); err != nil {
		t.Fatalf("PutValue overwrite: %v", err)
	}
	if v, _, _ := store.GetValue("k"); v != "v2" {
		t.Fatalf("GetValue after overwrite = %q, want v2", v)
	}

	if err := store.DeleteValue("k"); err != nil {
		t.Fatalf("DeleteValue: %v", err)
	}
	if _, ok, _ := store.GetValue("k"); ok {
		t.Fatal("GetValue after delete should be absent")
	}

	// Deleting a missing key is not an error.
	if err := store.DeleteValue("k"); err != nil {
		t.Fatalf("DeleteValue missing: %v", err)
	}
}

func TestPreferences_Defaults(t *testing.T) {
	store := setupTestStore(t)

	prefs, err := store.Preferences()
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if prefs.Unit != models.UnitCelsius {
		t.Errorf("Unit = %s, want celsius", prefs.Unit)
	}
	if prefs.Theme != models.ThemeLight {
		t.Errorf("Theme = %s, want light", prefs.Theme)
	}
	if prefs.LastCity != "" {
		t.Errorf("LastCity = %q, want empty", prefs.LastCity)
	}
}

func TestPreferences_SaveAndLoad(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveLastCity("London"); err != nil {
		t.Fatalf("SaveLastCity: %v", err)
	}
	if err := store.SaveUnit(models.UnitFahrenheit); err != nil {
		t.Fatalf("SaveUnit: %v", err)
	}
	if err := store.SaveTheme(models.ThemeDark); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}

	prefs, err := store.Preferences()
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if prefs.LastCity != "London" {
		t.Errorf("LastCity = %q, want London", prefs.LastCity)
	}
	if prefs.Unit != models.UnitFahrenheit {
		t.Errorf("Unit = %s, want fahrenheit", prefs.Unit)
	}
	if prefs.Theme != models.ThemeDark {
		t.Errorf("Theme = %s, want dark", prefs.Theme)
	}
}

func TestFavorites(t *testing.T) {
	store := setupTestStore(t)

	for _, city := range []string{"London", "Paris", "Tokyo"} {
		if err := store.AddFavorite(city); err != nil {
			t.Fatalf("AddFavorite(%s): %v", city, err)
		}
	}

	// Duplicate add keeps the original position.
	if err := store.AddFavorite("London"); err != nil {
		t.Fatalf("AddFavorite duplicate: %v", err)
	}

	favorites, err := store.Favorites()
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	want := []string{"London", "Paris", "Tokyo"}
	if len(favorites) != len(want) {
		t.Fatalf("len = %d, want %d", len(favorites), len(want))
	}
	for i := range want {
		if favorites[i] != want[i] {
			t.Errorf("favorites[%d] = %q, want %q", i, favorites[i], want[i])
		}
	}

	if ok, _ := store.IsFavorite("Paris"); !ok {
		t.Error("IsFavorite(Paris) = false, want true")
	}

	if err := store.RemoveFavorite("Paris"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if ok, _ := store.IsFavorite("Paris"); ok {
		t.Error("IsFavorite(Paris) after remove = true, want false")
	}
}

func TestSearchHistory_MoveToFront(t *testing.T) {
	store := setupTestStore(t)

	for _, city := range []string{"London", "Paris", "Tokyo"} {
		if err := store.AddSearch(city); err != nil {
			t.Fatalf("AddSearch(%s): %v", city, err)
		}
	}
	// Re-searching London moves it to the front.
	if err := store.AddSearch("London"); err != nil {
		t.Fatalf("AddSearch repeat: %v", err)
	}

	history, err := store.SearchHistory()
	if err != nil {
		t.Fatalf("SearchHistory: %v", err)
	}
	want := []string{"London", "Tokyo", "Paris"}
	if len(history) != len(want) {
		t.Fatalf("len = %d, want %d", len(history), len(want))
	}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, history[i], want[i])
		}
	}
}

func TestSearchHistory_Cap(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 15; i++ {
		if err := store.AddSearch(fmt.Sprintf("City%02d", i)); err != nil {
			t.Fatalf("AddSearch: %v", err)
		}
	}

	history, err := store.SearchHistory()
	if err != nil {
		t.Fatalf("SearchHistory: %v", err)
	}
	if len(history) != 10 {
		t.Fatalf("len = %d, want 10", len(history))
	}
	if history[0] != "City14" {
		t.Errorf("history[0] = %q, want City14", history[0])
	}
	if history[9] != "City05" {
		t.Errorf("history[9] = %q, want City05", history[9])
	}
}

func TestSearchHistory_Clear(t *testing.T) {
	store := setupTestStore(t)

	if err := store.AddSearch("London"); err != nil {
		t.Fatalf("AddSearch: %v", err)
	}
	if err := store.ClearSearchHistory(); err != nil {
		t.Fatalf("ClearSearchHistory: %v", err)
	}
	history, err := store.SearchHistory()
	if err != nil {
		t.Fatalf("SearchHistory: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("len = %d, want 0", len(history))
	}
}
