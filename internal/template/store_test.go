package template

import (
	"errors"
	"reflect"
	"testing"

	"github.com/SengHong/CertSend/internal/constant"
	"github.com/SengHong/CertSend/internal/storage"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func sampleTemplate() Template {
	return Template{
		Name:              "Team Award",
		ImageData:         []byte{0x89, 0x50, 0x4e, 0x47},
		OverlayText:       "Jane Doe",
		FontSizePx:        80,
		FontColor:         "#000000",
		YPositionPct:      50,
		FontFamily:        "Great Vibes",
		EmailSubject:      "Congratulations!",
		EmailBodyTemplate: "Hi {{name}},\n\nBest",
	}
}

func TestUpsertClampsStyleDomains(t *testing.T) {
	tests := []struct {
		name         string
		fontSizePx   int
		yPositionPct int
		wantSize     int
		wantY        int
	}{
		{"Below minimums", 3, -5, 10, 0},
		{"Above maximums", 500, 130, 300, 100},
		{"In range untouched", 80, 50, 80, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(storage.NewMemoryStore(), testLogger())

			tmpl := sampleTemplate()
			tmpl.FontSizePx = tt.fontSizePx
			tmpl.YPositionPct = tt.yPositionPct
			if err := store.Upsert(tmpl); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}

			stored, err := store.Get(tmpl.Name)
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if stored.FontSizePx != tt.wantSize {
				t.Errorf("expected fontSizePx %d, got %d", tt.wantSize, stored.FontSizePx)
			}
			if stored.YPositionPct != tt.wantY {
				t.Errorf("expected yPositionPct %d, got %d", tt.wantY, stored.YPositionPct)
			}
		})
	}
}

func TestUpsertRejectsInvalidTemplate(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), testLogger())

	tmpl := sampleTemplate()
	tmpl.Name = "  "
	if err := store.Upsert(tmpl); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("expected ErrInvalidTemplate for blank name, got %v", err)
	}

	tmpl = sampleTemplate()
	tmpl.FontColor = ""
	if err := store.Upsert(tmpl); !errors.Is(err, ErrInvalidTemplate) {
		t.Errorf("expected ErrInvalidTemplate for missing color, got %v", err)
	}

	if len(store.List()) != 0 {
		t.Error("invalid templates must never enter the store")
	}
}

func TestUpsertReplacesByName(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), testLogger())

	first := sampleTemplate()
	if err := store.Upsert(first); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	second := sampleTemplate()
	second.OverlayText = "John Smith"
	second.EmailSubject = ""
	if err := store.Upsert(second); err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}

	all := store.List()
	if len(all) != 1 {
		t.Fatalf("expected 1 template after replace, got %d", len(all))
	}
	// Full replace, no partial patch.
	if all[0].OverlayText != "John Smith" || all[0].EmailSubject != "" {
		t.Errorf("template was not fully replaced: %+v", all[0])
	}
}

func TestDeleteAndGet(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), testLogger())

	if err := store.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	tmpl := sampleTemplate()
	if err := store.Upsert(tmpl); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := store.Delete(tmpl.Name); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(tmpl.Name); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPersistenceMirrorsMutations(t *testing.T) {
	st := storage.NewMemoryStore()
	store := NewStore(st, testLogger())

	if err := store.Upsert(sampleTemplate()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// A fresh store over the same backend sees the committed mapping.
	reloaded := NewStore(st, testLogger())
	if !reflect.DeepEqual(reloaded.List(), store.List()) {
		t.Error("reloaded store does not mirror the persisted collection")
	}
}

// failingStore delegates reads to a memory store but rejects saves once
// broken is set.
type failingStore struct {
	*storage.MemoryStore
	broken bool
}

func (f *failingStore) Save(key string, value []byte) error {
	if f.broken {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(key, value)
}

func TestFailedSaveLeavesMappingUnchanged(t *testing.T) {
	st := &failingStore{MemoryStore: storage.NewMemoryStore()}
	store := NewStore(st, testLogger())

	if err := store.Upsert(sampleTemplate()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	st.broken = true

	edited := sampleTemplate()
	edited.OverlayText = "Changed"
	if err := store.Upsert(edited); err == nil {
		t.Fatal("expected upsert to fail when the save fails")
	}
	if got, _ := store.Get(edited.Name); got.OverlayText != sampleTemplate().OverlayText {
		t.Errorf("in-memory mapping changed despite failed save: %+v", got)
	}

	if err := store.Delete(edited.Name); err == nil {
		t.Fatal("expected delete to fail when the save fails")
	}
	if _, err := store.Get(edited.Name); err != nil {
		t.Errorf("template vanished from memory despite failed save: %v", err)
	}
}

func TestCorruptBlobStartsEmpty(t *testing.T) {
	st := storage.NewMemoryStore()
	if err := st.Save(constant.TEMPLATE_STORAGE_KEY, []byte("{not json")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	store := NewStore(st, testLogger())
	if len(store.List()) != 0 {
		t.Error("corrupt persisted blob must be treated as an empty store")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), testLogger())

	tmpl := sampleTemplate()
	if err := store.Upsert(tmpl); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	payload, err := store.Export(tmpl.Name)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	settings, err := store.Import(payload)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	// Everything except the image survives the round trip.
	if !reflect.DeepEqual(settings, tmpl.Settings()) {
		t.Errorf("round trip mismatch:\nexpected %+v\ngot      %+v", tmpl.Settings(), settings)
	}
}

func TestImportRejectsBadPayloads(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), testLogger())

	tests := []struct {
		name    string
		payload string
	}{
		{"Not JSON", "certificate settings"},
		{"Missing name", `{"fontSizePx":80,"fontColor":"#000"}`},
		{"Missing font size", `{"name":"T","fontColor":"#000"}`},
		{"Missing color", `{"name":"T","fontSizePx":80}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Import([]byte(tt.payload)); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}
