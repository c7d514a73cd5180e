package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
)

type fakeHistoryStore struct {
	inserted  []models.ChangeLogRecord
	insertErr error
	records   map[string][]models.ChangeLogRecord
	fetchErr  map[string]error
}

func (f *fakeHistoryStore) Insert(ctx context.Context, rec *models.ChangeLogRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *rec)
	return nil
}

func (f *fakeHistoryStore) Fetch(ctx context.Context, origen string, filter repositories.HistoryFilter) ([]models.ChangeLogRecord, error) {
	if err := f.fetchErr[origen]; err != nil {
		return nil, err
	}
	return f.records[origen], nil
}

func TestFormatKg(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100, "100.000 kg"},
		{95.5, "95.500 kg"},
		{0.1234, "0.123 kg"},
		{0, "0.000 kg"},
	}
	for _, c := range cases {
		if got := FormatKg(c.in); got != c.want {
			t.Errorf("FormatKg(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRecordWeightEditSuppressesUnchanged(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewHistoryService(store)

	// Values that render identically at 3 decimals are not a change
	err := svc.RecordWeightEdit(context.Background(), models.OrigenProduccion, 1,
		"peso", 10.0001, 10.0004, "", models.Actor{ID: 1, Name: "Ana", Role: "operador"}, models.RequestMeta{})
	if !errors.Is(err, ErrNotRecorded) {
		t.Errorf("err = %v, want ErrNotRecorded", err)
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted %d rows, want 0", len(store.inserted))
	}
}

func TestRecordWeightEditWritesRow(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewHistoryService(store)

	err := svc.RecordWeightEdit(context.Background(), models.OrigenProduccion, 7,
		"peso (COBRE)", 10, 12.5, "corrección", models.Actor{ID: 1, Name: "Ana", Role: "operador"},
		models.RequestMeta{IP: "10.0.0.1", UserAgent: "test"})
	if err != nil {
		t.Fatalf("RecordWeightEdit: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(store.inserted))
	}
	rec := store.inserted[0]
	if rec.TipoMovimiento != models.HistUpdate {
		t.Errorf("TipoMovimiento = %q", rec.TipoMovimiento)
	}
	if *rec.ValorAnterior != "10.000 kg" || *rec.ValorNuevo != "12.500 kg" {
		t.Errorf("values = %q -> %q", *rec.ValorAnterior, *rec.ValorNuevo)
	}
	if rec.Responsable != "Ana" || rec.Rol != "operador" {
		t.Errorf("actor = %q/%q", rec.Responsable, rec.Rol)
	}
	if rec.IPAddress != "10.0.0.1" {
		t.Errorf("IPAddress = %q", rec.IPAddress)
	}
}

func TestRecordCreationSkipsAutomated(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewHistoryService(store)

	svc.RecordCreation(context.Background(), models.OrigenProduccion, 1, true, "x",
		models.Actor{Name: "Sistema"}, models.RequestMeta{})
	if len(store.inserted) != 0 {
		t.Errorf("automated creation audited: %+v", store.inserted)
	}

	svc.RecordCreation(context.Background(), models.OrigenProduccion, 1, false, "x",
		models.Actor{Name: "Ana"}, models.RequestMeta{})
	if len(store.inserted) != 1 {
		t.Fatalf("manual creation not audited")
	}
	if store.inserted[0].TipoMovimiento != models.HistCreateManual {
		t.Errorf("TipoMovimiento = %q", store.inserted[0].TipoMovimiento)
	}
}

func TestRecordBatchCreation(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewHistoryService(store)

	svc.RecordBatchCreation(context.Background(), models.OrigenProduccion, []int{4, 5, 6}, true,
		models.Actor{Name: "Sistema"}, models.RequestMeta{})
	if len(store.inserted) != 0 {
		t.Errorf("automated batch audited")
	}

	svc.RecordBatchCreation(context.Background(), models.OrigenProduccion, []int{4, 5, 6}, false,
		models.Actor{Name: "Ana"}, models.RequestMeta{})
	if len(store.inserted) != 1 {
		t.Fatalf("manual batch not audited")
	}

	rec := store.inserted[0]
	if rec.RegistroID != 4 {
		t.Errorf("RegistroID = %d, want first id 4", rec.RegistroID)
	}
	if rec.TipoMovimiento != models.HistBatchCreate {
		t.Errorf("TipoMovimiento = %q", rec.TipoMovimiento)
	}
	if *rec.ValorNuevo != "[4,5,6]" {
		t.Errorf("ValorNuevo = %q, want [4,5,6]", *rec.ValorNuevo)
	}
}

func TestRecordDefaultsUnknownActor(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := NewHistoryService(store)

	svc.RecordDeletion(context.Background(), models.OrigenRecepcion, 2, "gone",
		models.Actor{}, models.RequestMeta{})
	if len(store.inserted) != 1 {
		t.Fatal("deletion not audited")
	}
	rec := store.inserted[0]
	if rec.Responsable != "Sistema" || rec.Rol != "sistema" {
		t.Errorf("actor defaults = %q/%q", rec.Responsable, rec.Rol)
	}
}

func TestAuditFailureNeverPropagates(t *testing.T) {
	store := &fakeHistoryStore{insertErr: repositories.ErrTableMissing}
	svc := NewHistoryService(store)

	// None of the record calls may surface the store failure
	if err := svc.RecordWeightEdit(context.Background(), models.OrigenProduccion, 1,
		"peso", 1, 2, "", models.Actor{Name: "Ana"}, models.RequestMeta{}); err != nil {
		t.Errorf("RecordWeightEdit = %v, want nil on degraded store", err)
	}
	svc.RecordDeletion(context.Background(), models.OrigenProduccion, 1, "", models.Actor{Name: "Ana"}, models.RequestMeta{})
	svc.RecordManualSum(context.Background(), models.OrigenProduccion, 1, "peso", 1, 1, 2, models.Actor{Name: "Ana"}, models.RequestMeta{})
}

func TestFetchHistoryMergesSidesNewestFirst(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeHistoryStore{
		records: map[string][]models.ChangeLogRecord{
			models.OrigenProduccion: {
				{ID: 1, Origen: models.OrigenProduccion, CreatedAt: base.Add(1 * time.Hour)},
				{ID: 2, Origen: models.OrigenProduccion, CreatedAt: base},
			},
			models.OrigenRecepcion: {
				{ID: 3, Origen: models.OrigenRecepcion, CreatedAt: base.Add(2 * time.Hour)},
			},
		},
	}
	svc := NewHistoryService(store)

	got, err := svc.FetchHistory(context.Background(), models.OrigenTodos, repositories.HistoryFilter{})
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("records = %d, want 3", len(got))
	}
	if got[0].ID != 3 || got[1].ID != 1 || got[2].ID != 2 {
		t.Errorf("order = %d,%d,%d, want 3,1,2", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestFetchHistoryDegradesOnMissingTable(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeHistoryStore{
		records: map[string][]models.ChangeLogRecord{
			models.OrigenProduccion: {{ID: 1, CreatedAt: base}},
		},
		fetchErr: map[string]error{
			models.OrigenRecepcion: repositories.ErrTableMissing,
		},
	}
	svc := NewHistoryService(store)

	got, err := svc.FetchHistory(context.Background(), models.OrigenTodos, repositories.HistoryFilter{})
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("records = %d, want the surviving side only", len(got))
	}
}
