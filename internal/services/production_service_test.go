package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
)

type fakeProductionStore struct {
	created   []*models.ProductionEntry
	details   map[int]*models.ProductionDetail
	pesoSet   map[int]float64
	deleted   []int
	createErr error
}

func (f *fakeProductionStore) Create(ctx context.Context, entry *models.ProductionEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	entry.ID = len(f.created) + 1
	f.created = append(f.created, entry)
	return nil
}

func (f *fakeProductionStore) Get(ctx context.Context, id int) (*models.ProductionEntry, error) {
	for _, e := range f.created {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductionStore) List(ctx context.Context, from, to time.Time, turno int, area string) ([]*models.ProductionEntry, error) {
	return f.created, nil
}

func (f *fakeProductionStore) GetDetail(ctx context.Context, detalleID int) (*models.ProductionDetail, error) {
	if d, ok := f.details[detalleID]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductionStore) SetDetailPeso(ctx context.Context, detalleID int, peso float64) error {
	if f.pesoSet == nil {
		f.pesoSet = map[int]float64{}
	}
	f.pesoSet[detalleID] = peso
	return nil
}

func (f *fakeProductionStore) Delete(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	for i, e := range f.created {
		if e.ID == id {
			f.created = append(f.created[:i], f.created[i+1:]...)
			break
		}
	}
	return nil
}

type fakeMaterialCatalog struct {
	materials map[int]*models.Material
}

func (f *fakeMaterialCatalog) GetMaterial(ctx context.Context, id int) (*models.Material, error) {
	if m, ok := f.materials[id]; ok {
		return m, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeMaterialCatalog) GetDefaultMaterial(ctx context.Context) (*models.Material, error) {
	for _, m := range f.materials {
		if m.EsPredeterminado {
			return m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func newProductionFixture() (*ProductionService, *fakeProductionStore, *fakeHistoryStore) {
	store := &fakeProductionStore{details: map[int]*models.ProductionDetail{}}
	catalog := &fakeMaterialCatalog{materials: map[int]*models.Material{
		1: {ID: 1, Nombre: "COBRE", Activo: true},
		2: {ID: 2, Nombre: "PURGA PVC", Activo: true},
		3: {ID: 3, Nombre: "OBSOLETO", Activo: false},
	}}
	audit := &fakeHistoryStore{}
	return NewProductionService(store, catalog, NewHistoryService(audit)), store, audit
}

var actorOperador = models.Actor{ID: 3, Name: "Ana", Role: models.RoleOperador}

func validProductionRequest() *models.CreateProductionRequest {
	return &models.CreateProductionRequest{
		Turno:       1,
		AreaReal:    "ROD",
		MaquinaReal: "TREF 2",
		Detalles: []models.ProductionDetailInput{
			{MaterialID: 1, Peso: 12.5},
			{MaterialID: 2, Peso: 7.5},
		},
	}
}

func TestCreateProductionValidation(t *testing.T) {
	svc, _, _ := newProductionFixture()

	cases := []struct {
		name   string
		mutate func(*models.CreateProductionRequest)
	}{
		{"turno out of range", func(r *models.CreateProductionRequest) { r.Turno = 4 }},
		{"missing area", func(r *models.CreateProductionRequest) { r.AreaReal = "" }},
		{"missing machine", func(r *models.CreateProductionRequest) { r.MaquinaReal = "" }},
		{"no detail lines", func(r *models.CreateProductionRequest) { r.Detalles = nil }},
		{"zero weight line", func(r *models.CreateProductionRequest) { r.Detalles[0].Peso = 0 }},
		{"unknown material", func(r *models.CreateProductionRequest) { r.Detalles[0].MaterialID = 99 }},
		{"inactive material", func(r *models.CreateProductionRequest) { r.Detalles[0].MaterialID = 3 }},
	}

	for _, c := range cases {
		req := validProductionRequest()
		c.mutate(req)
		if _, err := svc.Create(context.Background(), req, actorOperador, models.RequestMeta{}); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestCreateProductionComputesTotal(t *testing.T) {
	svc, store, audit := newProductionFixture()

	entry, err := svc.Create(context.Background(), validProductionRequest(), actorOperador, models.RequestMeta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if entry.PesoTotal != 20 {
		t.Errorf("PesoTotal = %v, want sum of lines 20", entry.PesoTotal)
	}
	if entry.OperadorID != actorOperador.ID {
		t.Errorf("OperadorID = %d", entry.OperadorID)
	}
	if len(store.created) != 1 {
		t.Errorf("created %d entries", len(store.created))
	}
	if len(audit.inserted) != 1 || audit.inserted[0].TipoMovimiento != models.HistCreateManual {
		t.Errorf("audit rows = %+v", audit.inserted)
	}
}

func TestCreateProductionDefaultsShift(t *testing.T) {
	svc, store, _ := newProductionFixture()

	req := validProductionRequest()
	req.Turno = 0
	if _, err := svc.Create(context.Background(), req, actorOperador, models.RequestMeta{}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got := store.created[0].Turno
	if got < 1 || got > 3 {
		t.Errorf("defaulted Turno = %d, want 1..3", got)
	}
}

func TestCreateProductionScaleEntryNotAudited(t *testing.T) {
	svc, _, audit := newProductionFixture()

	req := validProductionRequest()
	req.ConexionBascula = true
	if _, err := svc.Create(context.Background(), req, actorOperador, models.RequestMeta{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(audit.inserted) != 0 {
		t.Errorf("scale capture audited: %+v", audit.inserted)
	}
}

func TestBatchCreateRejectsWholeBatch(t *testing.T) {
	svc, store, _ := newProductionFixture()

	bad := validProductionRequest()
	bad.Detalles[0].Peso = -1
	req := &models.BatchCreateProductionRequest{
		Registros: []models.CreateProductionRequest{*validProductionRequest(), *bad},
	}

	if _, err := svc.BatchCreate(context.Background(), req, actorOperador, models.RequestMeta{}); err == nil {
		t.Fatal("expected batch rejection")
	}
	if len(store.created) != 0 {
		t.Errorf("bad batch still wrote %d entries", len(store.created))
	}
}

func TestBatchCreateAutomatedFlag(t *testing.T) {
	scale := validProductionRequest()
	scale.ConexionBascula = true
	manual := validProductionRequest()

	// All-scale batch is automated and leaves no audit row
	svc, _, audit := newProductionFixture()
	req := &models.BatchCreateProductionRequest{
		Registros: []models.CreateProductionRequest{*scale, *scale},
	}
	entries, err := svc.BatchCreate(context.Background(), req, actorOperador, models.RequestMeta{})
	if err != nil {
		t.Fatalf("BatchCreate: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if len(audit.inserted) != 0 {
		t.Errorf("automated batch audited: %+v", audit.inserted)
	}

	// One manual entry makes the whole batch manual
	svc, _, audit = newProductionFixture()
	req = &models.BatchCreateProductionRequest{
		Registros: []models.CreateProductionRequest{*scale, *manual},
	}
	if _, err := svc.BatchCreate(context.Background(), req, actorOperador, models.RequestMeta{}); err != nil {
		t.Fatalf("BatchCreate: %v", err)
	}
	if len(audit.inserted) != 1 {
		t.Fatalf("mixed batch audit rows = %d, want 1", len(audit.inserted))
	}
	if audit.inserted[0].TipoMovimiento != models.HistBatchCreate {
		t.Errorf("TipoMovimiento = %q", audit.inserted[0].TipoMovimiento)
	}
}

func TestUpdateDetailPesoSameValueIsNoOp(t *testing.T) {
	svc, store, audit := newProductionFixture()
	store.details[10] = &models.ProductionDetail{ID: 10, RegistroID: 1, Material: "COBRE", Peso: 12.5}

	// Rounds to the same 3-decimal value, so nothing changes
	detail, err := svc.UpdateDetailPeso(context.Background(), 10,
		&models.UpdateDetailRequest{Peso: 12.5004}, actorOperador, models.RequestMeta{})
	if err != nil {
		t.Fatalf("UpdateDetailPeso: %v", err)
	}
	if detail.Peso != 12.5 {
		t.Errorf("Peso = %v, want untouched 12.5", detail.Peso)
	}
	if len(store.pesoSet) != 0 {
		t.Error("no-op update hit the store")
	}
	if len(audit.inserted) != 0 {
		t.Error("no-op update was audited")
	}
}

func TestUpdateDetailPesoWritesAndAudits(t *testing.T) {
	svc, store, audit := newProductionFixture()
	store.details[10] = &models.ProductionDetail{ID: 10, RegistroID: 1, Material: "COBRE", Peso: 12.5}

	detail, err := svc.UpdateDetailPeso(context.Background(), 10,
		&models.UpdateDetailRequest{Peso: 14, Observaciones: "corrección"}, actorOperador, models.RequestMeta{})
	if err != nil {
		t.Fatalf("UpdateDetailPeso: %v", err)
	}

	if detail.Peso != 14 {
		t.Errorf("Peso = %v, want 14", detail.Peso)
	}
	if store.pesoSet[10] != 14 {
		t.Errorf("stored peso = %v", store.pesoSet[10])
	}
	if len(audit.inserted) != 1 {
		t.Fatalf("audit rows = %d", len(audit.inserted))
	}
	rec := audit.inserted[0]
	if rec.RegistroID != 1 || rec.CampoModificado != "peso (COBRE)" {
		t.Errorf("audit row = %+v", rec)
	}
	if *rec.ValorAnterior != "12.500 kg" || *rec.ValorNuevo != "14.000 kg" {
		t.Errorf("values = %q -> %q", *rec.ValorAnterior, *rec.ValorNuevo)
	}
}

func TestSumDetailAddsAndAudits(t *testing.T) {
	svc, store, audit := newProductionFixture()
	store.details[10] = &models.ProductionDetail{ID: 10, RegistroID: 1, Material: "COBRE", Peso: 12.5}

	detail, err := svc.SumDetail(context.Background(), 10,
		&models.SumDetailRequest{Cantidad: 2.5}, actorOperador, models.RequestMeta{})
	if err != nil {
		t.Fatalf("SumDetail: %v", err)
	}

	if detail.Peso != 15 {
		t.Errorf("Peso = %v, want 15", detail.Peso)
	}
	if store.pesoSet[10] != 15 {
		t.Errorf("stored peso = %v", store.pesoSet[10])
	}
	if len(audit.inserted) != 1 || audit.inserted[0].TipoMovimiento != models.HistSuma {
		t.Errorf("audit rows = %+v", audit.inserted)
	}

	if _, err := svc.SumDetail(context.Background(), 10,
		&models.SumDetailRequest{Cantidad: 0}, actorOperador, models.RequestMeta{}); err == nil {
		t.Error("zero cantidad accepted")
	}
}

func TestDeleteProductionAudits(t *testing.T) {
	svc, store, audit := newProductionFixture()

	entry, err := svc.Create(context.Background(), validProductionRequest(), actorOperador, models.RequestMeta{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	audit.inserted = nil

	if err := svc.Delete(context.Background(), entry.ID, actorOperador, models.RequestMeta{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(store.deleted) != 1 || store.deleted[0] != entry.ID {
		t.Errorf("deleted = %v", store.deleted)
	}

	// The entry is gone, but its delete audit row must survive it and
	// carry the old total.
	if _, err := store.Get(context.Background(), entry.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("entry still present after delete: %v", err)
	}
	if len(audit.inserted) != 1 {
		t.Fatalf("audit rows = %+v", audit.inserted)
	}
	rec := audit.inserted[0]
	if rec.TipoMovimiento != models.HistDelete || rec.RegistroID != entry.ID {
		t.Errorf("audit row = %+v", rec)
	}
	if !strings.Contains(rec.Observaciones, "20.000 kg") {
		t.Errorf("Observaciones = %q, want old total recorded", rec.Observaciones)
	}
}
