package services

import (
	"context"
	"errors"

	"scrap-backend/internal/models"
	"scrap-backend/internal/repositories"
)

// CatalogStore is the persistence surface the catalog service needs
type CatalogStore interface {
	MaterialStore
	ListMaterials(ctx context.Context, activeOnly bool) ([]models.Material, error)
	GetMaterialByName(ctx context.Context, name string) (*models.Material, error)
	CreateMaterial(ctx context.Context, m *models.Material) error
	UpdateMaterial(ctx context.Context, m *models.Material) error
	ClearDefaultMaterial(ctx context.Context) error
	ListAreaMachines(ctx context.Context, activeOnly bool) ([]models.AreaMachine, error)
	CreateAreaMachine(ctx context.Context, am *models.AreaMachine) error
	UpdateAreaMachine(ctx context.Context, am *models.AreaMachine) error
}

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListMaterials(ctx context.Context, activeOnly bool) ([]models.Material, error) {
	return s.store.ListMaterials(ctx, activeOnly)
}

// CreateMaterial adds a material type. Promoting a material to default
// demotes the previous default first, so exactly one default exists.
func (s *CatalogService) CreateMaterial(ctx context.Context, req *models.SaveMaterialRequest) (*models.Material, error) {
	if req.Nombre == "" {
		return nil, errors.New("tipo_nombre is required")
	}
	if _, err := s.store.GetMaterialByName(ctx, req.Nombre); err == nil {
		return nil, errors.New("material already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if req.EsPredeterminado {
		if err := s.store.ClearDefaultMaterial(ctx); err != nil {
			return nil, err
		}
	}

	m := &models.Material{
		Nombre:           req.Nombre,
		EsPredeterminado: req.EsPredeterminado,
		Activo:           true,
	}
	if err := s.store.CreateMaterial(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogService) UpdateMaterial(ctx context.Context, id int, req *models.SaveMaterialRequest) (*models.Material, error) {
	if req.Nombre == "" {
		return nil, errors.New("tipo_nombre is required")
	}

	m, err := s.store.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.EsPredeterminado && !m.EsPredeterminado {
		if err := s.store.ClearDefaultMaterial(ctx); err != nil {
			return nil, err
		}
	}

	m.Nombre = req.Nombre
	m.EsPredeterminado = req.EsPredeterminado
	if err := s.store.UpdateMaterial(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetMaterialActive toggles a material without deleting it, so old
// entries keep resolving their material name.
func (s *CatalogService) SetMaterialActive(ctx context.Context, id int, active bool) (*models.Material, error) {
	m, err := s.store.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Activo = active
	if err := s.store.UpdateMaterial(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogService) DefaultMaterial(ctx context.Context) (*models.Material, error) {
	return s.store.GetDefaultMaterial(ctx)
}

func (s *CatalogService) ListAreaMachines(ctx context.Context, activeOnly bool) ([]models.AreaMachine, error) {
	return s.store.ListAreaMachines(ctx, activeOnly)
}

func (s *CatalogService) CreateAreaMachine(ctx context.Context, req *models.SaveAreaMachineRequest) (*models.AreaMachine, error) {
	if req.Area == "" || req.Maquina == "" {
		return nil, errors.New("area and maquina are required")
	}
	am := &models.AreaMachine{Area: req.Area, Maquina: req.Maquina, Activo: true}
	if err := s.store.CreateAreaMachine(ctx, am); err != nil {
		return nil, err
	}
	return am, nil
}

func (s *CatalogService) UpdateAreaMachine(ctx context.Context, id int, req *models.SaveAreaMachineRequest, active bool) (*models.AreaMachine, error) {
	if req.Area == "" || req.Maquina == "" {
		return nil, errors.New("area and maquina are required")
	}
	am := &models.AreaMachine{ID: id, Area: req.Area, Maquina: req.Maquina, Activo: active}
	if err := s.store.UpdateAreaMachine(ctx, am); err != nil {
		return nil, err
	}
	return am, nil
}
