package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scrap-backend/internal/models"
)

type CatalogRepository struct {
	DB *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) ListMaterials(ctx context.Context, activeOnly bool) ([]models.Material, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, tipo_nombre, es_predeterminado, activo, created_at
		FROM config_tipos_scrap
		WHERE ($1 = FALSE OR activo = TRUE)
		ORDER BY tipo_nombre
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.Nombre, &m.EsPredeterminado, &m.Activo, &m.CreatedAt); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}

	return materials, rows.Err()
}

func (r *CatalogRepository) GetMaterial(ctx context.Context, id int) (*models.Material, error) {
	m := &models.Material{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, tipo_nombre, es_predeterminado, activo, created_at
		FROM config_tipos_scrap WHERE id = $1
	`, id).Scan(&m.ID, &m.Nombre, &m.EsPredeterminado, &m.Activo, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *CatalogRepository) GetMaterialByName(ctx context.Context, name string) (*models.Material, error) {
	m := &models.Material{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, tipo_nombre, es_predeterminado, activo, created_at
		FROM config_tipos_scrap WHERE tipo_nombre = $1
	`, name).Scan(&m.ID, &m.Nombre, &m.EsPredeterminado, &m.Activo, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetDefaultMaterial returns the material flagged es_predeterminado,
// used when a scale reading arrives without a material annotation.
func (r *CatalogRepository) GetDefaultMaterial(ctx context.Context) (*models.Material, error) {
	m := &models.Material{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, tipo_nombre, es_predeterminado, activo, created_at
		FROM config_tipos_scrap
		WHERE es_predeterminado = TRUE AND activo = TRUE
		LIMIT 1
	`).Scan(&m.ID, &m.Nombre, &m.EsPredeterminado, &m.Activo, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *CatalogRepository) CreateMaterial(ctx context.Context, m *models.Material) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO config_tipos_scrap (tipo_nombre, es_predeterminado, activo)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.Nombre, m.EsPredeterminado, m.Activo).Scan(&m.ID, &m.CreatedAt)
}

func (r *CatalogRepository) UpdateMaterial(ctx context.Context, m *models.Material) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE config_tipos_scrap
		SET tipo_nombre = $1, es_predeterminado = $2, activo = $3
		WHERE id = $4
	`, m.Nombre, m.EsPredeterminado, m.Activo, m.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearDefaultMaterial unsets the default flag everywhere, ahead of
// promoting a new default.
func (r *CatalogRepository) ClearDefaultMaterial(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `UPDATE config_tipos_scrap SET es_predeterminado = FALSE WHERE es_predeterminado = TRUE`)
	return err
}

func (r *CatalogRepository) ListAreaMachines(ctx context.Context, activeOnly bool) ([]models.AreaMachine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, area, maquina, activo
		FROM config_areas_maquinas
		WHERE ($1 = FALSE OR activo = TRUE)
		ORDER BY area, maquina
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.AreaMachine
	for rows.Next() {
		var am models.AreaMachine
		if err := rows.Scan(&am.ID, &am.Area, &am.Maquina, &am.Activo); err != nil {
			return nil, err
		}
		items = append(items, am)
	}

	return items, rows.Err()
}

func (r *CatalogRepository) CreateAreaMachine(ctx context.Context, am *models.AreaMachine) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO config_areas_maquinas (area, maquina, activo)
		VALUES ($1, $2, $3)
		RETURNING id
	`, am.Area, am.Maquina, am.Activo).Scan(&am.ID)
}

func (r *CatalogRepository) UpdateAreaMachine(ctx context.Context, am *models.AreaMachine) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE config_areas_maquinas SET area = $1, maquina = $2, activo = $3 WHERE id = $4
	`, am.Area, am.Maquina, am.Activo, am.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
