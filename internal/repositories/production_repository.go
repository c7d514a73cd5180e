package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scrap-backend/internal/models"
)

type ProductionRepository struct {
	DB *pgxpool.Pool
}

func NewProductionRepository(db *pgxpool.Pool) *ProductionRepository {
	return &ProductionRepository{DB: db}
}

// Create inserts an entry and its detail lines atomically
func (r *ProductionRepository) Create(ctx context.Context, entry *models.ProductionEntry) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO registros_scrap (operador_id, turno, area_real, maquina_real, peso_total, conexion_bascula, observaciones, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING id, fecha_registro, created_at
	`

	var fecha interface{}
	if !entry.FechaRegistro.IsZero() {
		fecha = entry.FechaRegistro
	}

	if err := tx.QueryRow(ctx, query,
		entry.OperadorID, entry.Turno, entry.AreaReal, entry.MaquinaReal,
		entry.PesoTotal, entry.ConexionBascula, entry.Observaciones, fecha,
	).Scan(&entry.ID, &entry.FechaRegistro, &entry.CreatedAt); err != nil {
		return err
	}

	for i := range entry.Detalles {
		d := &entry.Detalles[i]
		d.RegistroID = entry.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO registro_scrap_detalles (registro_id, tipo_scrap_id, peso) VALUES ($1, $2, $3) RETURNING id`,
			d.RegistroID, d.MaterialID, d.Peso,
		).Scan(&d.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ProductionRepository) Get(ctx context.Context, id int) (*models.ProductionEntry, error) {
	query := `
		SELECT r.id, r.operador_id, u.name, r.turno, r.area_real, r.maquina_real,
		       r.peso_total, r.conexion_bascula, COALESCE(r.observaciones, ''), r.fecha_registro, r.created_at
		FROM registros_scrap r
		JOIN users u ON r.operador_id = u.id
		WHERE r.id = $1
	`

	entry := &models.ProductionEntry{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.OperadorID, &entry.OperadorNombre, &entry.Turno,
		&entry.AreaReal, &entry.MaquinaReal, &entry.PesoTotal,
		&entry.ConexionBascula, &entry.Observaciones, &entry.FechaRegistro, &entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	detalles, err := r.listDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Detalles = detalles

	return entry, nil
}

func (r *ProductionRepository) listDetails(ctx context.Context, registroID int) ([]models.ProductionDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT d.id, d.registro_id, d.tipo_scrap_id, t.tipo_nombre, d.peso
		FROM registro_scrap_detalles d
		JOIN config_tipos_scrap t ON d.tipo_scrap_id = t.id
		WHERE d.registro_id = $1
		ORDER BY d.id
	`, registroID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detalles []models.ProductionDetail
	for rows.Next() {
		var d models.ProductionDetail
		if err := rows.Scan(&d.ID, &d.RegistroID, &d.MaterialID, &d.Material, &d.Peso); err != nil {
			return nil, err
		}
		detalles = append(detalles, d)
	}

	return detalles, rows.Err()
}

// List returns entries in the range, optionally filtered by shift and area
func (r *ProductionRepository) List(ctx context.Context, from, to time.Time, turno int, area string) ([]*models.ProductionEntry, error) {
	query := `
		SELECT r.id, r.operador_id, u.name, r.turno, r.area_real, r.maquina_real,
		       r.peso_total, r.conexion_bascula, COALESCE(r.observaciones, ''), r.fecha_registro, r.created_at
		FROM registros_scrap r
		JOIN users u ON r.operador_id = u.id
		WHERE r.fecha_registro BETWEEN $1 AND $2
		  AND ($3 = 0 OR r.turno = $3)
		  AND ($4 = '' OR r.area_real ILIKE $4)
		ORDER BY r.fecha_registro DESC, r.id DESC
	`

	rows, err := r.DB.Query(ctx, query, from, to, turno, area)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ProductionEntry
	for rows.Next() {
		entry := &models.ProductionEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.OperadorID, &entry.OperadorNombre, &entry.Turno,
			&entry.AreaReal, &entry.MaquinaReal, &entry.PesoTotal,
			&entry.ConexionBascula, &entry.Observaciones, &entry.FechaRegistro, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		detalles, err := r.listDetails(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		entry.Detalles = detalles
	}

	return entries, nil
}

// GetDetail fetches one detail line with its material name
func (r *ProductionRepository) GetDetail(ctx context.Context, detalleID int) (*models.ProductionDetail, error) {
	d := &models.ProductionDetail{}
	err := r.DB.QueryRow(ctx, `
		SELECT d.id, d.registro_id, d.tipo_scrap_id, t.tipo_nombre, d.peso
		FROM registro_scrap_detalles d
		JOIN config_tipos_scrap t ON d.tipo_scrap_id = t.id
		WHERE d.id = $1
	`, detalleID).Scan(&d.ID, &d.RegistroID, &d.MaterialID, &d.Material, &d.Peso)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SetDetailPeso updates one line and recomputes the parent total in
// the same transaction, keeping the sum invariant intact.
func (r *ProductionRepository) SetDetailPeso(ctx context.Context, detalleID int, peso float64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var registroID int
	err = tx.QueryRow(ctx,
		`UPDATE registro_scrap_detalles SET peso = $1 WHERE id = $2 RETURNING registro_id`,
		peso, detalleID,
	).Scan(&registroID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE registros_scrap
		SET peso_total = (SELECT COALESCE(SUM(peso), 0) FROM registro_scrap_detalles WHERE registro_id = $1)
		WHERE id = $1
	`, registroID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ProductionRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM registros_scrap WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLines returns every detail line whose parent entry falls in the
// range, joined with entry and operator data, for the reconciliation
// engine.
func (r *ProductionRepository) ListLines(ctx context.Context, from, to time.Time) ([]models.ProductionLine, error) {
	query := `
		SELECT d.id, r.id, r.fecha_registro, r.turno, t.tipo_nombre, d.peso,
		       u.name, r.conexion_bascula, COALESCE(r.observaciones, ''),
		       r.area_real, r.maquina_real
		FROM registro_scrap_detalles d
		JOIN registros_scrap r ON d.registro_id = r.id
		JOIN config_tipos_scrap t ON d.tipo_scrap_id = t.id
		JOIN users u ON r.operador_id = u.id
		WHERE r.fecha_registro BETWEEN $1 AND $2
		ORDER BY r.fecha_registro DESC, d.id DESC
	`

	rows, err := r.DB.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.ProductionLine
	for rows.Next() {
		var l models.ProductionLine
		if err := rows.Scan(
			&l.DetalleID, &l.RegistroID, &l.Fecha, &l.Turno, &l.Material, &l.Peso,
			&l.Operador, &l.ConexionBascula, &l.Observaciones, &l.Area, &l.Maquina,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

func (r *ProductionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM registros_scrap`).Scan(&n)
	return n, err
}

func (r *ProductionRepository) SumPesoTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `SELECT COALESCE(SUM(peso_total), 0) FROM registros_scrap`).Scan(&total)
	return total, err
}

func (r *ProductionRepository) SumPesoInRange(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(peso_total), 0) FROM registros_scrap WHERE fecha_registro BETWEEN $1 AND $2`,
		from, to,
	).Scan(&total)
	return total, err
}

// MonthlySums groups entry totals by month (YYYY-MM) since the cutoff
func (r *ProductionRepository) MonthlySums(ctx context.Context, since time.Time) (map[string]float64, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT to_char(fecha_registro, 'YYYY-MM'), COALESCE(SUM(peso_total), 0)
		FROM registros_scrap
		WHERE fecha_registro >= $1
		GROUP BY 1
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var month string
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		sums[month] = total
	}

	return sums, rows.Err()
}

// MaterialDistribution sums detail weights grouped by material name
func (r *ProductionRepository) MaterialDistribution(ctx context.Context) (map[string]float64, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT t.tipo_nombre, COALESCE(SUM(d.peso), 0)
		FROM registro_scrap_detalles d
		JOIN config_tipos_scrap t ON d.tipo_scrap_id = t.id
		GROUP BY t.tipo_nombre
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := make(map[string]float64)
	for rows.Next() {
		var name string
		var total float64
		if err := rows.Scan(&name, &total); err != nil {
			return nil, err
		}
		dist[name] = total
	}

	return dist, rows.Err()
}
