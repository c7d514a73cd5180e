package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scrap-backend/internal/models"
)

type StockRepository struct {
	DB *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) *StockRepository {
	return &StockRepository{DB: db}
}

const stockColumns = `
	id, tipo_material, cantidad_kg, ubicacion, numero_hu, estado,
	COALESCE(origen_tipo, ''), COALESCE(origen_especifico, ''),
	recepcion_id, fecha_ingreso, ultimo_movimiento
`

func scanLot(row pgx.Row) (*models.StockLot, error) {
	lot := &models.StockLot{}
	err := row.Scan(
		&lot.ID, &lot.TipoMaterial, &lot.CantidadKg, &lot.Ubicacion,
		&lot.NumeroHU, &lot.Estado, &lot.OrigenTipo, &lot.OrigenEspecifico,
		&lot.RecepcionID, &lot.FechaIngreso, &lot.UltimoMovimiento,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return lot, nil
}

func (r *StockRepository) Get(ctx context.Context, id int) (*models.StockLot, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_scrap WHERE id = $1`, id)
	return scanLot(row)
}

// ListLots filters by material, location and state; empty strings match all
func (r *StockRepository) ListLots(ctx context.Context, material, ubicacion, estado string) ([]*models.StockLot, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+stockColumns+`
		FROM stock_scrap
		WHERE ($1 = '' OR tipo_material = $1)
		  AND ($2 = '' OR ubicacion = $2)
		  AND ($3 = '' OR estado = $3)
		ORDER BY fecha_ingreso DESC, id DESC
	`, material, ubicacion, estado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*models.StockLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}

	return lots, rows.Err()
}

// AdjustWithMovement applies a signed delta to the lot and records the
// movement row in the same transaction. The lot row is locked first so
// concurrent adjustments serialize, and a lot whose quantity reaches
// zero is marked procesado.
func (r *StockRepository) AdjustWithMovement(ctx context.Context, lotID int, delta float64, tipoMovimiento, motivo string, usuarioID int) (*models.StockLot, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lot, err := scanLot(tx.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock_scrap WHERE id = $1 FOR UPDATE`, lotID))
	if err != nil {
		return nil, err
	}

	anterior := lot.CantidadKg
	nueva := anterior + delta
	if nueva < 0 {
		return nil, ErrInsufficientStock
	}

	estado := lot.Estado
	if nueva == 0 {
		estado = models.EstadoProcesado
	}

	err = tx.QueryRow(ctx, `
		UPDATE stock_scrap
		SET cantidad_kg = $1, estado = $2, ultimo_movimiento = NOW()
		WHERE id = $3
		RETURNING ultimo_movimiento
	`, nueva, estado, lotID).Scan(&lot.UltimoMovimiento)
	if err != nil {
		return nil, err
	}
	lot.CantidadKg = nueva
	lot.Estado = estado

	cantidad := delta
	if cantidad < 0 {
		cantidad = -cantidad
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_movimientos
			(stock_id, tipo_movimiento, cantidad, cantidad_anterior, cantidad_nueva, motivo, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, lotID, tipoMovimiento, cantidad, anterior, nueva, motivo, usuarioID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return lot, nil
}

var ErrInsufficientStock = errors.New("insufficient stock")

func (r *StockRepository) ListMovements(ctx context.Context, lotID int) ([]models.StockMovement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, stock_id, tipo_movimiento, cantidad, cantidad_anterior,
		       cantidad_nueva, COALESCE(motivo, ''), COALESCE(usuario_id, 0),
		       referencia_id, created_at
		FROM stock_movimientos
		WHERE stock_id = $1
		ORDER BY created_at DESC, id DESC
	`, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(
			&m.ID, &m.StockID, &m.TipoMovimiento, &m.Cantidad,
			&m.CantidadAnterior, &m.CantidadNueva, &m.Motivo, &m.UsuarioID,
			&m.ReferenciaID, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

// LocationSummary groups available lots by location and material
func (r *StockRepository) LocationSummary(ctx context.Context) ([]models.StockLocationSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ubicacion, tipo_material, COALESCE(SUM(cantidad_kg), 0), COUNT(*)
		FROM stock_scrap
		WHERE estado = 'disponible'
		GROUP BY ubicacion, tipo_material
		ORDER BY ubicacion, tipo_material
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []models.StockLocationSummary
	for rows.Next() {
		var s models.StockLocationSummary
		if err := rows.Scan(&s.Ubicacion, &s.TipoMaterial, &s.CantidadTotal, &s.Lotes); err != nil {
			return nil, err
		}
		summary = append(summary, s)
	}

	return summary, rows.Err()
}

func (r *StockRepository) TotalAvailable(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(cantidad_kg), 0) FROM stock_scrap WHERE estado = 'disponible'`,
	).Scan(&total)
	return total, err
}

func (r *StockRepository) CountAvailableSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_scrap WHERE estado = 'disponible' AND fecha_ingreso >= $1`,
		since,
	).Scan(&n)
	return n, err
}
