package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scrap-backend/internal/models"
)

type ReceptionRepository struct {
	DB *pgxpool.Pool
}

func NewReceptionRepository(db *pgxpool.Pool) *ReceptionRepository {
	return &ReceptionRepository{DB: db}
}

const receptionColumns = `
	r.id, r.numero_hu, r.peso_kg, r.tipo_material, r.origen_tipo,
	COALESCE(r.origen_especifico, ''), r.receptor_id, u.name, r.destino,
	COALESCE(r.lugar_almacenamiento, ''), COALESCE(r.observaciones, ''),
	r.impreso, r.fecha_entrada, r.created_at
`

func scanReception(row pgx.Row) (*models.ReceptionEntry, error) {
	entry := &models.ReceptionEntry{}
	err := row.Scan(
		&entry.ID, &entry.NumeroHU, &entry.PesoKg, &entry.TipoMaterial,
		&entry.OrigenTipo, &entry.OrigenEspecifico, &entry.ReceptorID,
		&entry.ReceptorNombre, &entry.Destino, &entry.LugarAlmacenamiento,
		&entry.Observaciones, &entry.Impreso, &entry.FechaEntrada, &entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateWithStock inserts the reception and, when its destination is
// almacenamiento, the stock lot plus its opening movement, all in one
// transaction. Either every row lands or none does.
func (r *ReceptionRepository) CreateWithStock(ctx context.Context, entry *models.ReceptionEntry) (*models.StockLot, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO recepciones_scrap
			(numero_hu, peso_kg, tipo_material, origen_tipo, origen_especifico,
			 receptor_id, destino, lugar_almacenamiento, observaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, fecha_entrada, created_at
	`,
		entry.NumeroHU, entry.PesoKg, entry.TipoMaterial, entry.OrigenTipo,
		entry.OrigenEspecifico, entry.ReceptorID, entry.Destino,
		entry.LugarAlmacenamiento, entry.Observaciones,
	).Scan(&entry.ID, &entry.FechaEntrada, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	var lot *models.StockLot
	if entry.Destino == models.DestinoAlmacenamiento {
		lot = &models.StockLot{
			TipoMaterial:     entry.TipoMaterial,
			CantidadKg:       entry.PesoKg,
			Ubicacion:        entry.LugarAlmacenamiento,
			NumeroHU:         entry.NumeroHU,
			Estado:           models.EstadoDisponible,
			OrigenTipo:       entry.OrigenTipo,
			OrigenEspecifico: entry.OrigenEspecifico,
			RecepcionID:      entry.ID,
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO stock_scrap
				(tipo_material, cantidad_kg, ubicacion, numero_hu, estado,
				 origen_tipo, origen_especifico, recepcion_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, fecha_ingreso, ultimo_movimiento
		`,
			lot.TipoMaterial, lot.CantidadKg, lot.Ubicacion, lot.NumeroHU,
			lot.Estado, lot.OrigenTipo, lot.OrigenEspecifico, lot.RecepcionID,
		).Scan(&lot.ID, &lot.FechaIngreso, &lot.UltimoMovimiento)
		if err != nil {
			return nil, err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movimientos
				(stock_id, tipo_movimiento, cantidad, cantidad_anterior, cantidad_nueva, motivo, usuario_id, referencia_id)
			VALUES ($1, $2, $3, 0, $3, $4, $5, $6)
		`,
			lot.ID, models.MovimientoIngreso, lot.CantidadKg,
			"Ingreso por recepción "+entry.NumeroHU, entry.ReceptorID, entry.ID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return lot, nil
}

func (r *ReceptionRepository) Get(ctx context.Context, id int) (*models.ReceptionEntry, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+receptionColumns+`
		FROM recepciones_scrap r
		JOIN users u ON r.receptor_id = u.id
		WHERE r.id = $1
	`, id)
	return scanReception(row)
}

func (r *ReceptionRepository) GetByHU(ctx context.Context, numeroHU string) (*models.ReceptionEntry, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+receptionColumns+`
		FROM recepciones_scrap r
		JOIN users u ON r.receptor_id = u.id
		WHERE r.numero_hu = $1
	`, numeroHU)
	return scanReception(row)
}

// List returns receptions in the range. Passing receptorID > 0 scopes
// the result to that receiver; material and destino filter when non-empty.
func (r *ReceptionRepository) List(ctx context.Context, from, to time.Time, receptorID int, material, destino string) ([]*models.ReceptionEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+receptionColumns+`
		FROM recepciones_scrap r
		JOIN users u ON r.receptor_id = u.id
		WHERE r.fecha_entrada BETWEEN $1 AND $2
		  AND ($3 = 0 OR r.receptor_id = $3)
		  AND ($4 = '' OR r.tipo_material = $4)
		  AND ($5 = '' OR r.destino = $5)
		ORDER BY r.fecha_entrada DESC, r.id DESC
	`, from, to, receptorID, material, destino)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ReceptionEntry
	for rows.Next() {
		entry, err := scanReception(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *ReceptionRepository) UpdateDestino(ctx context.Context, id int, destino, lugarAlmacenamiento string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE recepciones_scrap SET destino = $1, lugar_almacenamiento = $2 WHERE id = $3
	`, destino, lugarAlmacenamiento, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReceptionRepository) MarkPrinted(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE recepciones_scrap SET impreso = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListInRange returns all receptions in the range regardless of filters,
// for the reconciliation engine.
func (r *ReceptionRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*models.ReceptionEntry, error) {
	return r.List(ctx, from, to, 0, "", "")
}

func (r *ReceptionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM recepciones_scrap`).Scan(&n)
	return n, err
}

// MonthlySums groups intake weights by month (YYYY-MM) since the cutoff
func (r *ReceptionRepository) MonthlySums(ctx context.Context, since time.Time) (map[string]float64, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT to_char(fecha_entrada, 'YYYY-MM'), COALESCE(SUM(peso_kg), 0)
		FROM recepciones_scrap
		WHERE fecha_entrada >= $1
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

func (r *ReceptionRepository) SumPesoInRange(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(peso_kg), 0) FROM recepciones_scrap WHERE fecha_entrada BETWEEN $1 AND $2`,
		from, to,
	).Scan(&total)
	return total, err
}
