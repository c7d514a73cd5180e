package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"scrap-backend/internal/models"
)

// ErrTableMissing is returned when a history table does not exist in
// the target database. Callers degrade instead of failing the parent
// operation.
var ErrTableMissing = errors.New("history table missing")

const pgUndefinedTable = "42P01"

type HistoryRepository struct {
	DB *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func historyTable(origen string) string {
	if origen == models.OrigenRecepcion {
		return "recepciones_scrap_historial"
	}
	return "registros_scrap_historial"
}

func refColumn(origen string) string {
	if origen == models.OrigenRecepcion {
		return "recepcion_id"
	}
	return "registro_id"
}

// Insert appends one audit row. A missing table maps to ErrTableMissing.
func (r *HistoryRepository) Insert(ctx context.Context, rec *models.ChangeLogRecord) error {
	query := `
		INSERT INTO ` + historyTable(rec.Origen) + `
			(` + refColumn(rec.Origen) + `, tipo_movimiento, campo_modificado,
			 valor_anterior, valor_nuevo, observaciones, responsable, rol,
			 ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.DB.QueryRow(ctx, query,
		rec.RegistroID, rec.TipoMovimiento, rec.CampoModificado,
		rec.ValorAnterior, rec.ValorNuevo, rec.Observaciones,
		rec.Responsable, rec.Rol, rec.IPAddress, rec.UserAgent,
	).Scan(&rec.ID, &rec.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return ErrTableMissing
	}
	return err
}

// HistoryFilter narrows a Fetch. Zero values match everything.
type HistoryFilter struct {
	RegistroID     int
	Responsable    string
	Campo          string
	TipoMovimiento string
	From           time.Time
	To             time.Time
}

// Fetch reads audit rows for one ledger side, newest first, joined
// back to the owning entry for display context. Routine "create" rows
// are excluded unless that kind is asked for explicitly. A missing
// table yields an empty result, not an error, so queries survive
// partially migrated databases.
func (r *HistoryRepository) Fetch(ctx context.Context, origen string, f HistoryFilter) ([]models.ChangeLogRecord, error) {
	// Context columns differ per side: area/machine for production,
	// material/origin for receptions.
	contextCols := "COALESCE(e.area_real, ''), COALESCE(e.maquina_real, ''), '', ''"
	contextTable := "registros_scrap"
	if origen == models.OrigenRecepcion {
		contextCols = "'', '', COALESCE(e.tipo_material, ''), COALESCE(e.origen_especifico, '')"
		contextTable = "recepciones_scrap"
	}

	query := `
		SELECT h.id, h.` + refColumn(origen) + `, h.tipo_movimiento,
		       COALESCE(h.campo_modificado, ''), h.valor_anterior, h.valor_nuevo,
		       COALESCE(h.observaciones, ''), h.responsable, COALESCE(h.rol, ''),
		       COALESCE(h.ip_address, ''), COALESCE(h.user_agent, ''), h.created_at,
		       ` + contextCols + `
		FROM ` + historyTable(origen) + ` h
		LEFT JOIN ` + contextTable + ` e ON e.id = h.` + refColumn(origen) + `
		WHERE ($1 = 0 OR h.` + refColumn(origen) + ` = $1)
		  AND ($2 = '' OR h.responsable ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR h.campo_modificado ILIKE '%' || $3 || '%')
		  AND ($4 = '' OR h.tipo_movimiento = $4)
		  AND ($4 <> '' OR h.tipo_movimiento <> 'create')
		  AND ($5::timestamptz IS NULL OR h.created_at >= $5)
		  AND ($6::timestamptz IS NULL OR h.created_at <= $6)
		ORDER BY h.created_at DESC, h.id DESC
	`

	var from, to interface{}
	if !f.From.IsZero() {
		from = f.From
	}
	if !f.To.IsZero() {
		to = f.To
	}

	rows, err := r.DB.Query(ctx, query, f.RegistroID, f.Responsable, f.Campo, f.TipoMovimiento, from, to)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, ErrTableMissing
		}
		return nil, err
	}
	defer rows.Close()

	var records []models.ChangeLogRecord
	for rows.Next() {
		rec := models.ChangeLogRecord{Origen: origen}
		if err := rows.Scan(
			&rec.ID, &rec.RegistroID, &rec.TipoMovimiento, &rec.CampoModificado,
			&rec.ValorAnterior, &rec.ValorNuevo, &rec.Observaciones,
			&rec.Responsable, &rec.Rol, &rec.IPAddress, &rec.UserAgent, &rec.CreatedAt,
			&rec.AreaReal, &rec.MaquinaReal, &rec.TipoMaterial, &rec.OrigenEspecifico,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
