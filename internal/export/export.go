// Package export renders reconciliation workbooks and HU labels for
// download.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"

	"scrap-backend/internal/models"
	"scrap-backend/internal/timeutil"
)

const sheetMovimientos = "Movimientos"
const sheetResumen = "Resumen"

// ReconciliationWorkbook renders the contraloría view as an Excel
// workbook: one sheet with every movement, one with the totals and
// the per-material discrepancies.
func ReconciliationWorkbook(snapshot *models.ReconciliationSnapshot, discrepancies []models.MaterialDiscrepancy, start, end time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetMovimientos)
	if _, err := f.NewSheet(sheetResumen); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Fecha", "Turno", "Material", "Peso (kg)", "Origen", "Responsable", "Destino", "HU", "Báscula", "Observaciones"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetMovimientos, cell, h)
	}

	for i, m := range snapshot.Movimientos {
		row := i + 2
		bascula := "No"
		if m.ConexionBascula {
			bascula = "Sí"
		}
		values := []interface{}{
			m.ID,
			m.Fecha.In(timeutil.PlantLocation).Format("02/01/2006 15:04"),
			m.Turno,
			m.Material,
			m.Peso,
			m.Origen,
			m.Responsable,
			m.DestinoDisplay,
			m.HU,
			bascula,
			m.Observaciones,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheetMovimientos, cell, v)
		}
	}
	f.SetColWidth(sheetMovimientos, "B", "B", 18)
	f.SetColWidth(sheetMovimientos, "D", "D", 20)
	f.SetColWidth(sheetMovimientos, "K", "K", 40)

	f.SetCellValue(sheetResumen, "A1", "Conciliación de scrap")
	f.SetCellValue(sheetResumen, "A2", fmt.Sprintf("Periodo: %s - %s",
		start.Format("02/01/2006"), end.Format("02/01/2006")))

	f.SetCellValue(sheetResumen, "A4", "Producción (kg)")
	f.SetCellValue(sheetResumen, "B4", snapshot.Totales.Produccion)
	f.SetCellValue(sheetResumen, "A5", "Recepción (kg)")
	f.SetCellValue(sheetResumen, "B5", snapshot.Totales.Recepcion)
	f.SetCellValue(sheetResumen, "A6", "Diferencia (kg)")
	f.SetCellValue(sheetResumen, "B6", snapshot.Totales.Diferencia)

	f.SetCellValue(sheetResumen, "A8", "Material")
	f.SetCellValue(sheetResumen, "B8", "Producción (kg)")
	f.SetCellValue(sheetResumen, "C8", "Recepción (kg)")
	f.SetCellValue(sheetResumen, "D8", "Diferencia (kg)")
	for i, d := range discrepancies {
		row := i + 9
		f.SetCellValue(sheetResumen, fmt.Sprintf("A%d", row), d.Material)
		f.SetCellValue(sheetResumen, fmt.Sprintf("B%d", row), d.Produccion)
		f.SetCellValue(sheetResumen, fmt.Sprintf("C%d", row), d.Recepcion)
		f.SetCellValue(sheetResumen, fmt.Sprintf("D%d", row), d.Diferencia)
	}
	f.SetColWidth(sheetResumen, "A", "D", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HULabelPDF renders the printable label for a reception: a compact
// card the warehouse sticks on the material before storage.
func HULabelPDF(entry *models.ReceptionEntry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(89, 14, entry.NumeroHU, "1", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Material:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(59, 8, tr(entry.TipoMaterial), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Peso:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(59, 8, fmt.Sprintf("%.3f kg", entry.PesoKg), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Origen:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	origen := entry.OrigenTipo
	if entry.OrigenEspecifico != "" {
		origen += " - " + entry.OrigenEspecifico
	}
	pdf.CellFormat(59, 8, tr(origen), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Destino:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	destino := entry.Destino
	if entry.LugarAlmacenamiento != "" {
		destino += " (" + entry.LugarAlmacenamiento + ")"
	}
	pdf.CellFormat(59, 8, tr(destino), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Fecha:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(59, 8, entry.FechaEntrada.In(timeutil.PlantLocation).Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(89, 6, tr("Recibido por: "+entry.ReceptorNombre), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
