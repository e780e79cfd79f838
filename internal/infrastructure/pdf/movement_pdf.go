// Package pdf implementa la generación del comprobante imprimible de un
// documento de movimiento usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de comprobante  │  N° Documento + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTICIPANTES: Entregó / Recibió                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Denominación | N° Serie | Unidad | Cantidad     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entregó ____ / Recibió ____                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/activos-api/internal/application/ledger"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ledger.MovementPDFGenerator = (*MarotoMovementPDF)(nil)

// MarotoMovementPDF implementa ledger.MovementPDFGenerator usando Maroto v2.
type MarotoMovementPDF struct{}

// NewMarotoMovementPDF construye el generador.
func NewMarotoMovementPDF() *MarotoMovementPDF { return &MarotoMovementPDF{} }

// GenerateMovementPDF genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoMovementPDF) GenerateMovementPDF(
	_ context.Context,
	doc *entity.MovementDocument,
	lines []*entity.MovementLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de movimiento "+doc.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(participantsRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(len(lines)))
	m.AddRows(line.NewRow(6))
	m.AddRows(signaturesRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func kindTitle(kind string) string {
	if kind == entity.MovementKindReceipt {
		return "COMPROBANTE DE ENTRADA"
	}
	return "COMPROBANTE DE SALIDA"
}

// headerRow: tipo de comprobante (izq) y número + fecha (der).
func headerRow(doc *entity.MovementDocument) core.Row {
	fecha := doc.Date.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(kindTitle(doc.Kind), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Registro N° %d", doc.DisplaySeq), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("DOCUMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// participantsRow: quién entregó y quién recibió los bienes.
func participantsRow(doc *entity.MovementDocument) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("ENTREGÓ", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.IssuedBy, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 7,
			}),
		),
		col.New(6).Add(
			text.New("RECIBIÓ", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.ReceivedBy, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de renglones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Denominación", 5, align.Left),
		h("N° Serie", 3, align.Left),
		h("Unidad", 1, align.Center),
		h("Cantidad", 2, align.Right),
	)
}

// tableLineRows: una fila por renglón del documento.
func tableLineRows(lines []*entity.MovementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		serial := "—"
		if l.SerialNumber != nil {
			serial = *l.SerialNumber
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Position),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				serial,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(1).Add(text.New(
				nonEmpty(l.Unit, "ud"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: recuento de renglones alineado a la derecha.
func totalRow(count int) core.Row {
	return row.New(8).Add(
		col.New(8),
		col.New(4).Add(text.New(
			fmt.Sprintf("Total de renglones: %d", count),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 2},
		)),
	)
}

// signaturesRow: líneas de firma para ambos participantes.
func signaturesRow(doc *entity.MovementDocument) core.Row {
	sig := func(role, name string) core.Col {
		return col.New(6).Add(
			text.New("_________________________", props.Text{
				Size: 9, Align: align.Center, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%s: %s", role, nonEmpty(name, "—")), props.Text{
				Size: 8, Align: align.Center, Top: 8,
			}),
		)
	}
	return row.New(16).Add(
		sig("Entregó", doc.IssuedBy),
		sig("Recibió", doc.ReceivedBy),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
