package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-api/internal/application/dto"
	"github.com/jhoicas/activos-api/internal/application/ledger"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
	"github.com/jhoicas/activos-api/internal/infrastructure/memory"
)

const testUserID = "00000000-0000-0000-0000-000000000001"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newEngine(t *testing.T) (*ledger.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return ledger.NewUseCase(store, store.Movements()), store
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func lineReq(name string, serial *string, quantity string) dto.MovementLineRequest {
	return dto.MovementLineRequest{
		Name:         name,
		SerialNumber: serial,
		Unit:         "ud",
		Quantity:     qty(quantity),
	}
}

func movementReq(number, kind string, items ...dto.MovementLineRequest) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{
		Number: number,
		Kind:   kind,
		Date:   "2026-03-10",
		Items:  items,
	}
}

// stockFor busca el registro por la clave (nombre, serie); nil si no existe.
func stockFor(t *testing.T, store *memory.Store, name string, serial *string) *entity.StockRecord {
	t.Helper()
	rec, err := store.Stocks().GetForUpdate(name, serial)
	require.NoError(t, err)
	return rec
}

func auditEntries(t *testing.T, store *memory.Store, ent string) []*entity.AuditEntry {
	t.Helper()
	out, err := store.Audits().List(repository.AuditFilter{Entity: ent})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas (receipt)
// ──────────────────────────────────────────────────────────────────────────────

// Una entrada crea los registros de stock que no existen y deja la clave de
// correlación doc-{id}-{posición} en cada línea.
func TestApplyMovement_EntradaCreaRegistros(t *testing.T) {
	uc, store := newEngine(t)

	resp, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt,
		lineReq("Cámara IP", strPtr("SN-100"), "2"),
		lineReq("Cable UTP", nil, "50"),
	))
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, entity.MovementKindReceipt, resp.Kind)
	assert.Equal(t, "INV-001", resp.Number)
	assert.Equal(t, entity.LineRefKey(resp.ID, 1), resp.Items[0].RefKey)
	assert.Equal(t, entity.LineRefKey(resp.ID, 2), resp.Items[1].RefKey)

	cam := stockFor(t, store, "Cámara IP", strPtr("SN-100"))
	require.NotNil(t, cam, "la entrada debe crear el registro con serie")
	assert.True(t, cam.Quantity.Equal(qty("2")))
	assert.Equal(t, resp.Items[0].RefKey, cam.RefKey)
	assert.Equal(t, 1, cam.DisplayID)

	cable := stockFor(t, store, "Cable UTP", nil)
	require.NotNil(t, cable, "la entrada debe crear el registro sin serie")
	assert.True(t, cable.Quantity.Equal(qty("50")))
}

// Entradas sucesivas sobre la misma clave acumulan cantidad en un único
// registro, sin duplicar fila.
func TestApplyMovement_EntradaAcumulaSobreExistente(t *testing.T) {
	uc, store := newEngine(t)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt, lineReq("Monitor", nil, "3")))
	require.NoError(t, err)
	_, err = uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-002", entity.MovementKindReceipt, lineReq("Monitor", nil, "4")))
	require.NoError(t, err)

	all, err := store.Stocks().List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Quantity.Equal(qty("7")))
}

// El mismo nombre con series distintas (incluida la ausencia de serie) son
// claves de inventario independientes.
func TestApplyMovement_SeriesDistintasSonClavesDistintas(t *testing.T) {
	uc, store := newEngine(t)

	_, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt,
		lineReq("Router", strPtr("A-1"), "1"),
		lineReq("Router", strPtr("A-2"), "1"),
		lineReq("Router", nil, "5"),
	))
	require.NoError(t, err)

	all, err := store.Stocks().List()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	sinSerie := stockFor(t, store, "Router", nil)
	require.NotNil(t, sinSerie)
	assert.True(t, sinSerie.Quantity.Equal(qty("5")))
}

// La serie en blanco se normaliza a ausencia de serie: cae en la misma clave
// que nil.
func TestApplyMovement_SerieEnBlancoEquivaleASinSerie(t *testing.T) {
	uc, store := newEngine(t)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt, lineReq("Teclado", strPtr("  "), "2")))
	require.NoError(t, err)
	_, err = uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-002", entity.MovementKindReceipt, lineReq("Teclado", nil, "3")))
	require.NoError(t, err)

	all, err := store.Stocks().List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Nil(t, all[0].SerialNumber)
	assert.True(t, all[0].Quantity.Equal(qty("5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_ValidacionDeCabecera(t *testing.T) {
	uc, _ := newEngine(t)
	ctx := context.Background()

	casos := []dto.CreateMovementRequest{
		{Kind: entity.MovementKindReceipt, Date: "2026-03-10", Items: []dto.MovementLineRequest{lineReq("X", nil, "1")}},           // sin número
		{Number: "N-1", Kind: "transfer", Date: "2026-03-10", Items: []dto.MovementLineRequest{lineReq("X", nil, "1")}},            // kind desconocido
		{Number: "N-1", Kind: entity.MovementKindReceipt, Date: "no-es-fecha", Items: []dto.MovementLineRequest{lineReq("X", nil, "1")}}, // fecha inválida
		{Number: "N-1", Kind: entity.MovementKindReceipt, Date: "2026-03-10"},                                                     // sin líneas
	}
	for _, in := range casos {
		_, err := uc.ApplyMovement(ctx, testUserID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// Una línea inválida identifica su posición 1-based y nada queda persistido.
func TestApplyMovement_LineaInvalidaIdentificaPosicion(t *testing.T) {
	uc, store := newEngine(t)

	_, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt,
		lineReq("Monitor", nil, "1"),
		lineReq("Cable", nil, "0"), // cantidad no positiva
	))
	require.Error(t, err)
	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	docs, err := store.Movements().List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
	all, err := store.Stocks().List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas (issue)
// ──────────────────────────────────────────────────────────────────────────────

func seedReceipt(t *testing.T, uc *ledger.UseCase, items ...dto.MovementLineRequest) *dto.MovementResponse {
	t.Helper()
	resp, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"SEED-001", entity.MovementKindReceipt, items...))
	require.NoError(t, err)
	return resp
}

func TestApplyMovement_SalidaDescuentaStock(t *testing.T) {
	uc, store := newEngine(t)
	seedReceipt(t, uc, lineReq("Cámara IP", nil, "10"))

	_, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"OUT-001", entity.MovementKindIssue, lineReq("Cámara IP", nil, "4")))
	require.NoError(t, err)

	rec := stockFor(t, store, "Cámara IP", nil)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(qty("6")))
}

// Stock insuficiente en cualquier línea rechaza el documento completo: los
// descuentos de líneas anteriores también se revierten.
func TestApplyMovement_SalidaInsuficienteRechazaTodo(t *testing.T) {
	uc, store := newEngine(t)
	seedReceipt(t, uc,
		lineReq("Cámara IP", nil, "10"),
		lineReq("Monitor", nil, "2"),
	)
	before := len(auditEntries(t, store, entity.AuditEntityStock))

	_, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"OUT-001", entity.MovementKindIssue,
		lineReq("Cámara IP", nil, "3"), // alcanzaría
		lineReq("Monitor", nil, "5"),   // no alcanza
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	var insufErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufErr)
	assert.True(t, insufErr.Available.Equal(qty("2")))
	assert.True(t, insufErr.Requested.Equal(qty("5")))

	// Nada cambió: ni stock, ni documento, ni auditoría.
	cam := stockFor(t, store, "Cámara IP", nil)
	require.NotNil(t, cam)
	assert.True(t, cam.Quantity.Equal(qty("10")), "el descuento de la línea 1 debe revertirse")
	docs, err := store.Movements().List(10, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1, "solo el documento semilla")
	assert.Len(t, auditEntries(t, store, entity.AuditEntityStock), before)
}

func TestApplyMovement_SalidaDeClaveInexistente(t *testing.T) {
	uc, _ := newEngine(t)
	seedReceipt(t, uc, lineReq("Cámara IP", strPtr("SN-1"), "3"))

	// Mismo nombre, serie distinta: la clave no existe.
	_, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"OUT-001", entity.MovementKindIssue, lineReq("Cámara IP", strPtr("SN-2"), "1")))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var notFound *domain.StockNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// La salida que deja la cantidad exactamente en cero elimina el registro; una
// entrada posterior de la misma clave arranca de un registro nuevo.
func TestApplyMovement_SalidaACeroEliminaRegistro(t *testing.T) {
	uc, store := newEngine(t)
	seedReceipt(t, uc, lineReq("Proyector", nil, "4"))
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"OUT-001", entity.MovementKindIssue, lineReq("Proyector", nil, "4")))
	require.NoError(t, err)
	assert.Nil(t, stockFor(t, store, "Proyector", nil), "en cero exacto el registro desaparece")

	_, err = uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-099", entity.MovementKindReceipt, lineReq("Proyector", nil, "1")))
	require.NoError(t, err)
	rec := stockFor(t, store, "Proyector", nil)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(qty("1")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consecutivo visible
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_ConsecutivoVisible(t *testing.T) {
	uc, _ := newEngine(t)
	ctx := context.Background()

	a, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt, lineReq("A", nil, "1")))
	require.NoError(t, err)
	b, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-002", entity.MovementKindReceipt, lineReq("B", nil, "1")))
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.DisplaySeq)
	assert.Equal(t, int64(2), b.DisplaySeq)

	// Un consecutivo explícito se respeta sin consumir la secuencia.
	in := movementReq("INV-003", entity.MovementKindReceipt, lineReq("C", nil, "1"))
	in.DisplaySeq = 500
	c, err := uc.ApplyMovement(ctx, testUserID, in)
	require.NoError(t, err)
	assert.Equal(t, int64(500), c.DisplaySeq)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría
// ──────────────────────────────────────────────────────────────────────────────

// Cada mutación de stock y el documento mismo dejan entrada de auditoría
// dentro de la misma transacción.
func TestApplyMovement_AuditoriaPorMutacion(t *testing.T) {
	uc, store := newEngine(t)

	_, err := uc.ApplyMovement(context.Background(), testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt,
		lineReq("Cámara IP", nil, "2"),
		lineReq("Monitor", nil, "1"),
	))
	require.NoError(t, err)

	stockLogs := auditEntries(t, store, entity.AuditEntityStock)
	require.Len(t, stockLogs, 2)
	for _, e := range stockLogs {
		assert.Equal(t, entity.AuditActionCreate, e.Action)
		assert.Empty(t, e.OldValue, "alta nueva: sin estado anterior")
		assert.NotEmpty(t, e.NewValue)
		require.NotNil(t, e.UserID)
		assert.Equal(t, testUserID, *e.UserID)
	}

	movLogs := auditEntries(t, store, entity.AuditEntityMovement)
	require.Len(t, movLogs, 1)
	assert.Equal(t, entity.AuditActionCreate, movLogs[0].Action)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación con reversa
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteMovement_SalidaRevierteStock(t *testing.T) {
	uc, store := newEngine(t)
	ctx := context.Background()
	seedReceipt(t, uc, lineReq("Cámara IP", nil, "10"))

	out, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"OUT-001", entity.MovementKindIssue, lineReq("Cámara IP", nil, "4")))
	require.NoError(t, err)
	require.True(t, stockFor(t, store, "Cámara IP", nil).Quantity.Equal(qty("6")))

	require.NoError(t, uc.DeleteMovement(ctx, testUserID, out.ID))

	rec := stockFor(t, store, "Cámara IP", nil)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(qty("10")), "la reversa devuelve lo descontado")

	doc, err := store.Movements().GetByID(out.ID)
	require.NoError(t, err)
	assert.Nil(t, doc)
	lines, err := store.Movements().ListLines(out.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	movLogs := auditEntries(t, store, entity.AuditEntityMovement)
	require.NotEmpty(t, movLogs)
	assert.Equal(t, entity.AuditActionDelete, movLogs[0].Action)
	assert.NotEmpty(t, movLogs[0].OldValue)
	assert.Empty(t, movLogs[0].NewValue)
}

// Si la salida dejó el registro en cero (y eliminado), la reversa lo recrea
// con la cantidad devuelta.
func TestDeleteMovement_RecreaRegistroEliminado(t *testing.T) {
	uc, store := newEngine(t)
	ctx := context.Background()
	seedReceipt(t, uc, lineReq("Proyector", nil, "4"))

	out, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"OUT-001", entity.MovementKindIssue, lineReq("Proyector", nil, "4")))
	require.NoError(t, err)
	require.Nil(t, stockFor(t, store, "Proyector", nil))

	require.NoError(t, uc.DeleteMovement(ctx, testUserID, out.ID))
	rec := stockFor(t, store, "Proyector", nil)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(qty("4")))
}

// Eliminar una entrada no toca el stock: solo desaparece el documento.
func TestDeleteMovement_EntradaSinEfectoDeStock(t *testing.T) {
	uc, store := newEngine(t)
	ctx := context.Background()
	in := seedReceipt(t, uc, lineReq("Cámara IP", nil, "10"))

	require.NoError(t, uc.DeleteMovement(ctx, testUserID, in.ID))

	rec := stockFor(t, store, "Cámara IP", nil)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(qty("10")), "la cantidad recibida se conserva")
	doc, err := store.Movements().GetByID(in.ID)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDeleteMovement_Inexistente(t *testing.T) {
	uc, _ := newEngine(t)
	err := uc.DeleteMovement(context.Background(), testUserID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición de cabecera
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateHeader_SoloMetadatos(t *testing.T) {
	uc, store := newEngine(t)
	ctx := context.Background()
	in := movementReq("INV-001", entity.MovementKindReceipt, lineReq("Cámara IP", nil, "10"))
	in.Issuer = "Ivanov"
	doc, err := uc.ApplyMovement(ctx, testUserID, in)
	require.NoError(t, err)

	resp, err := uc.UpdateHeader(ctx, testUserID, doc.ID, dto.UpdateMovementRequest{
		Date:     strPtr("2026-04-01"),
		Receiver: strPtr("Petrov"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", resp.Date.Format("2006-01-02"))
	assert.Equal(t, "Ivanov", resp.Issuer, "el campo ausente no cambia")
	assert.Equal(t, "Petrov", resp.Receiver)

	// La edición de cabecera jamás toca el inventario.
	rec := stockFor(t, store, "Cámara IP", nil)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(qty("10")))
}

func TestUpdateHeader_Errores(t *testing.T) {
	uc, _ := newEngine(t)
	ctx := context.Background()
	doc := seedReceipt(t, uc, lineReq("Cámara IP", nil, "1"))

	_, err := uc.UpdateHeader(ctx, testUserID, doc.ID, dto.UpdateMovementRequest{})
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)

	_, err = uc.UpdateHeader(ctx, testUserID, doc.ID, dto.UpdateMovementRequest{Date: strPtr("ayer")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateHeader(ctx, testUserID, "no-existe", dto.UpdateMovementRequest{Issuer: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetYList(t *testing.T) {
	uc, _ := newEngine(t)
	ctx := context.Background()
	doc := seedReceipt(t, uc,
		lineReq("Cámara IP", nil, "2"),
		lineReq("Monitor", nil, "1"),
	)

	got, err := uc.Get(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.Items[0].Position)
	assert.Equal(t, 2, got.Items[1].Position)

	_, err = uc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo
// ──────────────────────────────────────────────────────────────────────────────

// Ciclo entrada → salida → eliminación de la salida, verificando el saldo en
// cada paso.
func TestCicloCompletoDeUnEquipo(t *testing.T) {
	uc, store := newEngine(t)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"INV-001", entity.MovementKindReceipt, lineReq("Cámara IP", nil, "10")))
	require.NoError(t, err)
	require.True(t, stockFor(t, store, "Cámara IP", nil).Quantity.Equal(qty("10")))

	out, err := uc.ApplyMovement(ctx, testUserID, movementReq(
		"OUT-001", entity.MovementKindIssue, lineReq("Cámara IP", nil, "4")))
	require.NoError(t, err)
	require.True(t, stockFor(t, store, "Cámara IP", nil).Quantity.Equal(qty("6")))

	require.NoError(t, uc.DeleteMovement(ctx, testUserID, out.ID))
	assert.True(t, stockFor(t, store, "Cámara IP", nil).Quantity.Equal(qty("10")))
}
