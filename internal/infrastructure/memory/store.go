// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con un TxRunner que restaura un snapshot ante error. Sirve para
// tests y para correr la aplicación sin PostgreSQL; no pretende el mismo
// aislamiento fino que el adaptador real (las transacciones se serializan
// entre sí con un mutex).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/activos-api/internal/application/ledger"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

// Store contenedor de todas las tablas en memoria.
type Store struct {
	mu   sync.Mutex // protege los mapas
	txMu sync.Mutex // serializa transacciones completas

	stocks    map[string]*entity.StockRecord // por ID
	movements map[string]*entity.MovementDocument
	lines     map[string][]*entity.MovementLine // por movement ID
	audits    []*entity.AuditEntry
	users     map[string]*entity.User // por username
	seq       int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		stocks:    make(map[string]*entity.StockRecord),
		movements: make(map[string]*entity.MovementDocument),
		lines:     make(map[string][]*entity.MovementLine),
		users:     make(map[string]*entity.User),
	}
}

// Movements, Stocks, Audits, Users devuelven los adaptadores de cada puerto.
func (s *Store) Movements() repository.MovementRepository   { return &movementRepo{s} }
func (s *Store) Stocks() repository.StockRecordRepository   { return &stockRepo{s} }
func (s *Store) Audits() repository.AuditRepository         { return &auditRepo{s} }
func (s *Store) Users() repository.UserRepository           { return &userRepo{s} }

// Run ejecuta fn como unidad atómica: toma un snapshot de todas las tablas y
// lo restaura si fn devuelve error, descartando también las entradas de
// auditoría escritas dentro de la llamada.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRecordRepository,
	auditRepo repository.AuditRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Movements(), s.Stocks(), s.Audits()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshotState struct {
	stocks    map[string]*entity.StockRecord
	movements map[string]*entity.MovementDocument
	lines     map[string][]*entity.MovementLine
	audits    []*entity.AuditEntry
	seq       int64
}

func (s *Store) snapshot() snapshotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshotState{
		stocks:    make(map[string]*entity.StockRecord, len(s.stocks)),
		movements: make(map[string]*entity.MovementDocument, len(s.movements)),
		lines:     make(map[string][]*entity.MovementLine, len(s.lines)),
		audits:    append([]*entity.AuditEntry(nil), s.audits...),
		seq:       s.seq,
	}
	for id, r := range s.stocks {
		snap.stocks[id] = copyStock(r)
	}
	for id, m := range s.movements {
		snap.movements[id] = copyMovement(m)
	}
	for id, ls := range s.lines {
		snap.lines[id] = append([]*entity.MovementLine(nil), ls...)
	}
	return snap
}

func (s *Store) restore(snap snapshotState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks = snap.stocks
	s.movements = snap.movements
	s.lines = snap.lines
	s.audits = snap.audits
	s.seq = snap.seq
}

func copyStock(r *entity.StockRecord) *entity.StockRecord {
	c := *r
	if r.SerialNumber != nil {
		serial := *r.SerialNumber
		c.SerialNumber = &serial
	}
	return &c
}

func copyMovement(m *entity.MovementDocument) *entity.MovementDocument {
	c := *m
	return &c
}

func copyLine(l *entity.MovementLine) *entity.MovementLine {
	c := *l
	if l.SerialNumber != nil {
		serial := *l.SerialNumber
		c.SerialNumber = &serial
	}
	return &c
}

// ── MovementRepository ────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(doc *entity.MovementDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements[doc.ID] = copyMovement(doc)
	return nil
}

func (r *movementRepo) CreateLine(line *entity.MovementLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines[line.MovementID] = append(r.s.lines[line.MovementID], copyLine(line))
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.MovementDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return copyMovement(doc), nil
}

func (r *movementRepo) ListLines(movementID string) ([]*entity.MovementLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ls := r.s.lines[movementID]
	out := make([]*entity.MovementLine, 0, len(ls))
	for _, l := range ls {
		out = append(out, copyLine(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *movementRepo) List(limit, offset int) ([]*entity.MovementDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.MovementDocument, 0, len(r.s.movements))
	for _, m := range r.s.movements {
		all = append(all, copyMovement(m))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].DisplaySeq > all[j].DisplaySeq
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *movementRepo) UpdateHeader(doc *entity.MovementDocument) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.movements[doc.ID] = copyMovement(doc)
	return nil
}

func (r *movementRepo) DeleteLines(movementID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.lines, movementID)
	return nil
}

func (r *movementRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.movements, id)
	return nil
}

func (r *movementRepo) NextDisplaySeq() (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	return r.s.seq, nil
}

// ── StockRecordRepository ─────────────────────────────────────────────────────

type stockRepo struct{ s *Store }

func (r *stockRepo) findByKey(name string, serial *string) *entity.StockRecord {
	for _, rec := range r.s.stocks {
		if rec.Name == name && entity.SameSerial(rec.SerialNumber, serial) {
			return rec
		}
	}
	return nil
}

func (r *stockRepo) List() ([]*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.StockRecord, 0, len(r.s.stocks))
	for _, rec := range r.s.stocks {
		out = append(out, copyStock(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayID != out[j].DisplayID {
			return out[i].DisplayID < out[j].DisplayID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *stockRepo) GetByID(id string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.stocks[id]
	if !ok {
		return nil, nil
	}
	return copyStock(rec), nil
}

func (r *stockRepo) GetForUpdate(name string, serial *string) (*entity.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := r.findByKey(name, serial)
	if rec == nil {
		return nil, nil
	}
	return copyStock(rec), nil
}

func (r *stockRepo) EnsureForUpdate(name string, serial *string, unit string) (*entity.StockRecord, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec := r.findByKey(name, serial); rec != nil {
		return copyStock(rec), false, nil
	}
	now := time.Now()
	rec := &entity.StockRecord{
		ID:           uuid.New().String(),
		Name:         name,
		SerialNumber: serial,
		Unit:         unit,
		DateAdded:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.stocks[rec.ID] = copyStock(rec)
	return rec, true, nil
}

func (r *stockRepo) Create(rec *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.findByKey(rec.Name, rec.SerialNumber) != nil {
		return domain.ErrDuplicate
	}
	r.s.stocks[rec.ID] = copyStock(rec)
	return nil
}

func (r *stockRepo) Update(rec *entity.StockRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stocks[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	if other := r.findByKey(rec.Name, rec.SerialNumber); other != nil && other.ID != rec.ID {
		return domain.ErrDuplicate
	}
	r.s.stocks[rec.ID] = copyStock(rec)
	return nil
}

func (r *stockRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.stocks, id)
	return nil
}

// ── AuditRepository ───────────────────────────────────────────────────────────

type auditRepo struct{ s *Store }

func (r *auditRepo) Create(e *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	c.OldValue = append([]byte(nil), e.OldValue...)
	c.NewValue = append([]byte(nil), e.NewValue...)
	r.s.audits = append(r.s.audits, &c)
	return nil
}

func (r *auditRepo) List(f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.AuditEntry, 0, len(r.s.audits))
	for _, e := range r.s.audits {
		if f.Entity != "" && e.Entity != f.Entity {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.CreatedAt.After(*f.To) {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

// ── UserRepository ────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Username]; ok {
		return domain.ErrUserAlreadyExists
	}
	c := *user
	r.s.users[user.Username] = &c
	return nil
}

func (r *userRepo) FindByUsername(username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[username]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}
