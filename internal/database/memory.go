package database

import (
	"context"
	"sort"
	"time"

	"siniestros-api/internal/models"

	"github.com/hashicorp/go-memdb"
)

const (
	usersTable     = "users"
	incidentsTable = "incidents"
)

func memorySchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			usersTable: {
				Name: usersTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"rut": {
						Name:    "rut",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "RUT"},
					},
				},
			},
			incidentsTable: {
				Name: incidentsTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}
}

// MemoryStore guarda todo en memoria con go-memdb. Sirve para desarrollo y pruebas.
type MemoryStore struct {
	db *memdb.MemDB
}

func NewMemoryStore() (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memorySchema())
	if err != nil {
		return nil, err
	}
	return &MemoryStore{db: db}, nil
}

func (m *MemoryStore) Users() UserRepository         { return memoryUsers{m.db} }
func (m *MemoryStore) Incidents() IncidentRepository { return memoryIncidents{m.db} }

type memoryUsers struct{ db *memdb.MemDB }

func (r memoryUsers) FindByRUT(_ context.Context, rut string) (*models.User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(usersTable, "rut", rut)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	u := *raw.(*models.User)
	return &u, nil
}

// Insert comprueba y escribe dentro de una misma transacción de escritura:
// memdb serializa a los escritores, así que el RUT no puede duplicarse.
func (r memoryUsers) Insert(_ context.Context, u *models.User) error {
	txn := r.db.Txn(true)
	defer txn.Abort()
	existing, err := txn.First(usersTable, "rut", u.RUT)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyExists
	}
	if u.ID == "" {
		u.ID = newID()
	}
	stored := *u
	if err := txn.Insert(usersTable, &stored); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r memoryUsers) List(_ context.Context) ([]models.User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(usersTable, "id")
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		users = append(users, *obj.(*models.User))
	}
	sort.SliceStable(users, func(i, j int) bool {
		return newer(users[i].CreatedAt, users[i].ID, users[j].CreatedAt, users[j].ID)
	})
	return users, nil
}

func (r memoryUsers) Update(_ context.Context, rut string, patch models.UserPatch) (*models.User, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(usersTable, "rut", rut)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	u := *raw.(*models.User)
	applyPatch(&u, patch)
	if err := txn.Insert(usersTable, &u); err != nil {
		return nil, err
	}
	txn.Commit()
	return &u, nil
}

type memoryIncidents struct{ db *memdb.MemDB }

func (r memoryIncidents) Insert(_ context.Context, inc *models.Incident) error {
	txn := r.db.Txn(true)
	defer txn.Abort()
	if inc.ID == "" {
		inc.ID = newID()
	}
	stored := *inc
	if err := txn.Insert(incidentsTable, &stored); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r memoryIncidents) List(_ context.Context) ([]models.Incident, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(incidentsTable, "id")
	if err != nil {
		return nil, err
	}
	list := []models.Incident{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		list = append(list, *obj.(*models.Incident))
	}
	sort.SliceStable(list, func(i, j int) bool {
		return newer(list[i].CreatedAt, list[i].ID, list[j].CreatedAt, list[j].ID)
	})
	return list, nil
}

// newer ordena por createdAt descendente y, a igual instante, por id descendente.
func newer(at time.Time, id string, otherAt time.Time, otherID string) bool {
	if !at.Equal(otherAt) {
		return at.After(otherAt)
	}
	return id > otherID
}

func applyPatch(u *models.User, p models.UserPatch) {
	if p.Nombres != nil {
		u.Nombres = *p.Nombres
	}
	if p.Apellidos != nil {
		u.Apellidos = *p.Apellidos
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Cargo != nil {
		u.Cargo = p.Cargo
	}
	if p.Region != nil {
		u.Region = p.Region
	}
	u.UpdatedAt = p.UpdatedAt
}
