package database

import (
	"context"
	"errors"
	"time"

	"siniestros-api/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// UserRepository es lo que cada backend debe ofrecer para usuarios.
// Insert debe devolver ErrAlreadyExists si el RUT ya existe (índice único).
type UserRepository interface {
	FindByRUT(ctx context.Context, rut string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, rut string, patch models.UserPatch) (*models.User, error)
}

type IncidentRepository interface {
	Insert(ctx context.Context, inc *models.Incident) error
	// List devuelve las declaraciones de la más nueva a la más antigua.
	List(ctx context.Context) ([]models.Incident, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Credentials es el almacén de credenciales: hashea antes de guardar y
// traduce el choque de RUT en ErrAlreadyExists.
type Credentials struct {
	repo   UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

func NewCredentials(repo UserRepository, hasher PasswordHasher) *Credentials {
	return &Credentials{repo: repo, hasher: hasher, now: now}
}

func (c *Credentials) FindByRUT(ctx context.Context, rut string) (*models.User, error) {
	return c.repo.FindByRUT(ctx, rut)
}

func (c *Credentials) List(ctx context.Context) ([]models.User, error) {
	return c.repo.List(ctx)
}

func (c *Credentials) Create(ctx context.Context, draft models.UserDraft) (*models.User, error) {
	// la verificación previa sólo ahorra un hash; el índice único es quien decide
	if _, err := c.repo.FindByRUT(ctx, draft.RUT); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := c.hasher.Hash(draft.Password)
	if err != nil {
		return nil, err
	}
	ts := c.now()
	u := &models.User{
		Nombres:      draft.Nombres,
		Apellidos:    draft.Apellidos,
		RUT:          draft.RUT,
		PasswordHash: hash,
		Cargo:        draft.Cargo,
		Region:       draft.Region,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := c.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update aplica una edición parcial; una contraseña nueva se vuelve a hashear.
func (c *Credentials) Update(ctx context.Context, rut string, upd models.UserUpdate) (*models.User, error) {
	patch := models.UserPatch{
		Nombres:   upd.Nombres,
		Apellidos: upd.Apellidos,
		Cargo:     upd.Cargo,
		Region:    upd.Region,
		UpdatedAt: c.now(),
	}
	if upd.Password != nil {
		hash, err := c.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	return c.repo.Update(ctx, rut, patch)
}

// Incidents asigna los metadatos de servidor antes de persistir.
type Incidents struct {
	repo IncidentRepository
	now  func() time.Time
}

func NewIncidents(repo IncidentRepository) *Incidents {
	return &Incidents{repo: repo, now: now}
}

func (s *Incidents) Create(ctx context.Context, draft models.IncidentDraft) (*models.Incident, error) {
	draft.ApplyDefaults()
	ts := s.now()
	if draft.Metadata == nil {
		draft.Metadata = &models.Metadata{Version: models.DefaultFormVersion}
	}
	if draft.Metadata.CreatedAt == nil {
		created := ts
		draft.Metadata.CreatedAt = &created
	}
	inc := &models.Incident{
		IncidentDraft: draft,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	if err := s.repo.Insert(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *Incidents) List(ctx context.Context) ([]models.Incident, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Incident{}
	}
	return list, nil
}

// newID genera un UUIDv7: ordenado por tiempo, sirve de desempate cuando dos
// registros comparten createdAt al milisegundo.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// now trunca a milisegundos, la precisión de fecha de MongoDB.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
