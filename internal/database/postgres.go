package database

import (
	"context"
	"errors"

	"siniestros-api/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresStore guarda las declaraciones como documentos JSONB vía gorm.
type PostgresStore struct {
	db *gorm.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	// migraciones
	if err := db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Incident{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) Users() UserRepository         { return gormUsers{s.db} }
func (s *PostgresStore) Incidents() IncidentRepository { return gormIncidents{s.db} }

type gormUsers struct{ db *gorm.DB }

func (r gormUsers) FindByRUT(ctx context.Context, rut string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("rut = ?", rut).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r gormUsers) Insert(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (r gormUsers) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r gormUsers) Update(ctx context.Context, rut string, patch models.UserPatch) (*models.User, error) {
	updates := map[string]any{"updated_at": patch.UpdatedAt}
	if patch.Nombres != nil {
		updates["nombres"] = *patch.Nombres
	}
	if patch.Apellidos != nil {
		updates["apellidos"] = *patch.Apellidos
	}
	if patch.PasswordHash != nil {
		updates["password"] = *patch.PasswordHash
	}
	if patch.Cargo != nil {
		updates["cargo"] = *patch.Cargo
	}
	if patch.Region != nil {
		updates["region"] = *patch.Region
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("rut = ?", rut).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByRUT(ctx, rut)
}

type gormIncidents struct{ db *gorm.DB }

func (r gormIncidents) Insert(ctx context.Context, inc *models.Incident) error {
	if inc.ID == "" {
		inc.ID = newID()
	}
	return r.db.WithContext(ctx).Create(inc).Error
}

func (r gormIncidents) List(ctx context.Context) ([]models.Incident, error) {
	list := []models.Incident{}
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
