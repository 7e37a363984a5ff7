package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type Role string

const (
	RoleOperador   Role = "OPERADOR"
	RoleSupervisor Role = "SUPERVISOR"
	RoleJefeArea   Role = "JEFE_AREA"
	RoleAdmin      Role = "ADMIN"
)

// Roles lista los cargos válidos en orden de menor a mayor privilegio.
var Roles = []Role{RoleOperador, RoleSupervisor, RoleJefeArea, RoleAdmin}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	case nil:
		*r = ""
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	return nil
}

// User es el documento persistido; el hash nunca sale en JSON.
type User struct {
	ID           string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	Nombres      string    `json:"nombres" bson:"nombres" gorm:"not null"`
	Apellidos    string    `json:"apellidos" bson:"apellidos" gorm:"not null"`
	RUT          string    `json:"rut" bson:"rut" gorm:"column:rut;uniqueIndex;size:12;not null"`
	PasswordHash string    `json:"-" bson:"password" gorm:"column:password;not null"`
	Cargo        *Role     `json:"cargo" bson:"cargo" gorm:"type:varchar(20)"`
	Region       *string   `json:"region" bson:"region"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Role devuelve el cargo o "" si el usuario no tiene uno asignado.
func (u *User) Role() Role {
	if u.Cargo == nil {
		return ""
	}
	return *u.Cargo
}

// UserDraft es el payload validado de alta (y, en su variante parcial, de edición).
type UserDraft struct {
	Nombres   string  `json:"nombres" validate:"required,min=1"`
	Apellidos string  `json:"apellidos" validate:"required,min=1"`
	RUT       string  `json:"rut" validate:"required,rut"`
	Password  string  `json:"password" validate:"required,min=6"`
	Cargo     *Role   `json:"cargo" validate:"omitempty,oneof=OPERADOR SUPERVISOR JEFE_AREA ADMIN"`
	Region    *string `json:"region"`
}

// UserUpdate lleva sólo los campos presentes en una edición parcial (contraseña en claro).
type UserUpdate struct {
	Nombres   *string
	Apellidos *string
	Password  *string
	Cargo     *Role
	Region    *string
}

// UserPatch es lo que llega al backend: la contraseña ya viene hasheada.
type UserPatch struct {
	Nombres      *string
	Apellidos    *string
	PasswordHash *string
	Cargo        *Role
	Region       *string
	UpdatedAt    time.Time
}

type LoginRequest struct {
	RUT      string `json:"rut" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
