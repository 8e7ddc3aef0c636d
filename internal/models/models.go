package models

import (
	"time"
)

type Role string

const (
	RoleCliente       Role = "cliente"
	RoleEmpleado      Role = "empleado"
	RoleAdministrador Role = "administrador"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCliente, RoleEmpleado, RoleAdministrador:
		return true
	}
	return false
}

type Persona struct {
	IDPersona       uint    `gorm:"column:id_persona;primaryKey;autoIncrement" json:"id"`
	Nombre          string  `gorm:"column:nombre;not null"                     json:"nombre"`
	ApellidoPaterno *string `gorm:"column:apellido_paterno"                    json:"apellido_paterno"`
}

func (Persona) TableName() string { return "persona" }

type Cliente struct {
	IDCliente     uint      `gorm:"column:id_cliente;primaryKey;autoIncrement"              json:"id"`
	PersonaID     uint      `gorm:"column:persona_id;not null;uniqueIndex"                  json:"persona_id"`
	FechaRegistro time.Time `gorm:"column:fecha_registro;not null;default:CURRENT_TIMESTAMP" json:"fecha_registro"`
	Persona       *Persona  `gorm:"foreignKey:PersonaID;references:IDPersona;constraint:OnDelete:CASCADE" json:"-"`
}

func (Cliente) TableName() string { return "cliente" }

type Empleado struct {
	IDEmpleado    uint      `gorm:"column:id_empleado;primaryKey;autoIncrement"             json:"id"`
	PersonaID     uint      `gorm:"column:persona_id;not null;uniqueIndex"                  json:"persona_id"`
	FechaRegistro time.Time `gorm:"column:fecha_registro;not null;default:CURRENT_TIMESTAMP" json:"fecha_registro"`
	Persona       *Persona  `gorm:"foreignKey:PersonaID;references:IDPersona;constraint:OnDelete:CASCADE" json:"-"`
}

func (Empleado) TableName() string { return "empleado" }

type UsuarioLogin struct {
	IDUsuario    uint     `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id"`
	PersonaID    uint     `gorm:"column:persona_id;not null;uniqueIndex"     json:"persona_id"`
	Email        string   `gorm:"column:email;not null;uniqueIndex"          json:"email"`
	PasswordHash string   `gorm:"column:password_hash;not null"              json:"-"`
	Rol          Role     `gorm:"column:rol;not null;default:'cliente'"      json:"rol"`
	Persona      *Persona `gorm:"foreignKey:PersonaID;references:IDPersona;constraint:OnDelete:CASCADE" json:"-"`
}

func (UsuarioLogin) TableName() string { return "usuario_login" }

// ClienteRow is the projection returned by the client listing.
type ClienteRow struct {
	Nombre          string    `json:"nombre"`
	ApellidoPaterno *string   `json:"apellido_paterno"`
	FechaRegistro   time.Time `json:"fecha_registro"`
}

// ClienteDoc is the search index document for a client.
type ClienteDoc struct {
	PersonaID       uint   `json:"persona_id"`
	Nombre          string `json:"nombre"`
	ApellidoPaterno string `json:"apellido_paterno,omitempty"`
}

func All() []any {
	return []any{&Persona{}, &Cliente{}, &Empleado{}, &UsuarioLogin{}}
}
