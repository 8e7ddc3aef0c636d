package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/clientes_api/internal/models"
)

type NewUser struct {
	Nombre       string
	Email        string
	PasswordHash string
	Rol          models.Role
}

// CreateUser writes persona, the role marker row and the login credential in
// one transaction. A taken email yields ErrEmailTaken.
func (r *GormRepo) CreateUser(ctx context.Context, u NewUser) (uint, error) {
	persona := models.Persona{Nombre: u.Nombre}

	err := r.inTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UsuarioLogin{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if err := tx.Omit(clause.Associations).Create(&persona).Error; err != nil {
			return fmt.Errorf("insert persona: %w", err)
		}

		switch u.Rol {
		case models.RoleCliente:
			if err := tx.Omit(clause.Associations, "fecha_registro").Create(&models.Cliente{PersonaID: persona.IDPersona}).Error; err != nil {
				return fmt.Errorf("insert cliente: %w", err)
			}
		case models.RoleEmpleado:
			if err := tx.Omit(clause.Associations, "fecha_registro").Create(&models.Empleado{PersonaID: persona.IDPersona}).Error; err != nil {
				return fmt.Errorf("insert empleado: %w", err)
			}
		}

		login := models.UsuarioLogin{
			PersonaID:    persona.IDPersona,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Rol:          u.Rol,
		}
		if err := tx.Omit(clause.Associations).Create(&login).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("insert usuario_login: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return persona.IDPersona, nil
}

func (r *GormRepo) FindLoginByEmail(ctx context.Context, email string) (*models.UsuarioLogin, error) {
	var login models.UsuarioLogin
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		return tx.Where("email = ?", email).Take(&login).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find login: %w", err)
	}
	return &login, nil
}
