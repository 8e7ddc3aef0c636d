package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/clientes_api/internal/models"
)

func (r *GormRepo) ListClientes(ctx context.Context) ([]models.ClienteRow, error) {
	rows := []models.ClienteRow{}
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		return tx.Table("persona AS p").
			Select("p.nombre, p.apellido_paterno, c.fecha_registro").
			Joins("JOIN cliente c ON p.id_persona = c.persona_id").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	return rows, nil
}

// CreateCliente inserts the persona and its cliente row atomically.
func (r *GormRepo) CreateCliente(ctx context.Context, nombre string, apellidoPaterno *string) (uint, error) {
	persona := models.Persona{Nombre: nombre, ApellidoPaterno: apellidoPaterno}
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&persona).Error; err != nil {
			return fmt.Errorf("insert persona: %w", err)
		}
		// fecha_registro comes from the column default
		cliente := models.Cliente{PersonaID: persona.IDPersona}
		if err := tx.Omit(clause.Associations, "fecha_registro").Create(&cliente).Error; err != nil {
			return fmt.Errorf("insert cliente: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create cliente: %w", err)
	}
	return persona.IDPersona, nil
}

// DeletePersona removes the persona; cliente, empleado and usuario_login rows
// go with it through the store's ON DELETE CASCADE.
func (r *GormRepo) DeletePersona(ctx context.Context, id uint) error {
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id_persona = ?", id).Delete(&models.Persona{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete persona %d: %w", id, err)
	}
	return nil
}
