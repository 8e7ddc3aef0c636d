package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/clientes_api/internal/models"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy(false)

	for _, op := range []Operation{ListClientes, DeleteCliente, SearchClientes} {
		assert.False(t, p.IsOpen(op), op)
		assert.False(t, p.Allowed(op, models.RoleCliente), op)
		assert.True(t, p.Allowed(op, models.RoleEmpleado), op)
		assert.True(t, p.Allowed(op, models.RoleAdministrador), op)
		assert.False(t, p.Allowed(op, models.Role("")), op)
	}

	assert.True(t, p.IsOpen(CreateCliente))
	assert.True(t, p.Allowed(CreateCliente, models.RoleCliente))
}

func TestProtectedCreate(t *testing.T) {
	p := DefaultPolicy(true)

	assert.False(t, p.IsOpen(CreateCliente))
	assert.False(t, p.Allowed(CreateCliente, models.RoleCliente))
	assert.True(t, p.Allowed(CreateCliente, models.RoleEmpleado))
}

func TestUnknownOperationDenied(t *testing.T) {
	p := DefaultPolicy(false)
	assert.False(t, p.Allowed(Operation("drop-tables"), models.RoleAdministrador))
	assert.False(t, p.IsOpen(Operation("drop-tables")))
}
