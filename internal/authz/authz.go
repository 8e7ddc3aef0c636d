// Package authz holds the role policy for every protected operation.
package authz

import (
	"slices"

	"github.com/Skotchmaster/clientes_api/internal/models"
)

type Operation string

const (
	ListClientes   Operation = "list-clients"
	CreateCliente  Operation = "create-client"
	DeleteCliente  Operation = "delete-client"
	SearchClientes Operation = "search-clients"
)

// Rule is the allow-set of one operation. Open rules need no token at all.
type Rule struct {
	Open  bool
	Allow []models.Role
}

type Policy map[Operation]Rule

var staff = []models.Role{models.RoleEmpleado, models.RoleAdministrador}

// DefaultPolicy leaves create-client open unless protectCreate is set.
func DefaultPolicy(protectCreate bool) Policy {
	p := Policy{
		ListClientes:   {Allow: staff},
		DeleteCliente:  {Allow: staff},
		SearchClientes: {Allow: staff},
		CreateCliente:  {Open: true},
	}
	if protectCreate {
		p[CreateCliente] = Rule{Allow: staff}
	}
	return p
}

func (p Policy) IsOpen(op Operation) bool {
	r, ok := p[op]
	return ok && r.Open
}

// Allowed reports whether rol may invoke op. Operations missing from the
// table are denied.
func (p Policy) Allowed(op Operation, rol models.Role) bool {
	r, ok := p[op]
	if !ok {
		return false
	}
	if r.Open {
		return true
	}
	return slices.Contains(r.Allow, rol)
}
