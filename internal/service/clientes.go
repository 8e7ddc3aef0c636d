package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/clientes_api/internal/events"
	"github.com/Skotchmaster/clientes_api/internal/logging"
	"github.com/Skotchmaster/clientes_api/internal/models"
	"github.com/Skotchmaster/clientes_api/internal/repo"
	"github.com/Skotchmaster/clientes_api/internal/search"
)

var ErrSearchUnavailable = search.ErrUnavailable

type ClienteStore interface {
	ListClientes(ctx context.Context) ([]models.ClienteRow, error)
	CreateCliente(ctx context.Context, nombre string, apellidoPaterno *string) (uint, error)
	DeletePersona(ctx context.Context, id uint) error
}

type ClienteService struct {
	Store  ClienteStore
	Index  search.Index
	Events events.Publisher
}

func (s *ClienteService) List(ctx context.Context) ([]models.ClienteRow, error) {
	rows, err := s.Store.ListClientes(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ClienteService) Create(ctx context.Context, nombre string, apellidoPaterno *string) (uint, error) {
	if strings.TrimSpace(nombre) == "" {
		return 0, fmt.Errorf("%w: nombre is required", ErrValidation)
	}

	id, err := s.Store.CreateCliente(ctx, nombre, apellidoPaterno)
	if err != nil {
		return 0, err
	}

	doc := models.ClienteDoc{PersonaID: id, Nombre: nombre}
	if apellidoPaterno != nil {
		doc.ApellidoPaterno = *apellidoPaterno
	}
	s.index(ctx, doc)

	e := events.New(events.TypeClienteCreated, id)
	e.Nombre = nombre
	e.ApellidoPaterno = apellidoPaterno
	publish(ctx, s.Events, events.TopicClientes, e)

	return id, nil
}

// Delete removes the persona behind a client. Dependent rows are dropped by
// the store.
func (s *ClienteService) Delete(ctx context.Context, id uint) error {
	if err := s.Store.DeletePersona(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.unindex(ctx, id)
	publish(ctx, s.Events, events.TopicClientes, events.New(events.TypeClienteDeleted, id))
	return nil
}

func (s *ClienteService) Search(ctx context.Context, query string, from, size int) (int64, []models.ClienteDoc, error) {
	if strings.TrimSpace(query) == "" {
		return 0, nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	if s.Index == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return s.Index.SearchClientes(ctx, query, from, size)
}

func (s *ClienteService) index(ctx context.Context, doc models.ClienteDoc) {
	if s.Index == nil {
		return
	}
	idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Index.IndexCliente(idxCtx, doc); err != nil {
		logging.FromContext(ctx).Warn("index_cliente_failed", "persona_id", doc.PersonaID, "error", err)
	}
}

func (s *ClienteService) unindex(ctx context.Context, id uint) {
	if s.Index == nil {
		return
	}
	idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Index.DeleteCliente(idxCtx, id); err != nil {
		logging.FromContext(ctx).Warn("unindex_cliente_failed", "persona_id", id, "error", err)
	}
}
