package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/clientes_api/internal/events"
	"github.com/Skotchmaster/clientes_api/internal/hash"
	"github.com/Skotchmaster/clientes_api/internal/logging"
	"github.com/Skotchmaster/clientes_api/internal/models"
	"github.com/Skotchmaster/clientes_api/internal/repo"
	"github.com/Skotchmaster/clientes_api/internal/tokens"
)

const publishTimeout = 3 * time.Second

type UserStore interface {
	CreateUser(ctx context.Context, u repo.NewUser) (uint, error)
	FindLoginByEmail(ctx context.Context, email string) (*models.UsuarioLogin, error)
}

type AuthService struct {
	Users  UserStore
	Tokens *tokens.Issuer
	Events events.Publisher
}

type Identity struct {
	PersonaID uint
	Rol       models.Role
}

type RegisterInput struct {
	Nombre   string
	Email    string
	Password string
	Rol      string
}

// VerifyCredentials never tells an unknown email apart from a wrong password.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (Identity, error) {
	login, err := s.Users.FindLoginByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("verify credentials: %w", err)
	}
	if !hash.CheckPassword(login.PasswordHash, password) {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{PersonaID: login.PersonaID, Rol: login.Rol}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.Role, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	id, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return "", "", err
	}

	token, err := s.Tokens.Issue(id.PersonaID, id.Rol)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}

	e := events.New(events.TypeUserLoggedIn, id.PersonaID)
	e.Rol = string(id.Rol)
	publish(ctx, s.Events, events.TopicUsers, e)

	return token, id.Rol, nil
}

// Register creates the persona, its role row and the login credential.
// An empty rol means cliente.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	if strings.TrimSpace(in.Nombre) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Password) == "" {
		return 0, fmt.Errorf("%w: nombre, email and password are required", ErrValidation)
	}

	rol := models.RoleCliente
	if in.Rol != "" {
		rol = models.Role(in.Rol)
	}
	if !rol.Valid() {
		return 0, fmt.Errorf("%w %q", ErrInvalidRole, in.Rol)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, hash.ErrPasswordTooLong) {
			return 0, fmt.Errorf("%w: password too long", ErrValidation)
		}
		return 0, err
	}

	id, err := s.Users.CreateUser(ctx, repo.NewUser{
		Nombre:       in.Nombre,
		Email:        in.Email,
		PasswordHash: pwHash,
		Rol:          rol,
	})
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("register: %w", err)
	}

	e := events.New(events.TypeUserRegistered, id)
	e.Nombre = in.Nombre
	e.Email = in.Email
	e.Rol = string(rol)
	publish(ctx, s.Events, events.TopicUsers, e)

	return id, nil
}

// publish runs after commit; a broker failure is logged and swallowed.
func publish(ctx context.Context, p events.Publisher, topic string, e events.Event) {
	if p == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(pubCtx, topic, e); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed",
			"topic", topic,
			"type", e.Type,
			"persona_id", e.PersonaID,
			"error", err,
		)
	}
}
