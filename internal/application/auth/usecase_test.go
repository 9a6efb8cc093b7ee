package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/auth"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/infrastructure/memory"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/config"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/jwt"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

func newAuthUseCase(t *testing.T) (*memory.Store, *auth.UseCase) {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	recorder := audit.NewRecorder(store.AuditLogs(), log)
	cfg := config.JWTConfig{Secret: "secreto-de-test", Issuer: "erp-test", Expiration: 60}
	return store, auth.NewUseCase(store.Users(), recorder, cfg)
}

func adminActor() audit.Caller {
	return audit.Caller{Actor: audit.Actor{ID: "u-admin", Name: "Ana", Role: entity.RoleAdmin}}
}

func registerUser(t *testing.T, uc *auth.UseCase, email, password, role string) *entity.User {
	t.Helper()
	user, err := uc.Register(context.Background(), adminActor(), dto.RegisterRequest{
		Email:    email,
		Name:     "Bruno Díaz",
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestRegister_HasheaPasswordYNormalizaEmail(t *testing.T) {
	store, uc := newAuthUseCase(t)

	user := registerUser(t, uc, "Bruno@Empresa.COM", "clave-segura-123", "")

	assert.Equal(t, "bruno@empresa.com", user.Email)
	assert.Equal(t, entity.RoleStaff, user.Role, "sin rol explícito queda staff")
	assert.NotEqual(t, "clave-segura-123", user.PasswordHash, "la contraseña nunca se guarda en claro")

	stored, err := store.Users().GetByEmail("bruno@empresa.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestRegister_Validaciones(t *testing.T) {
	_, uc := newAuthUseCase(t)

	_, err := uc.Register(context.Background(), adminActor(), dto.RegisterRequest{Password: "corta"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "password")
}

func TestRegister_RolInvalido(t *testing.T) {
	_, uc := newAuthUseCase(t)

	_, err := uc.Register(context.Background(), adminActor(), dto.RegisterRequest{
		Email:    "x@y.com",
		Name:     "X",
		Password: "clave-segura-123",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	_, uc := newAuthUseCase(t)
	registerUser(t, uc, "bruno@empresa.com", "clave-segura-123", "")

	_, err := uc.Register(context.Background(), adminActor(), dto.RegisterRequest{
		Email:    "bruno@empresa.com",
		Name:     "Otro",
		Password: "clave-segura-123",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_EmiteTokenConIdentidad(t *testing.T) {
	_, uc := newAuthUseCase(t)
	user := registerUser(t, uc, "bruno@empresa.com", "clave-segura-123", entity.RoleAdmin)

	resp, err := uc.Login(context.Background(), audit.RequestMeta{IP: "10.0.0.1"}, dto.LoginRequest{
		Email:    "Bruno@Empresa.com", // el email se normaliza también al entrar
		Password: "clave-segura-123",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)

	userID, name, role, err := jwt.Parse("secreto-de-test", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "Bruno Díaz", name)
	assert.Equal(t, entity.RoleAdmin, role)
}

// Email inexistente y contraseña incorrecta devuelven el mismo error: no se
// filtra qué cuentas existen.
func TestLogin_CredencialesInvalidasIndistinguibles(t *testing.T) {
	_, uc := newAuthUseCase(t)
	registerUser(t, uc, "bruno@empresa.com", "clave-segura-123", "")
	ctx := context.Background()
	meta := audit.RequestMeta{}

	_, errPassword := uc.Login(ctx, meta, dto.LoginRequest{
		Email:    "bruno@empresa.com",
		Password: "incorrecta",
	})
	_, errEmail := uc.Login(ctx, meta, dto.LoginRequest{
		Email:    "nadie@empresa.com",
		Password: "clave-segura-123",
	})

	assert.ErrorIs(t, errPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, errPassword, errEmail)
}

func TestLogin_SinCredenciales(t *testing.T) {
	_, uc := newAuthUseCase(t)

	_, err := uc.Login(context.Background(), audit.RequestMeta{}, dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
