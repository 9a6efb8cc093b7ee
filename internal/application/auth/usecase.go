package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/config"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/jwt"
)

// UseCase autenticación: login con bcrypt + emisión de JWT, registro de usuarios.
type UseCase struct {
	users    repository.UserRepository
	recorder *audit.Recorder
	cfg      config.JWTConfig
}

// NewUseCase construye el caso de uso de autenticación.
func NewUseCase(users repository.UserRepository, recorder *audit.Recorder, cfg config.JWTConfig) *UseCase {
	return &UseCase{users: users, recorder: recorder, cfg: cfg}
}

// Login verifica credenciales y emite un token. Email inexistente y contraseña
// incorrecta devuelven el mismo error para no filtrar qué cuentas existen.
func (uc *UseCase) Login(ctx context.Context, meta audit.RequestMeta, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.NewValidationError("email", "email y password son requeridos")
	}

	user, err := uc.users.GetByEmail(strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.Generate(uc.cfg.Secret, user.ID, user.Name, user.Role, uc.cfg.Issuer, uc.cfg.Expiration)
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(audit.Caller{
		Actor: audit.Actor{ID: user.ID, Name: user.Name, Role: user.Role},
		Meta:  meta,
	}, audit.Entry{
		Action:   entity.AuditActionLogin,
		Entity:   entity.AuditEntityUser,
		EntityID: user.ID,
	})

	return &dto.LoginResponse{
		Token: token,
		User:  dto.UserResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	}, nil
}

// Register da de alta un usuario. Restringido a admins en el router.
func (uc *UseCase) Register(ctx context.Context, caller audit.Caller, req dto.RegisterRequest) (*entity.User, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = entity.RoleStaff
	}
	if role != entity.RoleAdmin && role != entity.RoleStaff {
		return nil, domain.NewValidationError("role", "debe ser admin o staff")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionCreated,
		Entity:   entity.AuditEntityUser,
		EntityID: user.ID,
		NewValues: map[string]any{
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
	return user, nil
}

// Logout registra el cierre de sesión. El token es stateless: no hay nada que
// invalidar del lado del servidor, solo queda la traza de auditoría.
func (uc *UseCase) Logout(ctx context.Context, caller audit.Caller) {
	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionLogout,
		Entity:   entity.AuditEntityUser,
		EntityID: caller.Actor.ID,
	})
}

func validateRegister(req dto.RegisterRequest) error {
	ve := &domain.ValidationError{Fields: map[string]string{}}
	if req.Email == "" {
		ve.Fields["email"] = "es requerido"
	}
	if req.Name == "" {
		ve.Fields["name"] = "es requerido"
	}
	if len(req.Password) < 8 {
		ve.Fields["password"] = "debe tener al menos 8 caracteres"
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
