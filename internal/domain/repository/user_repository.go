package repository

import (
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios (DIP).
// Solo lo necesario para emitir identidad de llamador; la gestión fina vive fuera del núcleo.
type UserRepository interface {
	Create(user *entity.User) error // ErrDuplicate si el email ya existe
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
