package repository

import "github.com/jhoicas/activos-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	// FindByUsername devuelve nil si no existe.
	FindByUsername(username string) (*entity.User, error)
}
