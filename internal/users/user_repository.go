package users

import (
	"fmt"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) error
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(id int, changes *models.UserChanges) error
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"password_hash": string(hashedPassword),
			"username":      req.Username,
			"fullname":      req.Fullname,
			"role":          req.Role,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Username already taken", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	var users []models.User
	query := r.repository.GoquDBWrapper.Select("id", "username", "fullname", "role").
		From("users").
		Order(goqu.I("username").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("unable to select users: %w", err)
	}

	return users, nil
}

func (r *userRepositoryImpl) GetUser(id int) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.Select("id", "username", "fullname", "role").
		From("users").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *userRepositoryImpl) UpdateUser(id int, changes *models.UserChanges) error {
	updates := goqu.Record{}

	if changes.Fullname != nil {
		updates["fullname"] = *changes.Fullname
	}
	if changes.PasswordHash != nil {
		updates["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		updates["role"] = *changes.Role
	}
	if len(updates) == 0 {
		return nil
	}

	result, err := r.repository.GoquDBWrapper.Update("users").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no user found with id: %d", id)
	}

	return nil
}
