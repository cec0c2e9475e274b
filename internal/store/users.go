package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
)

func (s *Store) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *Store) UserByID(id uint) (*models.User, error) {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, err
	}

	return &user, nil
}

// UserByEmail returns (nil, nil) when no user holds the email, so callers can
// tell "absent" apart from a storage failure.
func (s *Store) UserByEmail(email string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User

	if err := s.db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// UsersExist reports whether every id resolves to an existing user.
func (s *Store) UsersExist(ids []uint) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	unique := dedupe(ids)

	var count int64

	if err := s.db.Model(&models.User{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
		return false, err
	}

	return count == int64(len(unique)), nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
