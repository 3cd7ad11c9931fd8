package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/grunsho/contador-calorias/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ProfileInput struct {
	Email string `json:"email" binding:"required,email"`
}

func Profile(user *models.User) UserProfile {
	return UserProfile{ID: user.ID, Username: user.Username, Email: user.Email}
}

func (s *UserService) GetProfile(userID uint) (*UserProfile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p := Profile(&user)
	return &p, nil
}

func (s *UserService) UpdateProfile(userID uint, input ProfileInput) (*UserProfile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Email = input.Email
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	p := Profile(&user)
	return &p, nil
}
