package db

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
	"github.com/techagentng/greenloop/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	FindOrCreateSocialUser(params *models.CreateSocialUserParams) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdatePassword(password string, email string) error
	UpdateUserResetToken(email string, token string) error
	FindUserByResetToken(token string) (*models.User, error)
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := a.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return fmt.Errorf("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateSocialUser implements the identity-provider contract:
// given an email, find the user or create one from the provider profile.
func (a *authRepo) FindOrCreateSocialUser(params *models.CreateSocialUserParams) (*models.User, error) {
	var user models.User
	err := a.DB.Where("email = ?", params.Email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "could not look up social user")
	}

	user = models.User{
		Fullname:      params.Fullname,
		Username:      params.Email,
		Email:         params.Email,
		IsSocial:      true,
		IsEmailActive: true,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create social user")
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) UpdatePassword(password string, email string) error {
	result := a.DB.Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{"hashed_password": password, "reset_token": ""})
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not update password")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) UpdateUserResetToken(email string, token string) error {
	return a.DB.Model(&models.User{}).Where("email = ?", email).
		Update("reset_token", token).Error
}

func (a *authRepo) FindUserByResetToken(token string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("reset_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	if err := a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		log.Printf("error checking token blacklist: %v", err)
		return false
	}
	return count > 0
}
