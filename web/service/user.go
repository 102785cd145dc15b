// Package service provides the business logic of the task panel: user
// accounts, task CRUD and outbound mail.
package service

import (
	"errors"
	"strings"

	"taskpanel/database"
	"taskpanel/database/model"
	"taskpanel/logger"
	"taskpanel/util/crypto"

	"gorm.io/gorm"
)

// ErrUsernameTaken is returned when a signup loses the uniqueness race or the
// username plainly exists already.
var ErrUsernameTaken = errors.New("username already taken")

type UserService struct{}

func (s *UserService) GetUser(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckUser verifies a credential pair and returns the user on success, nil
// otherwise. Lookup failures other than not-found are logged and treated as a
// failed login.
func (s *UserService) CheckUser(username string, password string) *model.User {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(user.HashedPassword, password) {
		return nil
	}

	return user
}

// CreateUser hashes the password and inserts the user. Uniqueness is enforced
// by the username index, so a concurrent duplicate signup loses at the insert
// and reports ErrUsernameTaken the same way the pre-check does.
func (s *UserService) CreateUser(username string, password string) (*model.User, error) {
	db := database.GetDB()

	var count int64
	err := db.Model(model.User{}).
		Where("username = ?", username).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		HashedPassword: hashedPassword,
	}
	err = db.Create(user).Error
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// ResetPassword sets a new password for an existing user. Used by the CLI for
// lockout recovery.
func (s *UserService) ResetPassword(username string, password string) error {
	db := database.GetDB()

	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	result := db.Model(model.User{}).
		Where("username = ?", username).
		Update("hashed_password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser removes the user's tasks and then the user record, in that
// order, inside one transaction.
func (s *UserService) DeleteUser(id int) (err error) {
	db := database.GetDB()
	tx := db.Begin()
	defer func() {
		if err == nil {
			tx.Commit()
		} else {
			tx.Rollback()
		}
	}()

	err = tx.Where("owner_id = ?", id).Delete(&model.Task{}).Error
	if err != nil {
		return err
	}
	err = tx.Where("id = ?", id).Delete(&model.User{}).Error
	return err
}
