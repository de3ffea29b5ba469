package repository

import (
	"context"

	"gorm.io/gorm"

	"chartdeck/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	// CreateWithDefaults inserts the user together with its profile and
	// default settings in one transaction.
	CreateWithDefaults(ctx context.Context, user *model.User, profile *model.Profile) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindWithRelations(ctx context.Context, id uint) (*model.User, error)
	// Delete removes the user and everything it owns in one transaction.
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithDefaults(ctx context.Context, user *model.User, profile *model.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if profile == nil {
			profile = &model.Profile{}
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		settings := model.DefaultSettings(user.ID)
		if err := tx.Create(settings).Error; err != nil {
			return err
		}
		user.Profile = profile
		user.Settings = settings
		return nil
	})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindWithRelations(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Profile").Preload("Settings").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&model.Project{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("project_id IN (?)", owned).Delete(&model.Chart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Settings{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
