package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studyplanner/internal/model"
)

// ErrDuplicateEmail is returned when registering an email that already
// has an account.
var ErrDuplicateEmail = errors.New("account already exists")

// AccountRepository handles CRUD for accounts and their planner records.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. The email must not be taken.
func (r *AccountRepository) Create(ctx context.Context, email, passwordHash, userName string, record []byte) (*model.Account, error) {
	db := r.db.WithContext(ctx)

	var existing model.Account
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case errors.Is(err, gorm.ErrRecordNotFound):
		account := model.Account{
			Email:        email,
			PasswordHash: passwordHash,
			UserName:     userName,
			Record:       record,
		}
		if err := db.Create(&account).Error; err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		return &account, nil
	default:
		return nil, fmt.Errorf("find account: %w", err)
	}
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// SaveRecord replaces the stored planner record for an account.
func (r *AccountRepository) SaveRecord(ctx context.Context, id uint, record []byte) error {
	res := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Update("record", record)
	if res.Error != nil {
		return fmt.Errorf("save record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
