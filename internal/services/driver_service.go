package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/models"
	"eld_tracker/internal/sequence"
)

// RegisterInput carries the fields a new driver signs up with.
type RegisterInput struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// DriverService is the identity store: it owns password hashing, the
// username/email uniqueness rules and accountNumber assignment.
type DriverService struct {
	db  *gorm.DB
	seq *sequence.Allocator
}

func NewDriverService(db *gorm.DB) *DriverService {
	return &DriverService{db: db, seq: sequence.New("drivers", "account_number")}
}

// Register creates a driver. The password is hashed exactly once here and
// never re-hashed afterwards. The accountNumber is assigned max+1 inside
// the same transaction as the insert, serialized by the allocator.
func (s *DriverService) Register(input RegisterInput) (*models.Driver, error) {
	if input.FullName == "" || input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: fullName, username, email and password are required", apperrors.ErrValidation)
	}

	// Checked up front so the caller gets a precise error instead of a
	// storage-level uniqueness failure.
	var count int64
	if err := s.db.Model(&models.Driver{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err := s.db.Model(&models.Driver{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	driver := &models.Driver{
		FullName: input.FullName,
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
		Phone:    input.Phone,
		IsActive: true,
	}

	release := s.seq.Acquire()
	defer release()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		next, err := s.seq.Next(tx)
		if err != nil {
			return err
		}
		driver.AccountNumber = next
		return tx.Create(driver).Error
	})
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}
	return driver, nil
}

// FindByEmail resolves a driver record, deleted or not.
func (s *DriverService) FindByEmail(email string) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db.Where("email = ?", email).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}

// ResolveActive resolves an email to a live driver, rejecting deleted and
// deactivated accounts. Token verification goes through here, so a token
// stays only as valid as the current account state.
func (s *DriverService) ResolveActive(email string) (*models.Driver, error) {
	driver, err := s.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if driver.IsDeleted {
		return nil, apperrors.ErrDeleted
	}
	if !driver.IsActive {
		return nil, apperrors.ErrInactive
	}
	return driver, nil
}

// Login validates credentials against the stored hash. Account-state
// checks run before the password comparison, so a deleted account fails
// the same way with or without the right password.
func (s *DriverService) Login(email, password string) (*models.Driver, error) {
	driver, err := s.ResolveActive(email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(driver.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrWrongPassword
	}
	return driver, nil
}

// duplicateError maps a postgres unique violation back to the precise
// duplicate error. The pre-insert checks normally catch these first; this
// covers the window between check and insert.
func duplicateError(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.Constraint, "username") {
			return apperrors.ErrDuplicateUsername
		}
		return apperrors.ErrDuplicateEmail
	}
	return nil
}
