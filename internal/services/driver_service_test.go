package services_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/models"
	"eld_tracker/internal/services"
	"eld_tracker/testutil"
)

func registerInput(name string) services.RegisterInput {
	return services.RegisterInput{
		FullName: name + " Driver",
		Username: name,
		Email:    name + "@example.com",
		Password: "secret123",
		Phone:    "555-0100",
	}
}

func TestRegisterAssignsAccountNumbers(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	alice, err := svc.Register(registerInput("alice"))
	require.NoError(t, err)
	assert.Equal(t, uint(1), alice.AccountNumber)
	assert.NotEmpty(t, alice.UniqueID)
	assert.True(t, alice.IsActive)
	assert.False(t, alice.IsDeleted)

	bob, err := svc.Register(registerInput("bob"))
	require.NoError(t, err)
	assert.Equal(t, uint(2), bob.AccountNumber)
}

func TestRegisterHashesPasswordOnce(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	driver, err := svc.Register(registerInput("alice"))
	require.NoError(t, err)

	var stored models.Driver
	require.NoError(t, db.First(&stored, "email = ?", driver.Email).Error)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	cases := []struct {
		name  string
		input services.RegisterInput
	}{
		{"missing fullName", services.RegisterInput{Username: "a", Email: "a@b.c", Password: "p"}},
		{"missing username", services.RegisterInput{FullName: "A", Email: "a@b.c", Password: "p"}},
		{"missing email", services.RegisterInput{FullName: "A", Username: "a", Password: "p"}},
		{"missing password", services.RegisterInput{FullName: "A", Username: "a", Email: "a@b.c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	_, err := svc.Register(registerInput("alice"))
	require.NoError(t, err)

	dupEmail := registerInput("alice2")
	dupEmail.Email = "alice@example.com"
	_, err = svc.Register(dupEmail)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	dupUsername := registerInput("alice")
	dupUsername.Email = "other@example.com"
	_, err = svc.Register(dupUsername)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
}

func TestRegisterConcurrentAccountNumbers(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(registerInput(fmt.Sprintf("driver%02d", i)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var numbers []uint
	require.NoError(t, db.Model(&models.Driver{}).Order("account_number").Pluck("account_number", &numbers).Error)
	require.Len(t, numbers, n)
	for i, num := range numbers {
		assert.Equal(t, uint(i+1), num, "account numbers must be exactly 1..N with no gaps or duplicates")
	}
}

func TestFindByEmail(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	created, err := svc.Register(registerInput("alice"))
	require.NoError(t, err)

	found, err := svc.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.UniqueID, found.UniqueID)

	_, err = svc.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLogin(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	created, err := svc.Register(registerInput("alice"))
	require.NoError(t, err)

	driver, err := svc.Login("alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.UniqueID, driver.UniqueID)

	_, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)

	_, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoginBlockedAccounts(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	_, err := svc.Register(registerInput("alice"))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Driver{}).Where("email = ?", "alice@example.com").Update("is_active", false).Error)
	_, err = svc.Login("alice@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInactive, "correct password must not override the inactive flag")

	require.NoError(t, db.Model(&models.Driver{}).Where("email = ?", "alice@example.com").Update("is_deleted", true).Error)
	_, err = svc.Login("alice@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrDeleted)
}

func TestResolveActiveChecksAccountState(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := services.NewDriverService(db)

	created, err := svc.Register(registerInput("alice"))
	require.NoError(t, err)

	driver, err := svc.ResolveActive("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.UniqueID, driver.UniqueID)

	require.NoError(t, db.Model(&models.Driver{}).Where("email = ?", "alice@example.com").Update("is_deleted", true).Error)
	_, err = svc.ResolveActive("alice@example.com")
	assert.ErrorIs(t, err, apperrors.ErrDeleted)
}
