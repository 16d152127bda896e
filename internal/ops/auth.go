package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hpungsan/erde/internal/db"
	"github.com/hpungsan/erde/internal/errors"
)

// bcryptCost is lowered in tests.
var bcryptCost = bcrypt.DefaultCost

// user is a stored credential record.
type user struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    int64  `json:"createdAt"`
}

// Credentials is the register and login input.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo is the public part of a user record.
type UserInfo struct {
	Email string `json:"email"`
}

// AuthOutput is returned on successful register or login.
type AuthOutput struct {
	Success bool     `json:"success"`
	User    UserInfo `json:"user"`
}

func (c Credentials) validate() (string, error) {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" {
		return "", errors.NewInvalidRequest("email is required")
	}
	if c.Password == "" {
		return "", errors.NewInvalidRequest("password is required")
	}
	return email, nil
}

// Register creates a user. Emails are compared case-insensitively.
func Register(ctx context.Context, database *sql.DB, input Credentials) (*AuthOutput, error) {
	email, err := input.validate()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, errors.NewInvalidRequest("password could not be hashed: " + err.Error())
	}

	err = db.UpdateJSON(ctx, database, db.KeyUsers, func(users *[]user) error {
		for _, u := range *users {
			if u.Email == email {
				return errors.NewUserExists(email)
			}
		}
		*users = append(*users, user{
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Success: true, User: UserInfo{Email: email}}, nil
}

// Login checks credentials against the stored hash.
func Login(ctx context.Context, database *sql.DB, input Credentials) (*AuthOutput, error) {
	email, err := input.validate()
	if err != nil {
		return nil, errors.NewInvalidCredentials()
	}

	users, err := db.GetJSON[[]user](ctx, database, db.KeyUsers)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)) != nil {
			return nil, errors.NewInvalidCredentials()
		}
		return &AuthOutput{Success: true, User: UserInfo{Email: u.Email}}, nil
	}
	return nil, errors.NewInvalidCredentials()
}
