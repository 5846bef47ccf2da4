package models

import (
	"context"
	"errors"
	"time"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        int        `gorm:"primary_key" json:"id"`
	Email     string     `gorm:"size:100;not null;unique" json:"email" binding:"required"`
	FullName  string     `gorm:"size:100;not null" json:"full_name" binding:"required"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      UserRole   `gorm:"type:enum('admin','vendedor');default:'vendedor'" json:"role"`
	IsActive  *bool      `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Email    string   `json:"email" binding:"required,email"`
	FullName string   `json:"full_name" binding:"required"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role"`
}

type LoginInfo struct {
	Token    string   `json:"token"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	UserId   int      `json:"user_id"`
	LastSeen *string  `json:"last_seen,omitempty"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	role := input.Role
	if role == "" {
		role = UserRoleSeller
	}
	if !role.Valid() {
		return nil, utils.NewValidationError("invalid role %q", string(input.Role))
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:    input.Email,
		FullName: input.FullName,
		Password: string(hashed),
		Role:     role,
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, utils.NewValidationError("email %q is already registered", input.Email)
		}
		return nil, err
	}
	return &user, nil
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil && errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, errors.New("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, user.FullName, string(user.Role))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.WithContext(ctx).Model(&User{}).
		Where("id = ?", user.ID).
		Update("last_login", now).Error; err != nil {
		config.LogError(config.GetLogger(), "user.go", "Login", "update last_login", user.ID, err)
	}

	// LastSeen reports the login before this one.
	var lastSeen *string
	if user.LastLogin != nil {
		s := user.LastLogin.Format(time.RFC3339)
		lastSeen = &s
	}

	return &LoginInfo{
		Token:    token,
		Name:     user.FullName,
		Role:     user.Role,
		UserId:   user.ID,
		LastSeen: lastSeen,
	}, nil
}
