package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type TenantService struct {
	store
	tokens *utils.JWTManager
}

func NewTenantService(db *gorm.DB, timeout time.Duration, tokens *utils.JWTManager) *TenantService {
	return &TenantService{store: newStore(db, timeout), tokens: tokens}
}

type RegisterInput struct {
	CompanyName string
	Ruc         string
	Email       string
	Username    string
	Password    string
}

type AuthResult struct {
	User    *models.User    `json:"user"`
	Company *models.Company `json:"company,omitempty"`
	Token   string          `json:"token"`
}

// Register creates a company together with its first user, who is always an admin.
func (s *TenantService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Ruc = strings.TrimSpace(in.Ruc)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if in.CompanyName == "" || in.Ruc == "" || in.Email == "" || in.Username == "" {
		return nil, invalidInput("company name, ruc, email and username are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, invalidInput("invalid email %q", in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalidInput("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	company := models.Company{CompanyName: in.CompanyName, Ruc: in.Ruc, Email: in.Email}
	user := models.User{Username: in.Username, Password: string(hash), Role: models.RoleAdmin}
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Company{}).Where("ruc = ? OR email = ?", in.Ruc, in.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check company: %w", err)
		}
		if count > 0 {
			return conflict("a company with this ruc or email already exists")
		}
		if err := ensureUsernameFree(tx, in.Username); err != nil {
			return err
		}

		if err := tx.Create(&company).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("a company with this ruc or email already exists")
			}
			return fmt.Errorf("failed to create company: %w", err)
		}
		user.CompanyID = company.ID
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("username %q is taken", in.Username)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, company.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id": company.ID,
		"username":   user.Username,
	}).Info("company registered")
	return &AuthResult{User: &user, Company: &company, Token: token}, nil
}

// Login checks the credentials. Unknown users and wrong passwords are
// reported the same way.
func (s *TenantService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var user models.User
	err := db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrUnauthorized, "invalid username or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, newError(ErrUnauthorized, "invalid username or password")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.CompanyID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: &user, Token: token}, nil
}

// Me returns the caller with the company they belong to.
func (s *TenantService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	if actor.UserID == "" || actor.CompanyID == "" {
		return nil, newError(ErrUnauthorized, "authentication required")
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var user models.User
	err := db.Preload("Company").
		Where("id = ? AND company_id = ?", actor.UserID, actor.CompanyID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *TenantService) ListUsers(ctx context.Context, actor Actor) ([]models.User, error) {
	if err := authorize(actor, OpUserList); err != nil {
		return nil, err
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	users := []models.User{}
	if err := db.Select("id", "username", "role", "company_id", "created_at", "updated_at").
		Where("company_id = ?", actor.CompanyID).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser adds a staff account to the caller's company.
func (s *TenantService) CreateUser(ctx context.Context, actor Actor, username, password string, role models.Role) (*models.User, error) {
	if err := authorize(actor, OpUserCreate); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidInput("username is required")
	}
	if len(password) < minPasswordLength {
		return nil, invalidInput("password must be at least %d characters", minPasswordLength)
	}
	if !role.Valid() {
		return nil, invalidInput("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	user := models.User{Username: username, Password: string(hash), Role: role, CompanyID: actor.CompanyID}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUsernameFree(tx, username); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("username %q is taken", username)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *TenantService) UpdateUserRole(ctx context.Context, actor Actor, userID string, role models.Role) (*models.User, error) {
	if err := authorize(actor, OpUserUpdateRole); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalidInput("invalid role %q", role)
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var user models.User
	err := db.Where("id = ? AND company_id = ?", userID, actor.CompanyID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := db.Model(&user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role

	utils.InfoLogger.WithFields(logrus.Fields{
		"company_id": actor.CompanyID,
		"user_id":    user.ID,
		"role":       role,
	}).Info("user role updated")
	return &user, nil
}

func ensureUsernameFree(db *gorm.DB, username string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return conflict("username %q is taken", username)
	}
	return nil
}
