package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type AccountService struct {
	db     *gorm.DB
	tokens *utils.TokenIssuer
}

func NewAccountService(db *gorm.DB, tokens *utils.TokenIssuer) *AccountService {
	return &AccountService{db: db, tokens: tokens}
}

type RegisterInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Surname  string      `json:"surname"`
	Phone    *string     `json:"phone"`
	Role     models.Role `json:"role"`
}

type AuthResult struct {
	ID       uint        `json:"id"`
	PersonID *uint       `json:"person_id,omitempty"`
	Name     string      `json:"name"`
	Surname  string      `json:"surname"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Token    string      `json:"token,omitempty"`
}

// Register is the public sign-up. It only ever creates client accounts.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if !in.Role.Valid() {
		return nil, utils.Invalidf("invalid role %q", in.Role)
	}
	if in.Role != models.RoleClient {
		return nil, utils.Forbiddenf("%s accounts are created by a manager", in.Role)
	}
	return s.create(ctx, in)
}

// CreateAccount opens an account of any role. Callers must already be
// authorised as a manager.
func (s *AccountService) CreateAccount(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if !in.Role.Valid() {
		return nil, utils.Invalidf("invalid role %q", in.Role)
	}
	return s.create(ctx, in)
}

// create makes the person matching the role together with its account.
func (s *AccountService) create(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !models.ValidEmail(in.Email) {
		return nil, utils.Invalidf("invalid email %q", in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, utils.Invalidf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	personInput := PersonInput{Name: in.Name, Surname: in.Surname, Phone: in.Phone}
	if in.Role == models.RoleClient {
		personInput.Email = &in.Email
	}
	person, err := newPerson(in.Role.Kind(), personInput)
	if err != nil {
		return nil, err
	}

	account := models.Account{Email: in.Email, PasswordHash: string(hash), Role: in.Role}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Account{}, "email = ?", in.Email)
		if err != nil {
			return err
		}
		if taken {
			return utils.Conflictf("an account already exists for %s", in.Email)
		}
		if err := tx.Create(person).Error; err != nil {
			return utils.FromDB(err, "person")
		}
		account.PersonID = &person.ID
		return utils.FromDB(tx.Create(&account).Error, "account")
	})
	if err != nil {
		return nil, err
	}

	return s.issue(&account, person)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var account models.Account
	err := s.db.WithContext(ctx).Preload("Person").Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Unauthorizedf("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, utils.Unauthorizedf("invalid email or password")
	}

	return s.issue(&account, account.Person)
}

// Me describes the account behind a validated token.
func (s *AccountService) Me(ctx context.Context, accountID uint) (*AuthResult, error) {
	var account models.Account
	if err := findByID(s.db.WithContext(ctx).Preload("Person"), &account, accountID, "account"); err != nil {
		return nil, err
	}
	return describe(&account, account.Person), nil
}

func (s *AccountService) issue(account *models.Account, person *models.Person) (*AuthResult, error) {
	token, err := s.tokens.Generate(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, err
	}
	res := describe(account, person)
	res.Token = token
	return res, nil
}

func describe(account *models.Account, person *models.Person) *AuthResult {
	res := &AuthResult{
		ID:       account.ID,
		PersonID: account.PersonID,
		Email:    account.Email,
		Role:     account.Role,
	}
	if person != nil {
		res.Name = person.Name
		res.Surname = person.Surname
	}
	return res
}
