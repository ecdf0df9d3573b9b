package application

import (
	"errors"
	"log"

	"github.com/linskybing/pinta-go/internal/api/middleware"
	"github.com/linskybing/pinta-go/internal/config"
	"github.com/linskybing/pinta-go/internal/domain/access"
	"github.com/linskybing/pinta-go/internal/domain/user"
	"github.com/linskybing/pinta-go/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("Incorrect username or password")
	ErrInactiveUser        = errors.New("Inactive user")
	ErrPasswordHashFailure = errors.New("failed to hash password")
)

type UserService struct {
	Repos *repository.Repos
}

func NewUserService(repos *repository.Repos) *UserService {
	return &UserService{
		Repos: repos,
	}
}

func (s *UserService) RegisterUser(input user.CreateUserInput) (*user.User, error) {
	_, err := s.Repos.User.GetByUsername(input.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrPasswordHashFailure
	}

	usr := &user.User{
		Username:       input.Username,
		HashedPassword: string(hashed),
		Email:          input.Email,
		FullName:       input.FullName,
		IsActive:       true,
	}
	if err := s.Repos.User.Create(usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (s *UserService) LoginUser(username, password string) (user.LoginResponse, error) {
	usr, err := s.Repos.User.GetByUsername(username)
	if err != nil {
		return user.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.HashedPassword), []byte(password)); err != nil {
		return user.LoginResponse{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return user.LoginResponse{}, ErrInactiveUser
	}

	token, err := middleware.GenerateToken(usr.ID, usr.Username, usr.IsSuperuser, config.TokenTTL)
	if err != nil {
		return user.LoginResponse{}, err
	}
	return user.LoginResponse{
		Token:       token,
		UserID:      usr.ID,
		Username:    usr.Username,
		IsSuperuser: usr.IsSuperuser,
	}, nil
}

func (s *UserService) Me(caller access.Subject) (user.UserDTO, error) {
	usr, err := s.Repos.User.GetByID(caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.UserDTO{}, access.NotFound("User not found")
		}
		return user.UserDTO{}, err
	}
	return user.ToDTO(*usr), nil
}

// ActiveSubject reloads the identity behind a token. Tokens outlive changes
// to the account, so deactivation and superuser changes are read from here.
func (s *UserService) ActiveSubject(userID uint) (access.Subject, error) {
	usr, err := s.Repos.User.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Subject{}, access.NotFound("User not found")
		}
		return access.Subject{}, err
	}
	if !usr.IsActive {
		return access.Subject{}, ErrInactiveUser
	}
	return access.Subject{UserID: usr.ID, Username: usr.Username, IsSuperuser: usr.IsSuperuser}, nil
}

// EnsureSuperuser creates the bootstrap account on first start.
func (s *UserService) EnsureSuperuser(username, password string) error {
	if username == "" || password == "" {
		log.Println("No first superuser configured, skipping bootstrap")
		return nil
	}
	_, err := s.Repos.User.GetByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordHashFailure
	}
	if err := s.Repos.User.Create(&user.User{
		Username:       username,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsSuperuser:    true,
	}); err != nil {
		return err
	}
	log.Printf("Created superuser %s", username)
	return nil
}
