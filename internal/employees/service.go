package employees

import (
	"context"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/n0l0g0/pos-frontend/pkg/validate"
)

// DefaultRole is assigned when the form leaves the role blank.
const DefaultRole = "staff"

// UserAPI is the slice of the remote API the employee screen uses.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	CreateUser(ctx context.Context, input api.UserInput) error
	UpdateUser(ctx context.Context, id string, input api.UserInput) error
	DeleteUser(ctx context.Context, id string) error
	SetUserPassword(ctx context.Context, id, password string) error
}

// Form is the employee editor's working state. An empty ID means create;
// password is required on create only and never rides on updates.
type Form struct {
	ID       string `json:"_id"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Service struct {
	api UserAPI
}

func NewService(userAPI UserAPI) *Service {
	if userAPI == nil {
		panic("employees: userAPI is required")
	}
	return &Service{api: userAPI}
}

func (s *Service) List(ctx context.Context) ([]api.User, error) {
	return s.api.ListUsers(ctx)
}

// Save validates the form and either creates or updates the account.
func (s *Service) Save(ctx context.Context, form Form) error {
	if err := validate.Struct(form); err != nil {
		return err
	}
	role := form.Role
	if role == "" {
		role = DefaultRole
	}

	if form.ID == "" {
		if form.Password == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "password is required for new accounts")
		}
		return s.api.CreateUser(ctx, api.UserInput{
			Name:     form.Name,
			Email:    form.Email,
			Password: form.Password,
			Role:     role,
		})
	}

	// Password changes go through ResetPassword, never the update payload.
	return s.api.UpdateUser(ctx, form.ID, api.UserInput{
		Name:  form.Name,
		Email: form.Email,
		Role:  role,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.api.DeleteUser(ctx, id)
}

func (s *Service) ResetPassword(ctx context.Context, id, password string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "password cannot be empty")
	}
	return s.api.SetUserPassword(ctx, id, password)
}

// FormFromUser seeds the editor from an existing account.
func FormFromUser(u api.User) Form {
	return Form{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
