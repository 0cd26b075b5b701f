package identity

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User is the authenticated principal as reported by the identity service.
// It is replaced wholesale on every identity refresh, never mutated
// field-by-field.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`

	// Permissions holds fully-qualified capability strings
	// (namespace.action, e.g. "cases.view_case").
	Permissions []string `json:"permissions"`

	// Rank is the numeric hierarchy rank used for coarse gating.
	Rank int `json:"rank"`
}

// TokenPair carries the credentials returned by login and refresh. On a
// refresh response, an empty Refresh means the service did not rotate the
// refresh token and the previous value stays valid.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Registration is the input to Register. Validation tags are enforced
// locally before the network call; the service remains authoritative and
// may still return a ValidationError (e.g. duplicate username).
type Registration struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=128"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,e164"`
	NationalID  string `json:"national_id,omitempty" validate:"omitempty,alphanum"`
}

var registrationValidator = newRegistrationValidator()

// newRegistrationValidator builds a validator that reports fields by their
// JSON names, so local and server-side ValidationErrors share a key space.
func newRegistrationValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the registration fields locally. Returns a
// *ValidationError keyed by JSON field names.
func (r Registration) Validate() error {
	err := registrationValidator.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = "failed " + fe.Tag() + " validation"
	}
	return &ValidationError{Fields: fields}
}

// Client is the interface to the remote identity service.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: all methods honor cancellation/deadlines.
// - Errors: operations return the package sentinel errors or a
//   *ValidationError for structured failures; transport faults wrap
//   ErrNetwork. A non-nil error means the zero results are meaningless.
type Client interface {
	// Login exchanges credentials for a token pair and the user they
	// belong to.
	Login(ctx context.Context, identifier, password string) (*TokenPair, *User, error)

	// Register creates an account. It returns no tokens: establishing a
	// session afterwards is a separate Login call by design.
	Register(ctx context.Context, reg Registration) (*User, error)

	// Refresh exchanges a refresh token for a new access token and,
	// when the service rotates, a new refresh token.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// CurrentUser fetches the authoritative user for an access token.
	CurrentUser(ctx context.Context, accessToken string) (*User, error)
}
