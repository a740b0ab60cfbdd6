package validator_test

import (
	"testing"

	"github.com/aussiebroadwan/tenancy/pkg/validator"
	"github.com/stretchr/testify/require"
)

type inviteBody struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,role"`
}

type tenantBody struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Slug string `json:"slug" validate:"required,min=3,max=64,slug"`
}

func TestValidateSlug(t *testing.T) {
	t.Parallel()
	v := validator.New()

	tests := []struct {
		slug string
		ok   bool
	}{
		{"acme", true},
		{"acme-corp", true},
		{"team123", true},
		{"Acme", false},
		{"-acme", false},
		{"acme-", false},
		{"ac--me", false},
		{"ac me", false},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := v.Validate(tenantBody{Name: "Acme", Slug: tt.slug})
			if tt.ok {
				require.NoError(t, err)
				require.True(t, validator.ValidSlug(tt.slug))
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Equal(t, "slug", verrs[0].Field)
		})
	}
}

func TestRegisterEnum(t *testing.T) {
	t.Parallel()
	v := validator.New()
	v.RegisterEnum("role", "OWNER", "ADMIN", "MEMBER")

	require.NoError(t, v.Validate(inviteBody{Email: "a@example.com", Role: "ADMIN"}))
	require.NoError(t, v.Validate(inviteBody{Email: "a@example.com"}))

	err := v.Validate(inviteBody{Email: "a@example.com", Role: "ROOT"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	require.Equal(t, "role", verrs[0].Field)
	require.Equal(t, "must be one of: OWNER, ADMIN, MEMBER", verrs[0].Message)
}

func TestValidateReportsJSONNames(t *testing.T) {
	t.Parallel()
	v := validator.New()
	v.RegisterEnum("role", "MEMBER")

	err := v.Validate(inviteBody{Email: "nope"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, "email", verrs[0].Field)
	require.Equal(t, "must be a valid email address", verrs[0].Message)
}
