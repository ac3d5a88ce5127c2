package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Location string `json:"location" validate:"omitempty,notblank"`
}

func TestStructAcceptsValidPayload(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(loginPayload{Email: "a@b.co", Password: "secret"}))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	v := New()

	err := v.Struct(loginPayload{Email: "nope", Location: "   "})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	require.Contains(t, domainErr.Details, "email")
	require.Contains(t, domainErr.Details, "password")
	require.Contains(t, domainErr.Details, "location")
	assert.Equal(t, "this field is required", domainErr.Details["password"])
	assert.Equal(t, "location must not be blank", domainErr.Details["location"])
}
