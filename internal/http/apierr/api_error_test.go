package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/apierr"
	"github.com/tuanvumaihuynh/bizdesk/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Run("Should map wrapped app errors", func(t *testing.T) {
		err := fmt.Errorf("client service: %w", apperr.ClientNotFoundErr)

		res := apierr.New(err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ClientNotFoundCode, res.Code)
		assert.Equal(t, "client not found", res.Message)
	})

	t.Run("Should list field errors", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		body := struct {
			Name string `json:"name" validate:"required"`
		}{}

		res := apierr.New(v.Validate(body))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Len(t, res.Details, 1)
		assert.Equal(t, apierr.FieldError{Field: "name", Message: "field is required"}, res.Details[0])
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("pq: connection refused"))
		assert.Equal(t, apierr.InternalServerErr, res)
	})
}
