package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/bizdesk/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("CLIENT_NOT_FOUND", "client not found")

	t.Run("Should format without parent", func(t *testing.T) {
		assert.Equal(t, "Code=CLIENT_NOT_FOUND, Msg=client not found", notFound.Error())
	})

	t.Run("Should unwrap parent through fmt wrapping", func(t *testing.T) {
		cause := errors.New("no rows")
		err := fmt.Errorf("get client: %w", notFound.WrapParent(cause))

		assert.ErrorIs(t, err, cause)
		assert.True(t, zerror.HasCode(err, "CLIENT_NOT_FOUND"))
		assert.False(t, zerror.HasCode(err, "PRODUCT_NOT_FOUND"))
	})

	t.Run("Should keep status and code when overriding message", func(t *testing.T) {
		err := notFound.WithMsgf("client %d not found", 7)

		assert.Equal(t, "client 7 not found", err.Msg())
		assert.Equal(t, "CLIENT_NOT_FOUND", err.Code())
		assert.Equal(t, zerror.StatusNotFound, err.Status())
		assert.Equal(t, "client not found", notFound.Msg())
	})

	t.Run("Should ignore nil parent", func(t *testing.T) {
		assert.NoError(t, notFound.WrapParent(nil).Parent())
	})

	t.Run("Should name statuses", func(t *testing.T) {
		assert.Equal(t, "CONFLICT", zerror.StatusConflict.String())
		assert.Equal(t, "UNKNOWN", zerror.Status(200).String())
	})
}
