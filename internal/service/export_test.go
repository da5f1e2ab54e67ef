package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
	"github.com/tuanvumaihuynh/bizdesk/pkg/zerror"
)

func TestParseExportFormat(t *testing.T) {
	t.Run("Should default to csv", func(t *testing.T) {
		f, err := service.ParseExportFormat("")
		require.NoError(t, err)
		assert.Equal(t, service.ExportFormatCSV, f)
	})

	t.Run("Should accept xlsx in any case", func(t *testing.T) {
		f, err := service.ParseExportFormat(" XLSX ")
		require.NoError(t, err)
		assert.Equal(t, service.ExportFormatXLSX, f)
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := service.ParseExportFormat("pdf")
		assert.True(t, zerror.HasCode(err, apperr.ValidationErrorCode))
	})
}
