package errxfiber

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRegistry = errx.NewRegistry("ERRXFIBER_TEST")

var codeGone = testRegistry.Register("GONE", errx.TypeNotFound, http.StatusGone, "Gone")

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/registered", func(c *fiber.Ctx) error {
		return fmt.Errorf("wrapped: %w", testRegistry.New(codeGone).WithDetail("id", "1"))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		path   string
		status int
		code   any
	}{
		{"/registered", http.StatusGone, codeGone.ID},
		{"/fiber", fiber.StatusTeapot, float64(fiber.StatusTeapot)},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/missing", http.StatusNotFound, float64(http.StatusNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body["code"])
		})
	}
}
