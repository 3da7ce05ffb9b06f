package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evento-notification/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var errSentinel = fmt.Errorf("sentinel")

func validationErr(field string, messages ...string) error {
	c := errors.NewValidationErrorCollector()
	c.Add(ValidationErrorCode, field, messages...)
	return c.Err()
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	return c, w
}

func TestErrorWithMap(t *testing.T) {
	eMap := ErrorMapping{
		errSentinel: errors.NewHTTPError(404, "missing", http.StatusNotFound),
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"direct", errSentinel, http.StatusNotFound},
		{"wrapped", fmt.Errorf("lookup: %w", errSentinel), http.StatusNotFound},
		{"validation", validationErr("read", "is required"), http.StatusBadRequest},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			ErrorWithMap(c, tt.err, eMap)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestErrorCarriesFieldErrors(t *testing.T) {
	c, w := newTestContext()
	Error(c, validationErr("newsletter", "must be an object"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"message":"Validation error"`)
	assert.Contains(t, body, `"field":"newsletter"`)
	assert.Contains(t, body, `"messages":["must be an object"]`)
}

func TestSplitMessageForDiscord(t *testing.T) {
	long := strings.Repeat("a", DiscordMaxMessageLen+10)
	chunks := splitMessageForDiscord("head\n" + long)

	assert.Len(t, chunks, 3)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch), DiscordMaxMessageLen)
	}
}
