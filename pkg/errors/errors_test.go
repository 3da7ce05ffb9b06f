package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHTTPErrorDefaultsToBadRequest(t *testing.T) {
	err := NewHTTPError(1001, "bad", 0)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "bad", err.Error())
}

func TestValidationErrorCollector(t *testing.T) {
	c := NewValidationErrorCollector()
	assert.False(t, c.HasError())
	assert.NoError(t, c.Err())

	c.Add(400, "newsletter", "must be an object")
	c.Add(400, "join_event", "inApp must be a boolean")
	c.Add(400, "newsletter", "must not be null")

	assert.True(t, c.HasError())
	errs := c.Errors()
	assert.Len(t, errs, 2)
	assert.Equal(t, "join_event", errs[0].Field)
	assert.Equal(t, []string{"must be an object", "must not be null"}, errs[1].Messages)
	assert.Equal(t, "join_event: inApp must be a boolean; newsletter: must be an object, must not be null", c.Err().Error())
}
