// internal/pkg/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindClassification(t *testing.T) {
	assert.True(t, IsValidation(Validationf("bad input")))
	assert.True(t, IsNotFound(NotFoundf("missing")))
	assert.True(t, IsConflict(Conflictf("duplicate")))
	assert.True(t, IsInsufficientStock(InsufficientStock(1, "tire", 4, 2)))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	// Classification survives wrapping
	wrapped := fmt.Errorf("while checking out: %w", InsufficientStock(1, "tire", 4, 2))
	assert.True(t, IsInsufficientStock(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validationf("bad")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InsufficientStock(1, "", 2, 0)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFoundf("missing")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflictf("dup")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestUserMessageHidesInternalCause(t *testing.T) {
	internal := Internalf(errors.New("pq: connection refused"), "failed to load order 7")

	assert.Equal(t, "internal server error", UserMessage(internal))
	assert.Contains(t, internal.Error(), "connection refused") // stays available for logs

	assert.Equal(t, "missing", UserMessage(NotFoundf("missing")))
}

func TestInsufficientStockMessage(t *testing.T) {
	named := InsufficientStock(3, "Winter Grip 225/45R17", 5, 4)
	assert.Equal(t, "insufficient stock for Winter Grip 225/45R17: requested 5, available 4", named.Error())

	anonymous := InsufficientStock(3, "", 5, 4)
	assert.Contains(t, anonymous.Error(), "product 3")
}
