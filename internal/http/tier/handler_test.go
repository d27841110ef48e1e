package tier_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	tierHandler "github.com/MrJamesThe3rd/herdbook/internal/http/tier"
	"github.com/MrJamesThe3rd/herdbook/internal/tier"
)

func TestHandler_Get(t *testing.T) {
	h := tierHandler.NewHandler(tier.NewProvider(tier.Premium))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/v1/tier", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"tier":"premium"}`, strings.TrimSpace(rec.Body.String()))
}
