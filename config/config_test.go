package config

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("DB_NAME", "test")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	conf, err := New()

	assert.NoError(t, err)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "test", conf.DatabaseName)
	assert.Equal(t, 5*time.Second, conf.RequestTimeout)
	assert.Equal(t, "0 3 * * *", conf.CategorySyncSchedule)
}

func TestNewRejectsBadDuration(t *testing.T) {
	t.Setenv("QUERY_TIMEOUT", "soon")
	_, err := New()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, (&Config{CaseNumberTimezone: "Local"}).Location())
	assert.Equal(t, time.Local, (&Config{CaseNumberTimezone: "Mars/Olympus"}).Location())
	assert.Equal(t, "UTC", (&Config{CaseNumberTimezone: "UTC"}).Location().String())
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "error it borked, bad request"}`, rr.Body.String())
}
