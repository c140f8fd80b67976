package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/routes"
	"bookpos-backend/services/booking"
	"bookpos-backend/services/catalog"
	"bookpos-backend/services/reminder"
	"bookpos-backend/testutil"
	"bookpos-backend/utils"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(channel, to, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+": "+body)
	return "SM-test", nil
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tn     testutil.Tenant
	sender *recordingSender

	mu         sync.Mutex
	dispatched []booking.Payload
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	config.DB = db
	config.AppConfig = config.Config{
		JWTSecret:         "test-secret",
		MaxRequestsPerMin: 10000,
		CORSOrigins:       "http://localhost:3000",
	}

	e := &testEnv{t: t, db: db, sender: &recordingSender{}}
	e.tn = testutil.SeedTenant(t, db, "Studio")
	e.router = routes.SetupRouter(routes.Deps{
		Catalog:  catalog.New(db, nil, false),
		Sessions: booking.NewMemorySessionStore(time.Hour),
		Dispatcher: booking.DispatcherFunc(func(_ context.Context, p booking.Payload) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.dispatched = append(e.dispatched, p)
			return nil
		}),
		Reminders: reminder.NewService(db, e.sender, false, testutil.Logger()),
	})
	return e
}

func (e *testEnv) do(method, path string, as *models.User, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := utils.GenerateToken(as.ID.String(), as.CompanyID.String(), as.Role)
		require.NoError(e.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (e *testEnv) service(name string, price float64) models.Service {
	e.t.Helper()
	s := models.Service{CompanyID: e.tn.Company.ID, Name: name, Price: price, Duration: 30, IsActive: true}
	require.NoError(e.t, e.db.Create(&s).Error)
	return s
}

func (e *testEnv) staffMember(name string) models.Staff {
	e.t.Helper()
	s := models.Staff{CompanyID: e.tn.Company.ID, Name: name, IsActive: true}
	require.NoError(e.t, e.db.Create(&s).Error)
	return s
}

func (e *testEnv) appointment(svc models.Service, client models.User, date string) models.Appointment {
	e.t.Helper()
	a := models.Appointment{
		CompanyID:     e.tn.Company.ID,
		ClientID:      client.ID,
		ServiceID:     svc.ID,
		Date:          date,
		Time:          "10:00",
		Duration:      svc.Duration,
		Status:        models.AppointmentConfirmed,
		Price:         svc.Price,
		PaymentStatus: models.PaymentPending,
	}
	require.NoError(e.t, e.db.Create(&a).Error)
	return a
}

func tomorrow() string {
	return utils.FormatLocalDate(time.Now().AddDate(0, 0, 1))
}
