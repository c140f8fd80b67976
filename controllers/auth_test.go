package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpos-backend/models"
)

func TestRegisterLoginMe(t *testing.T) {
	e := newEnv(t)
	eur := models.Currency{Code: "EUR", Name: "Euro", Symbol: "€", Decimals: 2, Rounding: 0.01, IsActive: true}
	require.NoError(t, e.db.Create(&eur).Error)

	register := map[string]interface{}{
		"email":        "jo@shop.test",
		"phone":        "+44 7700 900123",
		"name":         "Jo",
		"password":     "longenough",
		"companyName":  "Jo's Shop",
		"currencyCode": "eur",
	}
	w := e.do(http.MethodPost, "/auth/register", nil, register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[struct {
		Token   string         `json:"token"`
		Company models.Company `json:"company"`
	}](t, w)
	assert.NotEmpty(t, reg.Token)
	require.NotNil(t, reg.Company.CurrencyID)
	assert.Equal(t, eur.ID, *reg.Company.CurrencyID)

	var templates int64
	e.db.Model(&models.ReminderTemplate{}).Where("company_id = ?", reg.Company.ID).Count(&templates)
	assert.Equal(t, int64(1), templates)

	w = e.do(http.MethodPost, "/auth/register", nil, register)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPost, "/auth/login", nil, map[string]string{"identifier": "jo@shop.test", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = e.do(http.MethodPost, "/auth/login", nil, map[string]string{"identifier": "+447700900123", "password": "longenough"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var owner models.User
	require.NoError(t, e.db.First(&owner, "email = ?", "jo@shop.test").Error)
	w = e.do(http.MethodGet, "/auth/me", &owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[struct {
		Company models.Company `json:"company"`
	}](t, w)
	require.NotNil(t, me.Company.Currency)
	assert.Equal(t, "EUR", me.Company.Currency.Code)
}

func TestRegister_Validation(t *testing.T) {
	e := newEnv(t)
	base := map[string]interface{}{
		"email": "jo@shop.test", "phone": "+447700900123", "name": "Jo",
		"password": "longenough", "companyName": "Shop",
	}

	bad := map[string]interface{}{}
	for k, v := range base {
		bad[k] = v
	}
	bad["phone"] = "12"
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/auth/register", nil, bad).Code)

	bad["phone"] = base["phone"]
	bad["currencyCode"] = "XXX"
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/auth/register", nil, bad).Code)

	bad["currencyCode"] = ""
	bad["password"] = "short"
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/auth/register", nil, bad).Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/services", nil, nil).Code)
}
