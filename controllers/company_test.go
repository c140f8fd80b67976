package controllers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpos-backend/models"
)

func TestUpdateCompany_CurrencyChangesFormatting(t *testing.T) {
	e := newEnv(t)
	sale := e.completedSale()
	eur := models.Currency{Code: "EUR", Name: "Euro", Symbol: "€", Decimals: 2, Rounding: 0.01, IsActive: true}
	require.NoError(t, e.db.Create(&eur).Error)

	w := e.do(http.MethodPut, "/api/company", &e.tn.Staff, map[string]interface{}{"currencyId": eur.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodPut, "/api/company", &e.tn.Owner, map[string]interface{}{
		"currencyId":   eur.ID,
		"name":         "Studio Nord",
		"workingHours": map[string]interface{}{"monday": map[string]interface{}{"open": "08:00", "close": "18:00", "closed": false}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	company := decode[models.Company](t, w)
	assert.Equal(t, "Studio Nord", company.Name)
	assert.Contains(t, company.WorkingHours, "monday")

	w = e.do(http.MethodGet, "/api/sales/"+sale.ID.String(), &e.tn.Owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "€ 44.00", decode[saleResp](t, w).Formatted["total"])

	w = e.do(http.MethodPut, "/api/company", &e.tn.Owner, map[string]interface{}{"currencyId": uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodGet, "/api/company", &e.tn.Client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Company](t, w)
	require.NotNil(t, got.Currency)
	assert.Equal(t, "EUR", got.Currency.Code)
}
