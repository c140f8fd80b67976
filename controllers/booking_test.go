package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpos-backend/models"
	"bookpos-backend/utils"
)

type sessionResp struct {
	ID         string `json:"id"`
	Step       string `json:"step"`
	CanAdvance bool   `json:"canAdvance"`
}

func (e *testEnv) openSession(as *models.User) sessionResp {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/booking/sessions", as, nil)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[sessionResp](e.t, w)
}

func (e *testEnv) step(as *models.User, id, action string, want int) sessionResp {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/booking/sessions/"+id+"/"+action, as, nil)
	require.Equal(e.t, want, w.Code, w.Body.String())
	if want != http.StatusOK {
		return sessionResp{}
	}
	return decode[sessionResp](e.t, w)
}

func (e *testEnv) update(as *models.User, id string, body map[string]interface{}, want int) sessionResp {
	e.t.Helper()
	w := e.do(http.MethodPut, "/api/booking/sessions/"+id, as, body)
	require.Equal(e.t, want, w.Code, w.Body.String())
	if want != http.StatusOK {
		return sessionResp{}
	}
	return decode[sessionResp](e.t, w)
}

func TestBooking_OwnerFlowSubmits(t *testing.T) {
	e := newEnv(t)
	owner := &e.tn.Owner
	svc := e.service("Haircut", 30)
	stylist := e.staffMember("Alex")

	s := e.openSession(owner)
	assert.Equal(t, "datetime", s.Step)
	assert.False(t, s.CanAdvance)

	s = e.update(owner, s.ID, map[string]interface{}{"date": tomorrow(), "time": "10:00"}, http.StatusOK)
	assert.True(t, s.CanAdvance)
	s = e.step(owner, s.ID, "next", http.StatusOK)
	assert.Equal(t, "service", s.Step)

	e.step(owner, s.ID, "next", http.StatusUnprocessableEntity)

	e.update(owner, s.ID, map[string]interface{}{"serviceId": svc.ID}, http.StatusOK)
	s = e.step(owner, s.ID, "next", http.StatusOK)
	assert.Equal(t, "staff", s.Step)

	e.update(owner, s.ID, map[string]interface{}{"staffId": stylist.ID}, http.StatusOK)
	s = e.step(owner, s.ID, "next", http.StatusOK)
	assert.Equal(t, "space", s.Step)
	s = e.step(owner, s.ID, "next", http.StatusOK)
	assert.Equal(t, "client", s.Step)

	e.update(owner, s.ID, map[string]interface{}{"clientUserId": e.tn.Client.ID}, http.StatusOK)
	s = e.step(owner, s.ID, "next", http.StatusOK)
	assert.Equal(t, "notes", s.Step)
	e.update(owner, s.ID, map[string]interface{}{"notes": "short on top"}, http.StatusOK)
	s = e.step(owner, s.ID, "next", http.StatusOK)
	assert.Equal(t, "review", s.Step)

	w := e.do(http.MethodPost, "/api/booking/sessions/"+s.ID+"/next", owner, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	require.Len(t, e.dispatched, 1)
	p := e.dispatched[0]
	assert.Equal(t, e.tn.Company.ID, p.CompanyID)
	assert.Equal(t, e.tn.Client.ID, p.ClientID)
	assert.Equal(t, svc.ID, p.ServiceID)
	require.NotNil(t, p.StaffID)
	assert.Equal(t, stylist.ID, *p.StaffID)
	assert.Equal(t, tomorrow(), p.Date)
	assert.Equal(t, "10:00", p.Time)
	assert.Equal(t, 30.0, p.Price)
	assert.Equal(t, "Pending", p.Status)
	assert.Equal(t, "short on top", p.Notes)

	w = e.do(http.MethodGet, "/api/booking/sessions/"+s.ID, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooking_RejectsPastDateAndBadTime(t *testing.T) {
	e := newEnv(t)
	s := e.openSession(&e.tn.Owner)

	yesterday := utils.FormatLocalDate(time.Now().AddDate(0, 0, -1))
	e.update(&e.tn.Owner, s.ID, map[string]interface{}{"date": yesterday}, http.StatusBadRequest)
	e.update(&e.tn.Owner, s.ID, map[string]interface{}{"time": "19:00"}, http.StatusBadRequest)
	e.update(&e.tn.Owner, s.ID, map[string]interface{}{"time": "10:10"}, http.StatusBadRequest)
}

func TestBooking_ClientBooksOnlyForThemselves(t *testing.T) {
	e := newEnv(t)
	other := models.User{Email: "other@studio.test", Password: "secret123", Name: "Other", Role: models.RoleClient, CompanyID: e.tn.Company.ID, IsActive: true}
	require.NoError(t, e.db.Create(&other).Error)

	s := e.openSession(&e.tn.Client)
	e.update(&e.tn.Client, s.ID, map[string]interface{}{"clientUserId": other.ID}, http.StatusForbidden)
	e.update(&e.tn.Client, s.ID, map[string]interface{}{"clientUserId": e.tn.Client.ID}, http.StatusOK)
}

func TestBooking_ClientShortlistStaysPreferred(t *testing.T) {
	e := newEnv(t)
	client := &e.tn.Client
	svc := e.service("Color", 80)
	a, b := e.staffMember("Alex"), e.staffMember("Sam")

	s := e.openSession(client)
	e.update(client, s.ID, map[string]interface{}{"date": tomorrow(), "time": "14:30"}, http.StatusOK)
	e.step(client, s.ID, "next", http.StatusOK)
	e.update(client, s.ID, map[string]interface{}{"serviceId": svc.ID}, http.StatusOK)
	e.step(client, s.ID, "next", http.StatusOK)

	// Owners pick one staff member; clients only shortlist.
	e.update(client, s.ID, map[string]interface{}{"staffId": a.ID}, http.StatusBadRequest)
	e.update(client, s.ID, map[string]interface{}{"togglePreferredStaffId": a.ID}, http.StatusOK)
	e.update(client, s.ID, map[string]interface{}{"togglePreferredStaffId": b.ID}, http.StatusOK)
	for i := 0; i < 4; i++ {
		e.step(client, s.ID, "next", http.StatusOK)
	}
	w := e.do(http.MethodPost, "/api/booking/sessions/"+s.ID+"/next", client, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	require.Len(t, e.dispatched, 1)
	p := e.dispatched[0]
	assert.Nil(t, p.StaffID)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, p.PreferredStaffIDs)
	assert.Equal(t, client.ID, p.ClientID)
}

func TestBooking_ForeignReferencesAreNotFound(t *testing.T) {
	e := newEnv(t)
	s := e.openSession(&e.tn.Owner)
	e.update(&e.tn.Owner, s.ID, map[string]interface{}{"serviceId": uuid.New()}, http.StatusNotFound)

	intruder := e.tn.Staff
	intruder.ID = uuid.New()
	w := e.do(http.MethodGet, "/api/booking/sessions/"+s.ID, &intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooking_PreviousResetCancel(t *testing.T) {
	e := newEnv(t)
	owner := &e.tn.Owner
	s := e.openSession(owner)

	e.step(owner, s.ID, "previous", http.StatusConflict)
	e.update(owner, s.ID, map[string]interface{}{"date": tomorrow(), "time": "07:00"}, http.StatusOK)
	e.step(owner, s.ID, "next", http.StatusOK)
	s = e.step(owner, s.ID, "reset", http.StatusOK)
	assert.Equal(t, "datetime", s.Step)
	assert.False(t, s.CanAdvance)

	w := e.do(http.MethodDelete, "/api/booking/sessions/"+s.ID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(http.MethodGet, "/api/booking/sessions/"+s.ID, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooking_Slots(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/booking/slots?date="+tomorrow(), &e.tn.Client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Slots []string `json:"slots"`
	}](t, w)
	assert.Len(t, body.Slots, 48)
	assert.Equal(t, "07:00", body.Slots[0])

	yesterday := utils.FormatLocalDate(time.Now().AddDate(0, 0, -1))
	w = e.do(http.MethodGet, "/api/booking/slots?date="+yesterday, &e.tn.Client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/api/booking/slots?date=13/01/2026", &e.tn.Client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
