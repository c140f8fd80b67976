package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpos-backend/models"
)

func TestReminderTemplates_CRUD(t *testing.T) {
	e := newEnv(t)
	owner := &e.tn.Owner

	w := e.do(http.MethodPost, "/api/reminder-templates", owner, map[string]string{"type": "birthday", "message": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/reminder-templates", owner, map[string]string{"type": "appointment", "message": "See you at [Time], [ClientName]"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tpl := decode[models.ReminderTemplate](t, w)

	w = e.do(http.MethodPost, "/api/reminder-templates", owner, map[string]string{"type": "appointment", "message": "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPut, "/api/reminder-templates/"+tpl.ID.String(), owner, map[string]interface{}{"message": "Updated [Time]"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated [Time]", decode[models.ReminderTemplate](t, w).Message)

	w = e.do(http.MethodGet, "/api/reminder-templates", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ReminderTemplate](t, w), 1)

	w = e.do(http.MethodGet, "/api/reminder-templates", &e.tn.Staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodDelete, "/api/reminder-templates/"+tpl.ID.String(), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(http.MethodGet, "/api/reminder-templates/"+tpl.ID.String(), owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendReminders_Now(t *testing.T) {
	e := newEnv(t)
	owner := &e.tn.Owner
	svc := e.service("Haircut", 30)
	e.appointment(svc, e.tn.Client, tomorrow())

	w := e.do(http.MethodPost, "/api/reminder-templates", owner, map[string]string{"type": "appointment", "message": "[ClientName]: [ServiceName] at [Time]"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodPost, "/api/reminders/send", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[struct {
		Sent int `json:"sent"`
	}](t, w).Sent)
	require.Len(t, e.sender.sent, 1)
	assert.Equal(t, "+15550100: Client: Haircut at 10:00", e.sender.sent[0])

	// Already reminded.
	w = e.do(http.MethodPost, "/api/reminders/send?date="+tomorrow(), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, e.sender.sent, 1)

	w = e.do(http.MethodGet, "/api/reminders/logs?status=sent", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ReminderLog](t, w), 1)

	w = e.do(http.MethodPost, "/api/reminders/send?date=tomorrow", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
