package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookpos-backend/config"
	"bookpos-backend/models"
	"bookpos-backend/services/booking"
	"bookpos-backend/services/catalog"
	"bookpos-backend/utils"
)

// BookingController exposes the appointment wizard as server-held sessions.
type BookingController struct {
	Sessions   booking.SessionStore
	Dispatcher booking.Dispatcher
	Catalog    *catalog.Catalog
	Now        func() time.Time
}

func NewBookingController(sessions booking.SessionStore, d booking.Dispatcher, cat *catalog.Catalog) *BookingController {
	return &BookingController{Sessions: sessions, Dispatcher: d, Catalog: cat, Now: time.Now}
}

// UpdateSessionInput sets draft fields; absent fields are left alone.
// ClearSpace removes a previously chosen space.
type UpdateSessionInput struct {
	Date              *string      `json:"date"`
	Time              *string      `json:"time"`
	ServiceID         *uuid.UUID   `json:"serviceId"`
	StaffID           *uuid.UUID   `json:"staffId"`
	PreferredStaffIDs *[]uuid.UUID `json:"preferredStaffIds"`
	TogglePreferred   *uuid.UUID   `json:"togglePreferredStaffId"`
	SpaceID           *uuid.UUID   `json:"spaceId"`
	ClearSpace        bool         `json:"clearSpace"`
	ClientUserID      *uuid.UUID   `json:"clientUserId"`
	Notes             *string      `json:"notes"`
}

type sessionView struct {
	*booking.Wizard
	CanAdvance bool `json:"canAdvance"`
}

func view(w *booking.Wizard) sessionView {
	return sessionView{Wizard: w, CanAdvance: w.CanAdvance()}
}

func (bc *BookingController) CreateSession(c *gin.Context) {
	companyID, ok := tenant(c)
	if !ok {
		return
	}
	userID, _ := utils.UserID(c)

	w := booking.New(companyID, userID, utils.Role(c))
	if err := bc.Sessions.Save(c.Request.Context(), w); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to open booking session")
		return
	}
	c.JSON(http.StatusCreated, view(w))
}

// load fetches the caller's session; sessions of other users are reported as missing.
func (bc *BookingController) load(c *gin.Context) (*booking.Wizard, bool) {
	companyID, ok := tenant(c)
	if !ok {
		return nil, false
	}
	userID, _ := utils.UserID(c)

	w, err := bc.Sessions.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrSessionNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking session not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load booking session")
		}
		return nil, false
	}
	if w.CompanyID != companyID || w.UserID != userID {
		utils.RespondWithError(c, http.StatusNotFound, "Booking session not found")
		return nil, false
	}
	return w, true
}

func (bc *BookingController) save(c *gin.Context, w *booking.Wizard, status int) {
	if err := bc.Sessions.Save(c.Request.Context(), w); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save booking session")
		return
	}
	c.JSON(status, view(w))
}

func (bc *BookingController) GetSession(c *gin.Context) {
	w, ok := bc.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view(w))
}

func (bc *BookingController) UpdateSession(c *gin.Context) {
	w, ok := bc.load(c)
	if !ok {
		return
	}
	var input UpdateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if status, err := bc.apply(c, w, input); err != nil {
		utils.RespondWithError(c, status, err.Error())
		return
	}
	bc.save(c, w, http.StatusOK)
}

// apply validates referenced records against the company before handing
// them to the wizard.
func (bc *BookingController) apply(c *gin.Context, w *booking.Wizard, in UpdateSessionInput) (int, error) {
	ctx := c.Request.Context()

	if in.Date != nil {
		if err := w.SetDate(*in.Date, bc.Now()); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.Time != nil {
		if err := w.SetTime(*in.Time); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.ServiceID != nil {
		svc, err := bc.Catalog.GetService(ctx, w.CompanyID, *in.ServiceID)
		if err != nil {
			return lookupStatus(err), errors.New("service not found")
		}
		if !svc.IsActive {
			return http.StatusBadRequest, errors.New("service is not available")
		}
		if err := w.SelectService(booking.ServiceSnapshot{ID: svc.ID, Name: svc.Name, Price: svc.Price, Duration: svc.Duration}); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.StaffID != nil {
		if _, err := bc.Catalog.GetStaff(ctx, w.CompanyID, *in.StaffID); err != nil {
			return lookupStatus(err), errors.New("staff member not found")
		}
		if err := w.SetStaff(*in.StaffID); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.PreferredStaffIDs != nil {
		for _, id := range *in.PreferredStaffIDs {
			if _, err := bc.Catalog.GetStaff(ctx, w.CompanyID, id); err != nil {
				return lookupStatus(err), errors.New("staff member not found")
			}
		}
		if err := w.SetPreferredStaff(*in.PreferredStaffIDs); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.TogglePreferred != nil {
		if _, err := bc.Catalog.GetStaff(ctx, w.CompanyID, *in.TogglePreferred); err != nil {
			return lookupStatus(err), errors.New("staff member not found")
		}
		if err := w.TogglePreferredStaff(*in.TogglePreferred); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.ClearSpace {
		if err := w.SetSpace(nil); err != nil {
			return http.StatusBadRequest, err
		}
	} else if in.SpaceID != nil {
		if _, err := bc.Catalog.GetSpace(ctx, w.CompanyID, *in.SpaceID); err != nil {
			return lookupStatus(err), errors.New("space not found")
		}
		if err := w.SetSpace(in.SpaceID); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.ClientUserID != nil {
		if w.Role == models.RoleClient && *in.ClientUserID != w.UserID {
			return http.StatusForbidden, errors.New("clients can only book for themselves")
		}
		client, err := bc.Catalog.GetUser(ctx, w.CompanyID, *in.ClientUserID)
		if err != nil {
			return lookupStatus(err), errors.New("client not found")
		}
		if client.Role != models.RoleClient {
			return http.StatusBadRequest, errors.New("user is not a client")
		}
		if err := w.SetClient(client.ID); err != nil {
			return http.StatusBadRequest, err
		}
	}
	if in.Notes != nil {
		if err := w.SetNotes(*in.Notes); err != nil {
			return http.StatusBadRequest, err
		}
	}
	return 0, nil
}

func lookupStatus(err error) int {
	if isNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Next advances the wizard. On the review step it submits the appointment and
// answers 202 with the dispatched payload; the session is closed.
func (bc *BookingController) Next(c *gin.Context) {
	w, ok := bc.load(c)
	if !ok {
		return
	}

	payload, err := w.Next(c.Request.Context(), bc.Dispatcher)
	switch {
	case errors.Is(err, booking.ErrStepInvalid):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, booking.ErrClosed):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		config.GetLogger().Error("appointment dispatch failed", zap.Error(err))
		bc.Sessions.Save(c.Request.Context(), w)
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Could not submit the appointment, please try again")
		return
	}

	if payload == nil {
		bc.save(c, w, http.StatusOK)
		return
	}
	if err := bc.Sessions.Delete(c.Request.Context(), w.ID); err != nil {
		config.GetLogger().Warn("failed to drop submitted booking session", zap.Error(err))
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message":     "Appointment submitted",
		"appointment": payload,
		"session":     view(w),
	})
}

func (bc *BookingController) Previous(c *gin.Context) {
	w, ok := bc.load(c)
	if !ok {
		return
	}
	if err := w.Previous(); err != nil {
		utils.RespondWithError(c, http.StatusConflict, err.Error())
		return
	}
	bc.save(c, w, http.StatusOK)
}

func (bc *BookingController) Reset(c *gin.Context) {
	w, ok := bc.load(c)
	if !ok {
		return
	}
	w.Reset()
	bc.save(c, w, http.StatusOK)
}

// Cancel discards the draft and closes the session.
func (bc *BookingController) Cancel(c *gin.Context) {
	w, ok := bc.load(c)
	if !ok {
		return
	}
	w.Cancel()
	if err := bc.Sessions.Delete(c.Request.Context(), w.ID); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// Slots lists bookable start times; ?date= must not be in the past.
func (bc *BookingController) Slots(c *gin.Context) {
	now := bc.Now()
	date := c.DefaultQuery("date", utils.FormatLocalDate(now))
	day, err := utils.ParseLocalDate(date, now.Location())
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if booking.IsPastDate(day, now) {
		utils.RespondWithError(c, http.StatusBadRequest, "Date is in the past")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": booking.TimeSlots()})
}
