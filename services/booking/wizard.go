// Package booking drives the appointment creation wizard: a linear sequence
// of steps that accumulates a draft and hands a payload to a dispatcher.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookpos-backend/models"
	"bookpos-backend/utils"
)

// MaxPreferredStaff caps the shortlist a client may submit.
const MaxPreferredStaff = 3

var (
	ErrStepInvalid  = errors.New("step is incomplete")
	ErrFirstStep    = errors.New("already at the first step")
	ErrClosed       = errors.New("wizard is closed")
	ErrPastDate     = errors.New("date is in the past")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime  = errors.New("time must be a 15 minute slot between 07:00 and 18:45")
	ErrTooManyStaff = errors.New("at most 3 preferred staff can be selected")
	ErrOwnerOnly    = errors.New("only company owners assign staff directly")
	ErrNotOwnerOnly = errors.New("company owners assign a single staff member")
)

type Step int

const (
	StepDateTime Step = iota
	StepService
	StepStaff
	StepSpace
	StepClient
	StepNotes
	StepReview
	StepSubmitting
	StepSubmitted
	StepCancelled
)

var stepNames = [...]string{"datetime", "service", "staff", "space", "client", "notes", "review", "submitting", "submitted", "cancelled"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	for i, name := range stepNames {
		if name == string(b) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", string(b))
}

// Terminal reports whether the wizard has left the editable steps.
func (s Step) Terminal() bool {
	return s > StepReview
}

// Draft is the appointment being assembled.
type Draft struct {
	Date              string      `json:"date,omitempty"`
	Time              string      `json:"time,omitempty"`
	ServiceID         *uuid.UUID  `json:"serviceId,omitempty"`
	StaffID           *uuid.UUID  `json:"staffId,omitempty"`
	PreferredStaffIDs []uuid.UUID `json:"preferredStaffIds,omitempty"`
	SpaceID           *uuid.UUID  `json:"spaceId,omitempty"`
	ClientUserID      *uuid.UUID  `json:"clientUserId,omitempty"`
	Notes             string      `json:"notes,omitempty"`
}

// ServiceSnapshot keeps the service values copied into the payload.
type ServiceSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Duration int       `json:"duration"`
}

type Wizard struct {
	ID        string           `json:"id"`
	CompanyID uuid.UUID        `json:"companyId"`
	UserID    uuid.UUID        `json:"userId"`
	Role      string           `json:"role"`
	Step      Step             `json:"step"`
	Draft     Draft            `json:"draft"`
	Service   *ServiceSnapshot `json:"service,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// New opens a wizard on the first step. Clients book for themselves, so their
// own id pre-fills the client step.
func New(companyID, userID uuid.UUID, role string) *Wizard {
	w := &Wizard{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
		Step:      StepDateTime,
		UpdatedAt: time.Now(),
	}
	w.prefillClient()
	return w
}

func (w *Wizard) IsOwner() bool {
	return w.Role == models.RoleCompanyOwner
}

func (w *Wizard) prefillClient() {
	if w.Role == models.RoleClient && w.UserID != uuid.Nil {
		id := w.UserID
		w.Draft.ClientUserID = &id
	}
}

// StepValid evaluates the predicate guarding a step.
func (w *Wizard) StepValid(s Step) bool {
	d := w.Draft
	switch s {
	case StepDateTime:
		return d.Date != "" && d.Time != ""
	case StepService:
		return d.ServiceID != nil
	case StepStaff:
		if w.IsOwner() {
			return d.StaffID != nil
		}
		return len(d.PreferredStaffIDs) > 0
	case StepClient:
		return d.ClientUserID != nil
	case StepSpace, StepNotes, StepReview:
		return true
	}
	return false
}

// CanAdvance reports whether Next would move past the current step.
func (w *Wizard) CanAdvance() bool {
	return !w.Step.Terminal() && w.StepValid(w.Step)
}

// Validate checks every step before submission.
func (w *Wizard) Validate() error {
	for s := StepDateTime; s <= StepReview; s++ {
		if !w.StepValid(s) {
			return stepError(s)
		}
	}
	return nil
}

func stepError(s Step) error {
	var msg string
	switch s {
	case StepDateTime:
		msg = "please select a date and time"
	case StepService:
		msg = "please select a service"
	case StepStaff:
		msg = "please select a staff member"
	case StepClient:
		msg = "please select a client"
	default:
		msg = s.String()
	}
	return fmt.Errorf("%w: %s", ErrStepInvalid, msg)
}

// Next advances one step. On the review step it submits instead: the payload
// is dispatched and the wizard is cleared and closed without waiting for the
// appointment to be stored.
func (w *Wizard) Next(ctx context.Context, d Dispatcher) (*Payload, error) {
	if w.Step.Terminal() {
		return nil, ErrClosed
	}
	if !w.StepValid(w.Step) {
		return nil, stepError(w.Step)
	}
	if w.Step < StepReview {
		w.Step++
		w.touch()
		return nil, nil
	}
	return w.submit(ctx, d)
}

func (w *Wizard) submit(ctx context.Context, d Dispatcher) (*Payload, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	payload, err := w.BuildPayload()
	if err != nil {
		return nil, err
	}

	w.Step = StepSubmitting
	if err := d.Dispatch(ctx, payload); err != nil {
		w.Step = StepReview
		return nil, fmt.Errorf("dispatch appointment: %w", err)
	}

	w.clear()
	w.Step = StepSubmitted
	w.touch()
	return &payload, nil
}

func (w *Wizard) Previous() error {
	if w.Step.Terminal() {
		return ErrClosed
	}
	if w.Step == StepDateTime {
		return ErrFirstStep
	}
	w.Step--
	w.touch()
	return nil
}

// Reset clears the draft and returns to the first step from anywhere.
func (w *Wizard) Reset() {
	w.clear()
	w.Step = StepDateTime
	w.touch()
}

func (w *Wizard) Cancel() {
	w.clear()
	w.Step = StepCancelled
	w.touch()
}

func (w *Wizard) clear() {
	w.Draft = Draft{}
	w.Service = nil
	w.prefillClient()
}

func (w *Wizard) touch() {
	w.UpdatedAt = time.Now()
}

func (w *Wizard) editable() error {
	if w.Step.Terminal() {
		return ErrClosed
	}
	return nil
}

// SetDate records a YYYY-MM-DD calendar date; dates before today in now's
// location are rejected.
func (w *Wizard) SetDate(date string, now time.Time) error {
	if err := w.editable(); err != nil {
		return err
	}
	parsed, err := utils.ParseLocalDate(date, now.Location())
	if err != nil {
		return ErrInvalidDate
	}
	if IsPastDate(parsed, now) {
		return ErrPastDate
	}
	w.Draft.Date = utils.FormatLocalDate(parsed)
	w.touch()
	return nil
}

// SetDateFrom records the local calendar date of t.
func (w *Wizard) SetDateFrom(t time.Time, now time.Time) error {
	return w.SetDate(utils.FormatLocalDate(t), now)
}

// SetDateTime sets both halves of the first step.
func (w *Wizard) SetDateTime(date, hhmm string, now time.Time) error {
	if err := w.SetDate(date, now); err != nil {
		return err
	}
	return w.SetTime(hhmm)
}

func (w *Wizard) SetTime(hhmm string) error {
	if err := w.editable(); err != nil {
		return err
	}
	if !IsValidSlot(hhmm) {
		return ErrInvalidTime
	}
	w.Draft.Time = hhmm
	w.touch()
	return nil
}

func (w *Wizard) SelectService(s ServiceSnapshot) error {
	if err := w.editable(); err != nil {
		return err
	}
	id := s.ID
	w.Draft.ServiceID = &id
	w.Service = &s
	w.touch()
	return nil
}

// SetStaff assigns a single staff member; company owners only.
func (w *Wizard) SetStaff(id uuid.UUID) error {
	if err := w.editable(); err != nil {
		return err
	}
	if !w.IsOwner() {
		return ErrOwnerOnly
	}
	w.Draft.StaffID = &id
	w.touch()
	return nil
}

// TogglePreferredStaff adds or removes id from the shortlist.
func (w *Wizard) TogglePreferredStaff(id uuid.UUID) error {
	if err := w.editable(); err != nil {
		return err
	}
	if w.IsOwner() {
		return ErrNotOwnerOnly
	}
	for i, existing := range w.Draft.PreferredStaffIDs {
		if existing == id {
			w.Draft.PreferredStaffIDs = append(w.Draft.PreferredStaffIDs[:i], w.Draft.PreferredStaffIDs[i+1:]...)
			w.touch()
			return nil
		}
	}
	if len(w.Draft.PreferredStaffIDs) >= MaxPreferredStaff {
		return ErrTooManyStaff
	}
	w.Draft.PreferredStaffIDs = append(w.Draft.PreferredStaffIDs, id)
	w.touch()
	return nil
}

// SetPreferredStaff replaces the shortlist, dropping duplicates.
func (w *Wizard) SetPreferredStaff(ids []uuid.UUID) error {
	if err := w.editable(); err != nil {
		return err
	}
	if w.IsOwner() {
		return ErrNotOwnerOnly
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	var unique []uuid.UUID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) > MaxPreferredStaff {
		return ErrTooManyStaff
	}
	w.Draft.PreferredStaffIDs = unique
	w.touch()
	return nil
}

// SetSpace sets or clears (nil) the optional space.
func (w *Wizard) SetSpace(id *uuid.UUID) error {
	if err := w.editable(); err != nil {
		return err
	}
	w.Draft.SpaceID = id
	w.touch()
	return nil
}

func (w *Wizard) SetClient(id uuid.UUID) error {
	if err := w.editable(); err != nil {
		return err
	}
	w.Draft.ClientUserID = &id
	w.touch()
	return nil
}

func (w *Wizard) SetNotes(notes string) error {
	if err := w.editable(); err != nil {
		return err
	}
	w.Draft.Notes = notes
	w.touch()
	return nil
}
