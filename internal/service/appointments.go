package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/notify"
	"github.com/vinayvardhann/careflow-scheduler/internal/repository"
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
)

// Caller is the authenticated identity a request runs as.
type Caller struct {
	ID   string
	Role models.Role
}

// Publisher receives appointment change events.
type Publisher interface {
	Publish(event notify.Event)
}

// StatsInvalidator drops cached dashboard numbers after a write.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// ListFilter holds the optional equality filters of the list endpoint.
type ListFilter struct {
	Date     string
	Status   string
	Priority string
	DoctorID string
}

// BookRequest is a new booking. PatientName and PatientAge fall back to the
// caller's profile when empty.
type BookRequest struct {
	DoctorID    string
	Date        string
	StartTime   string
	EndTime     string
	Priority    string
	Reason      string
	PatientName string
	PatientAge  *int
}

// RescheduleRequest moves an appointment to a new day and window.
type RescheduleRequest struct {
	Date      string
	StartTime string
	EndTime   string
}

// AppointmentService books, moves, cancels and lists appointments.
type AppointmentService struct {
	store     *repository.Store
	locks     *doctorLocks
	publisher Publisher
	stats     StatsInvalidator
}

func NewAppointmentService(store *repository.Store, publisher Publisher, stats StatsInvalidator) *AppointmentService {
	return &AppointmentService{
		store:     store,
		locks:     newDoctorLocks(),
		publisher: publisher,
		stats:     stats,
	}
}

// List returns appointments ordered by date and start time. Patients only see
// their own bookings; cancelled ones stay visible unless filtered out.
func (s *AppointmentService) List(ctx context.Context, caller Caller, filter ListFilter) ([]models.Appointment, error) {
	f := repository.AppointmentFilter{
		DoctorID: filter.DoctorID,
		Date:     filter.Date,
		Status:   models.AppointmentStatus(filter.Status),
		Priority: models.Priority(filter.Priority),
	}
	if caller.Role == models.RolePatient {
		f.PatientID = caller.ID
	}

	appointments, err := s.store.Appointments.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if err := s.attachDoctors(ctx, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Get returns one appointment. A patient asking for someone else's booking
// gets NotFoundError.
func (s *AppointmentService) Get(ctx context.Context, caller Caller, id string) (*models.Appointment, error) {
	appointment, err := s.load(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RolePatient && (appointment.PatientID == nil || *appointment.PatientID != caller.ID) {
		return nil, &NotFoundError{Resource: "Appointment", ID: id}
	}
	one := []models.Appointment{*appointment}
	if err := s.attachDoctors(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Book creates an appointment after checking the doctor's day for overlaps.
// Emergency bookings are confirmed immediately; everything else is pending.
func (s *AppointmentService) Book(ctx context.Context, caller Caller, req BookRequest) (*models.Appointment, error) {
	iv, err := validateSlot(req.DoctorID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	priority := models.PriorityNormal
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
		if !priority.Valid() {
			return nil, invalid("Invalid priority %q", req.Priority)
		}
	}
	status := models.StatusPending
	if priority == models.PriorityEmergency {
		status = models.StatusConfirmed
	}

	unlock := s.locks.Lock(req.DoctorID)
	defer unlock()

	var created *models.Appointment
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Doctors.LockForBooking(ctx, req.DoctorID); err != nil {
			return fmt.Errorf("lock doctor: %w", err)
		}

		conflict, err := NewConflictChecker(tx.Appointments).FindConflict(ctx, req.DoctorID, req.Date, iv, "")
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{ConflictWith: conflict}
		}

		doctor, err := tx.Doctors.GetByID(ctx, req.DoctorID)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "Doctor", ID: req.DoctorID}
		}
		if err != nil {
			return fmt.Errorf("load doctor: %w", err)
		}

		patientName, patientAge, err := s.patientDetails(ctx, tx, caller, req)
		if err != nil {
			return err
		}

		appointment := &models.Appointment{
			PatientName:    patientName,
			PatientAge:     patientAge,
			DoctorID:       doctor.ID,
			DoctorName:     doctor.Name,
			Specialization: doctor.Specialization,
			Date:           req.Date,
			StartTime:      iv.Start,
			EndTime:        iv.End,
			Priority:       priority,
			Status:         status,
			Reason:         req.Reason,
			Doctor:         doctor.Summary(),
		}
		if caller.ID != "" {
			patientID := caller.ID
			appointment.PatientID = &patientID
		}
		if err := tx.Appointments.Create(ctx, appointment); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		created = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, notify.EventBooked, created)
	return created, nil
}

// UpdateStatus overwrites the status with any of the four known values.
// There is no transition guard: completed may go back to pending.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status string) (*models.Appointment, error) {
	newStatus := models.AppointmentStatus(status)
	if !newStatus.Valid() {
		return nil, invalid("Invalid status %q", status)
	}

	appointment, err := s.setStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, notify.EventStatusChanged, appointment)
	return appointment, nil
}

// Reschedule moves an appointment to a new slot with the same doctor and
// resets it to pending, whatever its previous status.
func (s *AppointmentService) Reschedule(ctx context.Context, id string, req RescheduleRequest) (*models.Appointment, error) {
	existing, err := s.load(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	iv, err := validateSlot(existing.DoctorID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(existing.DoctorID)
	defer unlock()

	var updated *models.Appointment
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Doctors.LockForBooking(ctx, existing.DoctorID); err != nil {
			return fmt.Errorf("lock doctor: %w", err)
		}
		appointment, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}

		busy, err := NewConflictChecker(tx.Appointments).HasConflict(ctx, appointment.DoctorID, req.Date, iv, appointment.ID)
		if err != nil {
			return err
		}
		if busy {
			return &ConflictError{Message: "New time slot has a conflict"}
		}

		appointment.Date = req.Date
		appointment.StartTime = iv.Start
		appointment.EndTime = iv.End
		appointment.Status = models.StatusPending
		if err := tx.Appointments.Save(ctx, appointment); err != nil {
			return fmt.Errorf("reschedule appointment: %w", err)
		}
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, notify.EventRescheduled, updated)
	return updated, nil
}

// Cancel marks the appointment cancelled and keeps the record. Its slot
// becomes free for new bookings.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.setStatus(ctx, id, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, notify.EventCancelled, appointment)
	return appointment, nil
}

// setStatus touches only the status column so a concurrent reschedule's
// date and times are never written back.
func (s *AppointmentService) setStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	appointment, err := s.store.Appointments.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Appointment", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	return appointment, nil
}

func (s *AppointmentService) load(ctx context.Context, store *repository.Store, id string) (*models.Appointment, error) {
	appointment, err := store.Appointments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "Appointment", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	return appointment, nil
}

// attachDoctors fills Doctor from the directory. Appointments whose doctor
// was removed keep only the booking-time snapshot.
func (s *AppointmentService) attachDoctors(ctx context.Context, appointments []models.Appointment) error {
	seen := make(map[string]bool)
	var ids []string
	for i := range appointments {
		if id := appointments[i].DoctorID; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	doctors, err := s.store.Doctors.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load doctors: %w", err)
	}
	byID := make(map[string]*models.DoctorSummary, len(doctors))
	for i := range doctors {
		byID[doctors[i].ID] = doctors[i].Summary()
	}
	for i := range appointments {
		appointments[i].Doctor = byID[appointments[i].DoctorID]
	}
	return nil
}

func (s *AppointmentService) patientDetails(
	ctx context.Context,
	tx *repository.Store,
	caller Caller,
	req BookRequest,
) (string, int, error) {
	name := strings.TrimSpace(req.PatientName)
	age := 0
	if req.PatientAge != nil && *req.PatientAge > 0 {
		age = *req.PatientAge
	}
	if (name != "" && age > 0) || caller.ID == "" {
		return name, age, nil
	}

	profile, err := tx.Users.GetByID(ctx, caller.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return name, age, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("load caller profile: %w", err)
	}
	if name == "" {
		name = profile.Name
	}
	if age == 0 {
		age = profile.Age
	}
	return name, age, nil
}

func (s *AppointmentService) changed(ctx context.Context, eventType notify.EventType, appointment *models.Appointment) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
	if s.publisher != nil {
		s.publisher.Publish(notify.Event{Type: eventType, Appointment: *appointment})
	}
}

func validateSlot(doctorID, date, start, end string) (timeslot.Interval, error) {
	var missing []string
	if doctorID == "" {
		missing = append(missing, "doctorId")
	}
	if date == "" {
		missing = append(missing, "date")
	}
	if start == "" {
		missing = append(missing, "startTime")
	}
	if end == "" {
		missing = append(missing, "endTime")
	}
	if len(missing) > 0 {
		return timeslot.Interval{}, invalid("Missing required fields: %s", strings.Join(missing, ", "))
	}

	if _, err := timeslot.ParseDate(date); err != nil {
		return timeslot.Interval{}, invalid("%v", err)
	}
	iv, err := timeslot.NewInterval(start, end)
	if err != nil {
		return timeslot.Interval{}, invalid("%v", err)
	}
	return iv, nil
}
