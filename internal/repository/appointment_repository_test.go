package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/repository"
	"github.com/vinayvardhann/careflow-scheduler/internal/testutil"
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
)

func appointment(doctorID, date, start, end string, status models.AppointmentStatus) *models.Appointment {
	return &models.Appointment{
		PatientName: "Test Patient",
		DoctorID:    doctorID,
		DoctorName:  "Dr. Test",
		Date:        date,
		StartTime:   timeslot.MustClock(start),
		EndTime:     timeslot.MustClock(end),
		Priority:    models.PriorityNormal,
		Status:      status,
	}
}

func TestAppointmentRepository_ListOrderAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormAppointmentRepository(db)
	ctx := context.Background()

	patient := "patient-1"
	late := appointment("doc-a", "2026-02-23", "09:00", "09:15", models.StatusConfirmed)
	early := appointment("doc-a", "2026-02-22", "11:30", "11:50", models.StatusPending)
	earliest := appointment("doc-b", "2026-02-22", "09:00", "09:20", models.StatusCancelled)
	earliest.PatientID = &patient
	earliest.Priority = models.PriorityEmergency
	testutil.MustCreate(t, db, late, early, earliest)

	all, err := repo.List(ctx, repository.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{earliest.ID, early.ID, late.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	byDoctor, err := repo.List(ctx, repository.AppointmentFilter{DoctorID: "doc-a"})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 2)

	byPatient, err := repo.List(ctx, repository.AppointmentFilter{PatientID: patient})
	require.NoError(t, err)
	require.Len(t, byPatient, 1)
	assert.Equal(t, earliest.ID, byPatient[0].ID)

	byPriority, err := repo.List(ctx, repository.AppointmentFilter{Priority: models.PriorityEmergency})
	require.NoError(t, err)
	assert.Len(t, byPriority, 1)

	count, err := repo.Count(ctx, repository.AppointmentFilter{Date: "2026-02-22", Status: models.StatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	none, err := repo.List(ctx, repository.AppointmentFilter{Date: "2030-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAppointmentRepository_ListActiveForDoctorDay(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormAppointmentRepository(db)
	ctx := context.Background()

	a := appointment("doc-a", "2026-02-22", "10:00", "10:20", models.StatusPending)
	b := appointment("doc-a", "2026-02-22", "09:00", "09:20", models.StatusCompleted)
	cancelled := appointment("doc-a", "2026-02-22", "09:30", "09:50", models.StatusCancelled)
	otherDay := appointment("doc-a", "2026-02-23", "09:00", "09:20", models.StatusPending)
	otherDoctor := appointment("doc-b", "2026-02-22", "09:00", "09:20", models.StatusPending)
	testutil.MustCreate(t, db, a, b, cancelled, otherDay, otherDoctor)

	got, err := repo.ListActiveForDoctorDay(ctx, "doc-a", "2026-02-22", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)

	got, err = repo.ListActiveForDoctorDay(ctx, "doc-a", "2026-02-22", b.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestAppointmentRepository_GetAndSave(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormAppointmentRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	a := appointment("doc-a", "2026-02-22", "10:00", "10:20", models.StatusPending)
	require.NoError(t, repo.Create(ctx, a))
	assert.NotEmpty(t, a.ID)

	a.Status = models.StatusCompleted
	a.StartTime = timeslot.MustClock("14:00")
	a.EndTime = timeslot.MustClock("14:30")
	require.NoError(t, repo.Save(ctx, a))

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, "14:00", stored.StartTime.String())
	assert.Equal(t, "14:30", stored.EndTime.String())
}

func TestAppointmentRepository_UpdateStatusWritesOnlyStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormAppointmentRepository(db)
	ctx := context.Background()

	a := appointment("doc-a", "2026-02-22", "09:00", "09:20", models.StatusPending)
	testutil.MustCreate(t, db, a)

	// Another writer moves the appointment after our copy was read.
	moved := *a
	moved.StartTime = timeslot.MustClock("14:00")
	moved.EndTime = timeslot.MustClock("14:20")
	require.NoError(t, repo.Save(ctx, &moved))

	updated, err := repo.UpdateStatus(ctx, a.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, "14:00-14:20", updated.Interval().String())

	// Writing the current value again is not a miss.
	_, err = repo.UpdateStatus(ctx, a.ID, models.StatusConfirmed)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, "missing", models.StatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDoctorRepository(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	ctx := context.Background()

	chen := &models.Doctor{
		Name:                "Dr. Sarah Chen",
		Email:               "sarah@doctor.com",
		Specialization:      "Cardiology",
		AvgConsultationTime: 20,
		AvailableSlots: []models.TimeSlot{
			{Date: "2026-02-22", StartTime: "09:00", EndTime: "12:00"},
		},
	}
	wilson := &models.Doctor{Name: "Dr. James Wilson", Email: "james@doctor.com", Specialization: "Orthopedics", AvgConsultationTime: 25}
	require.NoError(t, store.Doctors.Create(ctx, chen))
	require.NoError(t, store.Doctors.Create(ctx, wilson))

	got, err := store.Doctors.GetByID(ctx, chen.ID)
	require.NoError(t, err)
	require.Len(t, got.AvailableSlots, 1)
	assert.Equal(t, "12:00", got.AvailableSlots[0].EndTime)

	some, err := store.Doctors.GetByIDs(ctx, []string{wilson.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "Dr. James Wilson", some[0].Name)
	none, err := store.Doctors.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	minutes, err := store.Doctors.ConsultationTimes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{20, 25}, minutes)

	require.NoError(t, store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Doctors.LockForBooking(ctx, chen.ID)
	}))

	require.NoError(t, store.Doctors.Delete(ctx, wilson.ID))
	assert.ErrorIs(t, store.Doctors.Delete(ctx, wilson.ID), repository.ErrNotFound)

	_, err = store.Doctors.GetByID(ctx, wilson.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
