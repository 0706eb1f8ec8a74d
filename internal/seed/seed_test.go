package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/testutil"
)

func TestRun(t *testing.T) {
	db := testutil.NewDB(t)

	inserted, err := Run(db)
	require.NoError(t, err)
	assert.True(t, inserted)

	var users, doctors, appointments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Doctor{}).Count(&doctors).Error)
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointments).Error)
	assert.EqualValues(t, 14, users)
	assert.EqualValues(t, 5, doctors)
	assert.EqualValues(t, 8, appointments)

	var chest models.Appointment
	require.NoError(t, db.Where("reason = ?", "Chest pain").First(&chest).Error)
	assert.Equal(t, "John Martinez", chest.PatientName)
	assert.Equal(t, 45, chest.PatientAge)
	assert.Equal(t, "Dr. Sarah Chen", chest.DoctorName)
	assert.Equal(t, "09:00", chest.StartTime.String())
	assert.Equal(t, models.StatusConfirmed, chest.Status)

	var sarah models.Doctor
	require.NoError(t, db.Where("email = ?", "sarah@doctor.local").First(&sarah).Error)
	require.NotNil(t, sarah.UserID)
	var account models.User
	require.NoError(t, db.First(&account, "id = ?", *sarah.UserID).Error)
	assert.Equal(t, models.RoleDoctor, account.Role)
	assert.True(t, account.CheckPassword("doctor123"))

	again, err := Run(db)
	require.NoError(t, err)
	assert.False(t, again)
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointments).Error)
	assert.EqualValues(t, 8, appointments)
}

func TestFixturesHaveNoOverlaps(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := Run(db)
	require.NoError(t, err)

	var all []models.Appointment
	require.NoError(t, db.Find(&all).Error)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.DoctorID != b.DoctorID || a.Date != b.Date {
				continue
			}
			assert.False(t, a.Interval().Overlaps(b.Interval()), "%s overlaps %s", a.Reason, b.Reason)
		}
	}
}
