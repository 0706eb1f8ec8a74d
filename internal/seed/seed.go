// Package seed loads the demo clinic: an admin, patients, doctors with login
// accounts and a couple of days of appointments.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
)

//go:embed fixtures.json
var fixturesJSON []byte

type person struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
}

type doctor struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Specialization      string `json:"specialization"`
	Avatar              string `json:"avatar"`
	AvgConsultationTime int    `json:"avgConsultationTime"`
}

type appointment struct {
	Patient   int                      `json:"patient"`
	Doctor    int                      `json:"doctor"`
	Date      string                   `json:"date"`
	StartTime timeslot.Clock           `json:"startTime"`
	EndTime   timeslot.Clock           `json:"endTime"`
	Priority  models.Priority          `json:"priority"`
	Status    models.AppointmentStatus `json:"status"`
	Reason    string                   `json:"reason"`
}

type fixtures struct {
	Admin           person        `json:"admin"`
	Patients        []person      `json:"patients"`
	PatientPassword string        `json:"patientPassword"`
	Doctors         []doctor      `json:"doctors"`
	DoctorPassword  string        `json:"doctorPassword"`
	Appointments    []appointment `json:"appointments"`
}

// Run inserts the demo data unless the appointments table already has rows.
// It reports whether anything was inserted.
func Run(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.Appointment{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		log.Println("Database already contains appointments, skipping seed")
		return false, nil
	}

	var f fixtures
	if err := json.Unmarshal(fixturesJSON, &f); err != nil {
		return false, fmt.Errorf("parse fixtures: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return f.insert(tx)
	})
	if err != nil {
		return false, err
	}

	log.Printf("Seeded %d patients, %d doctors and %d appointments (admin login: %s)",
		len(f.Patients), len(f.Doctors), len(f.Appointments), f.Admin.Email)
	return true, nil
}

func (f *fixtures) insert(tx *gorm.DB) error {
	admin, err := newUser(f.Admin, f.Admin.Password, models.RoleAdmin)
	if err != nil {
		return err
	}
	if err := tx.Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	patients := make([]*models.User, len(f.Patients))
	for i, p := range f.Patients {
		user, err := newUser(p, f.PatientPassword, models.RolePatient)
		if err != nil {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create patient %s: %w", p.Email, err)
		}
		patients[i] = user
	}

	doctors := make([]*models.Doctor, len(f.Doctors))
	for i, d := range f.Doctors {
		account, err := newUser(person{Name: d.Name, Email: d.Email}, f.DoctorPassword, models.RoleDoctor)
		if err != nil {
			return err
		}
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("create doctor account %s: %w", d.Email, err)
		}

		doc := &models.Doctor{
			Name:                d.Name,
			Email:               d.Email,
			Specialization:      d.Specialization,
			Avatar:              d.Avatar,
			AvgConsultationTime: d.AvgConsultationTime,
			UserID:              &account.ID,
		}
		if err := tx.Create(doc).Error; err != nil {
			return fmt.Errorf("create doctor %s: %w", d.Email, err)
		}
		doctors[i] = doc
	}

	for i, a := range f.Appointments {
		if a.Patient >= len(patients) || a.Doctor >= len(doctors) {
			return fmt.Errorf("appointment %d references unknown patient or doctor", i)
		}
		patient, doc := patients[a.Patient], doctors[a.Doctor]
		record := &models.Appointment{
			PatientName:    patient.Name,
			PatientAge:     patient.Age,
			PatientID:      &patient.ID,
			DoctorID:       doc.ID,
			DoctorName:     doc.Name,
			Specialization: doc.Specialization,
			Date:           a.Date,
			StartTime:      a.StartTime,
			EndTime:        a.EndTime,
			Priority:       a.Priority,
			Status:         a.Status,
			Reason:         a.Reason,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("create appointment %d: %w", i, err)
		}
	}
	return nil
}

func newUser(p person, password string, role models.Role) (*models.User, error) {
	user := &models.User{
		Name:  p.Name,
		Email: p.Email,
		Role:  role,
		Age:   p.Age,
		Phone: p.Phone,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password for %s: %w", p.Email, err)
	}
	return user, nil
}
