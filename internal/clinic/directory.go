package clinic

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

var (
	ErrClinicNotFound = errors.New("clinic not found")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrStaffNotFound  = errors.New("staff member not found")
)

// Directory is the in-memory registry of clinics and the single mutation
// surface for doctor schedules and staff rosters. The surrounding service
// layer treats it as the owner of clinic state; handlers only issue commands
// and re-read query results.
type Directory struct {
	mu      sync.RWMutex
	clinics []*Clinic
}

func NewDirectory(clinics []*Clinic) *Directory {
	return &Directory{clinics: clinics}
}

// List returns snapshot copies of every registered clinic.
func (d *Directory) List() []*Clinic {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Clinic, 0, len(d.clinics))
	for _, c := range d.clinics {
		out = append(out, cloneClinic(c))
	}
	return out
}

// Get returns a snapshot copy of one clinic.
func (d *Directory) Get(clinicID string) (*Clinic, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, err := d.find(clinicID)
	if err != nil {
		return nil, err
	}
	return cloneClinic(c), nil
}

// GetDoctor returns a snapshot copy of one doctor within a clinic.
func (d *Directory) GetDoctor(clinicID, doctorID string) (*Doctor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, err := d.find(clinicID)
	if err != nil {
		return nil, err
	}
	for i := range c.Doctors {
		if c.Doctors[i].ID == doctorID {
			doc := c.Doctors[i]
			doc.Week = doc.Week.Clone()
			return &doc, nil
		}
	}
	return nil, ErrDoctorNotFound
}

// DoctorWeek returns a copy of the doctor's current week schedule.
func (d *Directory) DoctorWeek(clinicID, doctorID string) (schedule.Week, error) {
	doc, err := d.GetDoctor(clinicID, doctorID)
	if err != nil {
		return nil, err
	}
	return doc.Week, nil
}

// UpdateDoctorWeek applies fn to the doctor's schedule under the directory
// lock and stores the result. fn receives a copy, so a failed edit leaves the
// stored schedule unchanged.
func (d *Directory) UpdateDoctorWeek(clinicID, doctorID string, fn func(schedule.Week) (schedule.Week, error)) (schedule.Week, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.find(clinicID)
	if err != nil {
		return nil, err
	}
	for i := range c.Doctors {
		if c.Doctors[i].ID != doctorID {
			continue
		}
		updated, err := fn(c.Doctors[i].Week.Clone())
		if err != nil {
			return nil, err
		}
		c.Doctors[i].Week = updated
		return updated.Clone(), nil
	}
	return nil, ErrDoctorNotFound
}

// AddStaff appends a staff member to the clinic roster.
func (d *Directory) AddStaff(clinicID string, s Staff) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.find(clinicID)
	if err != nil {
		return err
	}
	c.Staff = append(c.Staff, s)
	return nil
}

// RemoveStaff removes a staff member from the clinic roster.
func (d *Directory) RemoveStaff(clinicID, staffID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.find(clinicID)
	if err != nil {
		return err
	}
	for i := range c.Staff {
		if c.Staff[i].ID == staffID {
			c.Staff = append(c.Staff[:i], c.Staff[i+1:]...)
			return nil
		}
	}
	return ErrStaffNotFound
}

// AssistantContext renders the clinic-context string handed to the chat
// collaborator: name, location, rating and the doctor roster with each
// doctor's granular week schedule. The collaborator negotiates against this
// text, but its booking intents are still re-validated by the core.
func (d *Directory) AssistantContext(clinicID string) (string, error) {
	c, err := d.Get(clinicID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Clinic Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Location: %s\n", c.Location)
	fmt.Fprintf(&b, "Rating: %.1f stars (%d reviews)\n", c.Rating, c.Reviews)
	b.WriteString("Available Doctors:\n")
	for _, doc := range c.Doctors {
		fmt.Fprintf(&b, "- %s (ID: %s, Specialty: %s)\n", doc.Name, doc.ID, doc.Specialty)
		for _, day := range doc.Week {
			if !day.Enabled {
				fmt.Fprintf(&b, "    %s: unavailable\n", day.Day)
				continue
			}
			ranges := make([]string, 0, len(day.Slots))
			for _, s := range day.Slots {
				ranges = append(ranges, s.Start+"-"+s.End)
			}
			fmt.Fprintf(&b, "    %s: %s\n", day.Day, strings.Join(ranges, ", "))
		}
	}
	return b.String(), nil
}

// find must be called with the lock held.
func (d *Directory) find(clinicID string) (*Clinic, error) {
	for _, c := range d.clinics {
		if c.ID == clinicID {
			return c, nil
		}
	}
	return nil, ErrClinicNotFound
}

func cloneClinic(c *Clinic) *Clinic {
	out := *c
	out.Doctors = make([]Doctor, len(c.Doctors))
	for i, doc := range c.Doctors {
		out.Doctors[i] = doc
		out.Doctors[i].Week = doc.Week.Clone()
	}
	out.Staff = append([]Staff(nil), c.Staff...)
	return &out
}
