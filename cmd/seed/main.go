// Command seed generates a randomized clinic roster and writes it as JSON.
// Point CLINICS_FILE at the output to serve the generated roster instead of
// the built-in directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/schedule"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var staffRoles = []clinic.StaffRole{
	clinic.RoleNurse,
	clinic.RoleReceptionist,
	clinic.RoleAdminAssistant,
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	count := flag.Int("clinics", 5, "number of clinics to generate")
	out := flag.String("out", "clinics.json", "output file path")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	clinics := make([]*clinic.Clinic, 0, *count)
	doctorSeq, staffSeq := 0, 0
	for i := 0; i < *count; i++ {
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]
		c := &clinic.Clinic{
			ID:          fmt.Sprintf("c%d", i+1),
			Name:        gofakeit.Company() + " Clinic",
			Description: gofakeit.Sentence(12),
			Location:    gofakeit.City(),
			Specialty:   spec,
			Rating:      float64(gofakeit.Number(35, 50)) / 10,
			Reviews:     gofakeit.Number(10, 500),
		}

		for d := 0; d < gofakeit.Number(2, 4); d++ {
			doctorSeq++
			c.Doctors = append(c.Doctors, clinic.Doctor{
				ID:        fmt.Sprintf("d%d", doctorSeq),
				Name:      "Dr. " + gofakeit.Name(),
				Specialty: spec,
				Week:      randomWeek(),
			})
		}

		for s := 0; s < gofakeit.Number(2, 3); s++ {
			staffSeq++
			c.Staff = append(c.Staff, clinic.Staff{
				ID:    fmt.Sprintf("s%d", staffSeq),
				Name:  gofakeit.Name(),
				Role:  staffRoles[gofakeit.Number(0, len(staffRoles)-1)],
				Email: gofakeit.Email(),
				Phone: gofakeit.Phone(),
			})
		}

		clinics = append(clinics, c)
	}

	data, err := json.MarshalIndent(clinics, "", "  ")
	if err != nil {
		log.Fatalf("marshal roster: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write roster: %v", err)
	}

	log.Printf("wrote %d clinics (%d doctors) to %s", len(clinics), doctorSeq, *out)
}

// randomWeek starts from the default template and perturbs it: some days get
// an extra evening slot, some weekdays are switched off entirely.
func randomWeek() schedule.Week {
	week := schedule.DefaultWeek()
	for i := range week {
		if !week[i].Enabled {
			continue
		}
		if gofakeit.Number(0, 9) < 2 {
			week[i].Enabled = false
			continue
		}
		if gofakeit.Number(0, 9) < 3 {
			week[i].Slots = append(week[i].Slots, schedule.TimeRange{Start: "18:00", End: "20:00"})
		}
	}
	return week
}
