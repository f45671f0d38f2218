package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `
	id, clinic_id, doctor_id, patient_name, patient_phone,
	visit_date, visit_time, status, reason, created_at, source
`

const visitColumns = `
	id, appointment_id, patient_name, patient_phone, doctor_id, clinic_id,
	visit_date, diagnosis, treatment, notes, vitals_bp, vitals_weight, vitals_temp
`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.ClinicID,
		&a.DoctorID,
		&a.PatientName,
		&a.PatientPhone,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.Reason,
		&a.CreatedAt,
		&a.Source,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanVisit(row pgx.Row) (*VisitRecord, error) {
	var v VisitRecord
	var bp, weight, temp *string

	err := row.Scan(
		&v.ID,
		&v.AppointmentID,
		&v.PatientName,
		&v.PatientPhone,
		&v.DoctorID,
		&v.ClinicID,
		&v.Date,
		&v.Diagnosis,
		&v.Treatment,
		&v.Notes,
		&bp,
		&weight,
		&temp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}

	if bp != nil || weight != nil || temp != nil {
		v.Vitals = &Vitals{}
		if bp != nil {
			v.Vitals.BP = *bp
		}
		if weight != nil {
			v.Vitals.Weight = *weight
		}
		if temp != nil {
			v.Vitals.Temp = *temp
		}
	}

	return &v, nil
}

func vitalsColumns(v *Vitals) (bp, weight, temp *string) {
	if v == nil {
		return nil, nil, nil
	}
	return &v.BP, &v.Weight, &v.Temp
}

// Interface methods

func (r *PgRepository) Insert(ctx context.Context, appt *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (
			id, clinic_id, doctor_id, patient_name, patient_phone,
			visit_date, visit_time, status, reason, created_at, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		appt.ID, appt.ClinicID, appt.DoctorID, appt.PatientName, appt.PatientPhone,
		appt.Date, appt.Time, appt.Status, appt.Reason, appt.CreatedAt, appt.Source,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) List(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING `+appointmentColumns+`
	`, id, from, to)

	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, r.classifyMissingUpdate(ctx, id)
		}
		return nil, err
	}
	return a, nil
}

func (r *PgRepository) FinalizeVisit(ctx context.Context, appointmentID string, visit *VisitRecord) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin finalize tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING `+appointmentColumns+`
	`, appointmentID, StatusCheckedOut, StatusCheckedIn)

	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, r.classifyMissingUpdate(ctx, appointmentID)
		}
		return nil, err
	}

	bp, weight, temp := vitalsColumns(visit.Vitals)
	_, err = tx.Exec(ctx, `
		INSERT INTO visits (
			id, appointment_id, patient_name, patient_phone, doctor_id, clinic_id,
			visit_date, diagnosis, treatment, notes, vitals_bp, vitals_weight, vitals_temp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		visit.ID, visit.AppointmentID, visit.PatientName, visit.PatientPhone,
		visit.DoctorID, visit.ClinicID, visit.Date, visit.Diagnosis,
		visit.Treatment, visit.Notes, bp, weight, temp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert visit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit finalize tx: %w", err)
	}
	return appt, nil
}

func (r *PgRepository) ListVisits(ctx context.Context) ([]*VisitRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+visitColumns+`
		FROM visits
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	return collectVisits(rows)
}

func (r *PgRepository) VisitsByAppointment(ctx context.Context, appointmentID string) ([]*VisitRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+visitColumns+`
		FROM visits
		WHERE appointment_id = $1
		ORDER BY seq DESC
	`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("visits by appointment: %w", err)
	}
	defer rows.Close()

	return collectVisits(rows)
}

func collectVisits(rows pgx.Rows) ([]*VisitRecord, error) {
	var out []*VisitRecord
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// classifyMissingUpdate distinguishes a missing appointment from a
// compare-and-set status mismatch.
func (r *PgRepository) classifyMissingUpdate(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrAppointmentNotFound
	}
	return ErrStatusChanged
}
