package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ecuralabs/clinic-booking-service/internal/appointment"
	"github.com/ecuralabs/clinic-booking-service/internal/chat"
	"github.com/ecuralabs/clinic-booking-service/internal/clinic"
	"github.com/ecuralabs/clinic-booking-service/internal/notify"
	"github.com/ecuralabs/clinic-booking-service/pkg/logging"
)

type RouterConfig struct {
	Bookings  *appointment.Service
	Directory *clinic.Directory
	Assistant *chat.Assistant
	Notifier  *notify.Notifier
	Logger    *logging.Logger

	// HorizonDays bounds next-slot scans triggered from the API.
	HorizonDays int

	// Registry exposes /metrics when non-nil.
	Registry *prometheus.Registry

	// PgPool and Redis are only used for readiness checks; either may be nil.
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	// Appointment lifecycle
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", createAppointmentHandler(cfg.Bookings, cfg.Directory, cfg.Notifier))
		r.Get("/", listAppointmentsHandler(cfg.Bookings))
		r.Get("/{id}", getAppointmentHandler(cfg.Bookings))
		r.Post("/{id}/confirm", confirmAppointmentHandler(cfg.Bookings))
		r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Bookings))
		r.Post("/{id}/check-in", checkInAppointmentHandler(cfg.Bookings))
		r.Post("/{id}/checkout", checkoutAppointmentHandler(cfg.Bookings))
		r.Get("/{id}/visits", appointmentVisitsHandler(cfg.Bookings))
	})

	// Visit history
	r.Get("/visits", listVisitsHandler(cfg.Bookings))

	// Clinic directory, staff and doctor schedules
	r.Route("/clinics", func(r chi.Router) {
		r.Get("/", listClinicsHandler(cfg.Directory))
		r.Route("/{clinicID}", func(r chi.Router) {
			r.Get("/", getClinicHandler(cfg.Directory))
			r.Post("/staff", addStaffHandler(cfg.Directory))
			r.Delete("/staff/{staffID}", removeStaffHandler(cfg.Directory))
			r.Post("/chat", chatHandler(cfg.Assistant))
			r.Route("/doctors/{doctorID}", func(r chi.Router) {
				r.Get("/schedule", getScheduleHandler(cfg.Directory))
				r.Get("/availability", availabilityHandler(cfg.Directory, cfg.HorizonDays))
				r.Post("/schedule/{day}/slots", addSlotHandler(cfg.Directory))
				r.Delete("/schedule/{day}/slots/{index}", removeSlotHandler(cfg.Directory))
				r.Post("/schedule/{day}/toggle", toggleDayHandler(cfg.Directory))
			})
		})
	})

	// Inbound channels
	r.Post("/channels/whatsapp/simulate", simulateWhatsAppHandler(cfg.Bookings, cfg.Directory, cfg.Notifier, cfg.HorizonDays))

	return r
}
