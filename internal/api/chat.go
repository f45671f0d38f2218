package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecuralabs/clinic-booking-service/internal/chat"
)

func chatHandler(assistant *chat.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if assistant == nil {
			writeError(w, http.StatusServiceUnavailable, "assistant_disabled",
				"no assistant backend is configured")
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if len(req.Messages) == 0 {
			writeError(w, http.StatusBadRequest, "empty_conversation", "messages must not be empty")
			return
		}

		resp, err := assistant.Process(r.Context(), chi.URLParam(r, "clinicID"), req.Messages)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ChatResponse{
			Reply:       resp.Reply,
			Appointment: resp.Appointment,
		})
	}
}
