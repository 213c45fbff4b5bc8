package handlers

import (
	"net/http"
	"os"

	"github.com/stockroom/backend/internal/models"
	"github.com/stockroom/backend/internal/services"
)

// SystemHandler serves the liveness and diagnostics routes. Unlike the item
// routes it tolerates a missing store.
type SystemHandler struct {
	items services.ItemService
}

func NewSystemHandler(items services.ItemService) *SystemHandler {
	return &SystemHandler{items: items}
}

func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Inventory API is running"})
}

func (h *SystemHandler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Hello from the backend API!"})
}

// TestConnections probes the store and reports what it finds. Always 200;
// problems show up in the report body rather than the status code.
func (h *SystemHandler) TestConnections(w http.ResponseWriter, r *http.Request) {
	report := models.DiagnosticsReport{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if h.items != nil {
		report.Database = "✅ Available"
		report.ConnectionStatus = "Connected"

		if err := h.items.Ping(r.Context()); err != nil {
			report.Database = connectedButError(err)
		} else if names, err := h.items.Collections(r.Context()); err != nil {
			report.Database = connectedButError(err)
		} else {
			if len(names) > 10 {
				names = names[:10]
			}
			report.Collections = append(report.Collections, names...)
			report.Database = "✅ Connected & Working"
		}
	} else {
		report.Database = "⚠️  Available but not initialized"
	}

	report.DatabaseURL = envBadge("DATABASE_URL")
	report.DatabaseName = envBadge("DATABASE_NAME")

	writeJSON(w, http.StatusOK, report)
}

func connectedButError(err error) string {
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return "⚠️  Connected but Error: " + msg
}

func envBadge(key string) string {
	if os.Getenv(key) != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}
