package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"psibooking/handlers"

	"github.com/gin-gonic/gin"
)

func stubBundle(hit *string) *handlers.HandlerBundle {
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			*hit = name
			c.Status(http.StatusOK)
		}
	}
	return &handlers.HandlerBundle{
		BookSession:            mark("book"),
		GetSession:             mark("get"),
		CancelSession:          mark("cancel"),
		ConfirmSession:         mark("confirm"),
		RescheduleSession:      mark("reschedule"),
		ListThemes:             mark("themes"),
		PsychologistsByTheme:   mark("byTheme"),
		WeeklyAvailability:     mark("weekly"),
		SearchPsychologists:    mark("search"),
		GetIndexedPsychologist: mark("indexed"),
		IndexedAvailability:    mark("indexedAvailability"),
		Health:                 mark("health"),
	}
}

func TestRegisterRoutesBySurface(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		on     Surfaces
		method string
		path   string
		want   string
		code   int
	}{
		{Surfaces{Booking: true}, http.MethodPost, "/api/v1/sessions", "book", http.StatusOK},
		{Surfaces{Booking: true}, http.MethodPut, "/api/v1/sessions/S1/cancel", "cancel", http.StatusOK},
		{Surfaces{Booking: true}, http.MethodGet, "/api/v1/psychologists/themes", "themes", http.StatusOK},
		{Surfaces{Booking: true}, http.MethodGet, "/api/v1/psychologists/P1/weekly-availability", "weekly", http.StatusOK},
		{Surfaces{Booking: true}, http.MethodGet, "/api/v1/search/psychologists", "", http.StatusNotFound},
		{Surfaces{Search: true}, http.MethodGet, "/api/v1/search/psychologists/P1/availability", "indexedAvailability", http.StatusOK},
		{Surfaces{Search: true}, http.MethodPost, "/api/v1/sessions", "", http.StatusNotFound},
		{Surfaces{}, http.MethodGet, "/health", "health", http.StatusOK},
	}
	for _, tc := range cases {
		var hit string
		r := gin.New()
		RegisterRoutes(r, stubBundle(&hit), tc.on)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.code || hit != tc.want {
			t.Errorf("%s %s: code=%d hit=%q, want %d %q", tc.method, tc.path, w.Code, hit, tc.code, tc.want)
		}
	}
}
