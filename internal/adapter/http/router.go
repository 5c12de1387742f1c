package http

import (
	"net/http"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Services struct {
	Reservations interfaces.ReservationService
	Tables       interfaces.TableService
	Orders       interfaces.OrderService
	Payments     interfaces.PaymentService
}

// NewRouter wires every handler behind identity, logging, recovery and CORS.
func NewRouter(services Services, lgr logger.Logger) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	NewReservationHandler(services.Reservations, lgr).Register(api)
	NewTableHandler(services.Tables, lgr).Register(api)
	NewOrderHandler(services.Orders, lgr).Register(api)
	NewPaymentHandler(services.Payments, services.Orders, lgr).Register(api)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	var handler http.Handler = IdentityMiddleware(r)
	handler = LoggingMiddleware(lgr)(handler)
	handler = RecoveryMiddleware(lgr)(handler)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", HeaderRequestID, HeaderUserID, HeaderUserRoles},
		ExposedHeaders: []string{HeaderRequestID},
	}).Handler(handler)
}
