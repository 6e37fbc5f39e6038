package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"karen/internal/infrastructure/web"
	mpesacontroller "karen/internal/mpesa/controller"
	"karen/internal/order"
	"karen/internal/payment"
)

func NewRouter(orders *order.Module, payments *payment.Module, mpesa *mpesacontroller.MpesaController, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})

	r.Route("/api/mpesa", func(r chi.Router) {
		r.Post("/stkpush/", mpesa.StkPush)
		r.Get("/token/", mpesa.Token)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/callback/", payments.Callback.Callback)
		r.Get("/transactions/", payments.Transactions.List)
		r.Get("/transactions/by-phone/", payments.Transactions.ByPhone)

		r.Get("/status/", orders.Orders.Status)
		r.Post("/create/", orders.Orders.Create)
		r.Get("/by-phone/", orders.Orders.ByPhone)
		r.Get("/all/", orders.Orders.All)
		r.Get("/by-date/", orders.Orders.ByDate)
		r.Get("/earnings/monthly/", orders.Orders.MonthlyEarnings)

		r.Get("/locations/", orders.Locations.List)
		r.Post("/locations/", orders.Locations.Create)
		r.Put("/locations/{id}/", orders.Locations.Update)
		r.Delete("/locations/{id}/", orders.Locations.Delete)
	})

	return r
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remoteAddr", r.RemoteAddr),
			)
		})
	}
}
