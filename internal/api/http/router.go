package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/cors"

	"renthub-backend/internal/metrics"
	"renthub-backend/internal/security"
	"renthub-backend/internal/service"
)

// Services bundles the business services exposed over HTTP.
type Services struct {
	User       service.UserService
	Property   service.PropertyService
	Rental     service.RentalService
	Ledger     service.LedgerService
	Withdrawal service.WithdrawalService
	Message    service.MessageService
	Settings   service.SettingsService
	Admin      service.AdminService
}

// Options tunes the outer middleware chain.
type Options struct {
	CORSOrigins        []string
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Router is the assembled HTTP surface.
type Router struct {
	http.Handler
	limiter *rateLimiter
}

// StartCleanup evicts idle rate limiter entries every interval until ctx is done.
func (rt *Router) StartCleanup(ctx context.Context, interval time.Duration) {
	rt.limiter.StartCleanup(ctx, interval)
}

// NewRouter registers every named route under /api/v1. Route names key the
// security levels in config.EndpointSecurityConfig.
func NewRouter(svc Services, verifier security.Verifier, hub SocketServer, db Pinger, opts Options) *Router {
	users := NewUserHandler(svc.User)
	properties := NewPropertyHandler(svc.Property, svc.Rental)
	rentals := NewRentalHandler(svc.Rental)
	ledger := NewLedgerHandler(svc.Ledger, svc.Withdrawal)
	messages := NewMessageHandler(svc.Message, hub)
	settings := NewSettingsHandler(svc.Settings)
	admin := NewAdminHandler(svc.Admin, svc.Rental, svc.Withdrawal, svc.Message)
	health := NewHealthHandler(db)

	router := mux.NewRouter()
	router.HandleFunc("/health", health.Check).Methods(http.MethodGet).Name("health")
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("metrics")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/me", users.GetMe).Methods(http.MethodGet).Name("me.get")
	api.HandleFunc("/me", users.UpdateMe).Methods(http.MethodPut).Name("me.update")

	api.HandleFunc("/properties", properties.List).Methods(http.MethodGet).Name("properties.list")
	api.HandleFunc("/properties", properties.Create).Methods(http.MethodPost).Name("properties.create")
	api.HandleFunc("/properties/mine", properties.Mine).Methods(http.MethodGet).Name("properties.mine")
	api.HandleFunc("/properties/{id:[0-9]+}", properties.Get).Methods(http.MethodGet).Name("properties.get")
	api.HandleFunc("/properties/{id:[0-9]+}", properties.Update).Methods(http.MethodPut).Name("properties.update")
	api.HandleFunc("/properties/{id:[0-9]+}", properties.Delete).Methods(http.MethodDelete).Name("properties.delete")
	api.HandleFunc("/quotes", properties.Quote).Methods(http.MethodPost).Name("quotes.create")

	api.HandleFunc("/rentals", rentals.Checkout).Methods(http.MethodPost).Name("rentals.checkout")
	api.HandleFunc("/rentals/mine", rentals.Mine).Methods(http.MethodGet).Name("rentals.mine")
	api.HandleFunc("/rentals/lendings", rentals.Lendings).Methods(http.MethodGet).Name("rentals.lendings")
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.Get).Methods(http.MethodGet).Name("rentals.get")
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.Delete).Methods(http.MethodDelete).Name("rentals.delete")
	api.HandleFunc("/rentals/{id:[0-9]+}/status", rentals.UpdateStatus).Methods(http.MethodPost).Name("rentals.status")
	api.HandleFunc("/rentals/{id:[0-9]+}/cancel", rentals.Cancel).Methods(http.MethodPost).Name("rentals.cancel")
	api.HandleFunc("/rentals/{id:[0-9]+}/return", rentals.Return).Methods(http.MethodPost).Name("rentals.return")

	api.HandleFunc("/ledger/balance", ledger.Balance).Methods(http.MethodGet).Name("ledger.balance")
	api.HandleFunc("/ledger/transactions", ledger.Transactions).Methods(http.MethodGet).Name("ledger.transactions")
	api.HandleFunc("/ledger/summary", ledger.Summary).Methods(http.MethodGet).Name("ledger.summary")
	api.HandleFunc("/withdrawals", ledger.RequestWithdrawal).Methods(http.MethodPost).Name("withdrawals.request")
	api.HandleFunc("/withdrawals/mine", ledger.MyWithdrawals).Methods(http.MethodGet).Name("withdrawals.mine")

	api.HandleFunc("/messages", messages.Send).Methods(http.MethodPost).Name("messages.send")
	api.HandleFunc("/messages/inbox", messages.Inbox).Methods(http.MethodGet).Name("messages.inbox")
	api.HandleFunc("/messages/conversations/{userID:[0-9]+}", messages.Conversation).Methods(http.MethodGet).Name("messages.conversation")
	api.HandleFunc("/ws", messages.Connect).Methods(http.MethodGet).Name("ws")

	api.HandleFunc("/settings/gcash", settings.GetGCash).Methods(http.MethodGet).Name("settings.gcash.get")

	adm := api.PathPrefix("/admin").Subrouter()
	adm.HandleFunc("/summary", admin.Summary).Methods(http.MethodGet).Name("admin.summary")
	adm.HandleFunc("/rentals", admin.Rentals).Methods(http.MethodGet).Name("admin.rentals")
	adm.HandleFunc("/rentals/overdue", admin.OverdueRentals).Methods(http.MethodGet).Name("admin.rentals.overdue")
	adm.HandleFunc("/users", admin.Users).Methods(http.MethodGet).Name("admin.users")
	adm.HandleFunc("/users/{id:[0-9]+}/block", admin.BlockUser).Methods(http.MethodPost).Name("admin.users.block")
	adm.HandleFunc("/users/{id:[0-9]+}/role", admin.SetUserRole).Methods(http.MethodPost).Name("admin.users.role")
	adm.HandleFunc("/users/{id:[0-9]+}", admin.DeleteUser).Methods(http.MethodDelete).Name("admin.users.delete")
	adm.HandleFunc("/properties", admin.Properties).Methods(http.MethodGet).Name("admin.properties")
	adm.HandleFunc("/properties/{id:[0-9]+}/review", admin.ReviewProperty).Methods(http.MethodPost).Name("admin.properties.review")
	adm.HandleFunc("/properties/{id:[0-9]+}/remove", admin.RemoveProperty).Methods(http.MethodPost).Name("admin.properties.remove")
	adm.HandleFunc("/withdrawals", admin.Withdrawals).Methods(http.MethodGet).Name("admin.withdrawals")
	adm.HandleFunc("/withdrawals/{id:[0-9]+}/approve", admin.ApproveWithdrawal).Methods(http.MethodPost).Name("admin.withdrawals.approve")
	adm.HandleFunc("/withdrawals/{id:[0-9]+}/reject", admin.RejectWithdrawal).Methods(http.MethodPost).Name("admin.withdrawals.reject")
	adm.HandleFunc("/messages", admin.Messages).Methods(http.MethodGet).Name("admin.messages")
	adm.HandleFunc("/messages/{id:[0-9]+}", admin.DeleteMessage).Methods(http.MethodDelete).Name("admin.messages.delete")
	adm.HandleFunc("/settings/gcash", settings.UpdateGCash).Methods(http.MethodPut).Name("admin.settings.gcash")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})

	auth := &authenticator{verifier: verifier, users: svc.User}
	limiter := newRateLimiter(opts.RateLimitPerSecond, opts.RateLimitBurst)
	router.Use(metrics.InstrumentHandler, auth.Middleware, limiter.Handler)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})

	chain := alice.New(recoverPanic, logRequest, secureHeaders).Then(c.Handler(router))
	return &Router{Handler: chain, limiter: limiter}
}
