package main

import (
	"context"
	"net/http"

	"system-biblioteczny/internal/api"
	"system-biblioteczny/internal/config"
	"system-biblioteczny/internal/database"
	"system-biblioteczny/internal/storage"
	"system-biblioteczny/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Run:   runServeCommandFunc,
	}
}

func runServeCommandFunc(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Nie można zainicjować local storage: %v", err)
	}
	log.Printf("Okładki będą przechowywane w: %s", cfg.Storage.Path)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool)
	server := api.NewServer(cfg, store, localStorage, wsHub)

	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://*", "https://*"}
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Recoverer)
	r.Use(api.RequestLogger(log.NewEntry(log.StandardLogger())))
	r.Use(api.MetricsMiddleware)
	r.Use(server.SessionMiddleware)

	swaggerHost := cfg.AppHost
	if swaggerHost == "" {
		swaggerHost = "localhost" + cfg.HTTP.Addr
	}
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://"+swaggerHost+"/swagger/doc.json"),
	))

	r.Get("/", server.HomeHandler)
	r.Get("/login", server.LoginPageHandler)
	r.Post("/login", server.LoginHandler)
	r.Get("/register", server.RegisterPageHandler)
	r.Post("/register", server.RegisterHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/ws", server.ServeWsHandler)
	r.Get("/book/cover/{bookID}", server.CoverHandler)

	r.Group(func(r chi.Router) {
		r.Use(server.RequireAuth)
		r.Get("/logout", server.LogoutHandler)
		r.Get("/dashboard", server.DashboardHandler)
		r.Get("/books", server.ListBooksHandler)
		r.Get("/book/add", server.AddBookPageHandler)
		r.Post("/book/add", server.AddBookHandler)
		r.Get("/book/edit/{bookID}", server.EditBookPageHandler)
		r.Post("/book/edit/{bookID}", server.EditBookHandler)
		r.Post("/book/delete/{bookID}", server.DeleteBookHandler)
		r.Post("/borrow/{bookID}", server.BorrowBookHandler)
		r.Post("/return/{borrowID}", server.ReturnBookHandler)
		r.Get("/sessions", server.SessionsPageHandler)
		r.Post("/sessions/delete/{sessionID}", server.DeleteSessionHandler)
		r.Post("/sessions/terminate_all", server.TerminateAllSessionsHandler)
		r.Get("/ws/ticket", server.WsTicketHandler)
	})

	log.Printf("Uruchamianie serwera na porcie %s", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
