package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/auth/key"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/chat"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/geo"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/gstorage"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/logger"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/mailer"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/notifier"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/sos"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/store"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/work"
	"github.com/nishikaramnani04/PIH2026-SHEield/shared"
	"github.com/spf13/viper"
)

var (
	logg = logger.NewLogger()

	serverConfig *shared.ServerConfig
	authKeyPair  *key.KeyPair
	dataStore    *store.Store
	orchestrator *sos.Orchestrator
	gStorage     *gstorage.GStorage
)

// Start wires every component together and serves the http api until
// SIGINT/SIGTERM. Config comes from the yaml file loaded by the cli.
func Start(config *viper.Viper, devMode bool) {
	var err error

	serverConfig = &shared.ServerConfig{}
	fatalOnError(config.Unmarshal(serverConfig))
	fatalOnError(validator.New().Struct(serverConfig))

	rootDir := configDirectory(devMode)

	authKeyPair, err = key.NewKeyPairFromRSAPrivateKeyPem(serverConfig.Sheield.PrivateKeyPem)
	fatalOnError(err)

	dataStore, err = store.New(serverConfig.Sqlite.PassPhrase, rootDir)
	fatalOnError(err)

	if serverConfig.Google.ApplicationCredentials != "" || serverConfig.Google.Storage.IsBackupEnabled() {
		gStorage, err = gstorage.NewGStorage(serverConfig.Google.ApplicationCredentials)
		fatalOnError(err)
	}

	dispatcher := notifier.NewDispatcher(
		mailer.New(serverConfig.Smtp),
		chat.NewSender(serverConfig.Chat),
		serverConfig.Chat.DefaultCountryCode,
	)
	orchestrator = sos.NewOrchestrator(geo.NewResolver(serverConfig.Geo), dataStore, dispatcher)

	workerPool := work.NewWorkerAdapter(dataStore, serverConfig.Sheield.Cron.TimeZone)
	registerJobHandlers(workerPool)
	enqueueJobs(workerPool)
	fatalOnError(workerPool.Start())

	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/.well-known/jwks.json", jwks).Methods("GET")
	router.HandleFunc("/v1/users", createUser).Methods("POST")
	router.HandleFunc("/v1/login", logIn).Methods("POST")

	protected := router.PathPrefix("/v1/users/{uid:[0-9]+}").Subrouter()
	protected.Use(initialContextMiddleware, protectedRouteMiddleware)
	protected.HandleFunc("/contacts", listContacts).Methods("GET")
	protected.HandleFunc("/contacts", addContact).Methods("POST")
	protected.HandleFunc("/contacts/{id:[0-9]+}", deleteContact).Methods("DELETE")
	protected.HandleFunc("/sos", triggerSos).Methods("POST")
	protected.HandleFunc("/sos_logs", listSosLogs).Methods("GET")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", serverConfig.Sheield.Listener.Port),
		Handler: router,
	}
	go serve(server)

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)
	<-signalChannel

	logg.Info("Shutting down SHEield server...")
	cleanup(workerPool, server, serverConfig.Google.Storage.IsBackupEnabled())
}
