package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"pokerarena-server/internal/config"
	"pokerarena-server/internal/jwt"
	"pokerarena-server/internal/mux"
	"pokerarena-server/pkg/arena"
	"pokerarena-server/pkg/db"
	"pokerarena-server/pkg/history"
	"pokerarena-server/pkg/poker/ai"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadKeys()

	cfg := config.Instance()

	if len(cfg.AI.Providers) == 0 {
		logrus.Fatal("missing AI providers in configuration")
	}

	advisor, err := ai.NewLLMAdvisor(logrus.StandardLogger(), cfg.AI.Providers)
	if err != nil {
		logrus.WithError(err).Fatal("could not create advisor")
	}

	options, err := cfg.GameOptions()
	if err != nil {
		logrus.WithError(err).Fatal("could not load game options")
	}

	var store *history.Store
	if cfg.PGDSN != "" {
		// run the db migrations
		db.LoadInstance(cfg.PGDSN)
		db.Migrate(cfg.MigrationsPath)
		store = history.NewStore(db.Instance())
	} else {
		logrus.Warn("no database configured, hand history is disabled")
	}

	providerNames := make([]string, len(cfg.AI.Providers))
	for i, provider := range cfg.AI.Providers {
		providerNames[i] = provider.Name
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	m := mux.NewMux(mux.Config{
		Version:       Version,
		Manager:       arena.NewManager(logrus.StandardLogger()),
		Advisor:       advisor,
		History:       store,
		GameOptions:   options,
		Delays:        cfg.ArenaDelays(),
		MaxHands:      cfg.Game.MaxHands,
		ProviderNames: providerNames,
	})

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = cfg.Addr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      handlers.CombinedLoggingHandler(os.Stdout, c.Handler(m)),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func setupLogger() {
	if lvl := config.Instance().LogLevel; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(config.Instance().LogFormat) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
