package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/nft-bazaar/marketplace-api/accounts"
	"github.com/nft-bazaar/marketplace-api/chain"
	"github.com/nft-bazaar/marketplace-api/configs"
	"github.com/nft-bazaar/marketplace-api/handlers"
	"github.com/nft-bazaar/marketplace-api/handlers/middleware"
	"github.com/nft-bazaar/marketplace-api/jobs"
	"github.com/nft-bazaar/marketplace-api/marketplace"
	"github.com/nft-bazaar/marketplace-api/nfts"
	"github.com/nft-bazaar/marketplace-api/persistence"
	"github.com/nft-bazaar/marketplace-api/session"
	"github.com/nft-bazaar/marketplace-api/transactions"
)

const version = "0.3.0"

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func main() {
	var printVersion bool

	// If we should just print the version number and exit
	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")
	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	cfg, err := configs.Parse()
	if err != nil {
		panic(err)
	}

	runServer(cfg)

	os.Exit(0)
}

func runServer(cfg *configs.Config) {
	configs.ConfigureLogger(cfg.LogLevel)

	log.Info("Starting server")

	// Chain service, backed by the network CLI tools
	cs := chain.NewCLIService(chain.ParseConfig(), cfg.ChainMaxSendRate)

	// In-memory stores, hydrated from the flat files below
	accountStore := accounts.NewMemStore()
	nftStore := nfts.NewMemStore()
	txStore := transactions.NewMemStore()

	dataRoot := filepath.Join(cfg.DataDir, cfg.AccountsDirName)
	fileStore := persistence.NewFileStore(dataRoot, nftStore)

	if err := fileStore.LoadAccounts(accountStore); err != nil {
		log.Fatal(err)
	}
	listed, err := fileStore.LoadMarketplace(accountStore, txStore)
	if err != nil {
		log.Fatal(err)
	}

	// Create a worker pool
	jobStore := jobs.NewMemStore()
	wp := jobs.NewWorkerPool(jobStore, cfg.WorkerQueueCapacity, cfg.WorkerCount)

	defer func() {
		wp.Stop()
		log.Info("Stopped workerpool")
	}()

	// Services
	accountService := accounts.NewService(cfg, accountStore, cs, wp, fileStore)
	nftService := nfts.NewService(nftStore, accountStore, cs, fileStore)
	marketService := marketplace.NewService(cfg, accountStore, nftStore, txStore, cs, fileStore)
	txService := transactions.NewService(txStore)
	sessionManager := session.NewManager(accountStore)

	marketService.SetListings(listed)

	// HTTP handling
	accountHandler := handlers.NewAccounts(accountService)
	sessionHandler := handlers.NewSession(sessionManager)
	nftHandler := handlers.NewNFTs(nftService, sessionManager)
	marketHandler := handlers.NewMarketplace(marketService, sessionManager)
	transactionHandler := handlers.NewTransactions(txService, accountStore)
	jobsHandler := handlers.NewJobs(jobStore)

	r := mux.NewRouter()

	// Catch the api version
	rv := r.PathPrefix("/{apiVersion}").Subrouter()

	// Debug
	rv.Handle("/debug", handlers.Debug("https://github.com/nft-bazaar/marketplace-api", sha1ver, buildTime)).Methods(http.MethodGet)

	// Health
	rv.HandleFunc("/health/ready", handlers.HandleHealthReady).Methods(http.MethodGet)
	rv.Handle("/health/liveness", handlers.Liveness(func() (interface{}, error) {
		return wp.Status()
	})).Methods(http.MethodGet)

	// Session
	rv.Handle("/login", sessionHandler.Login()).Methods(http.MethodPost)
	rv.Handle("/logout", sessionHandler.Logout()).Methods(http.MethodPost)
	rv.Handle("/session", sessionHandler.Current()).Methods(http.MethodGet)

	// Jobs
	rv.Handle("/jobs", jobsHandler.List()).Methods(http.MethodGet)            // list
	rv.Handle("/jobs/{jobId}", jobsHandler.Details()).Methods(http.MethodGet) // details

	// Accounts
	rv.Handle("/accounts", accountHandler.List()).Methods(http.MethodGet) // list
	if !cfg.DisableProvisioningAPI {
		rv.Handle("/accounts", accountHandler.Create()).Methods(http.MethodPost)             // create
		rv.Handle("/accounts/{address}", accountHandler.Delete()).Methods(http.MethodDelete) // delete
	} else {
		log.Info("account provisioning disabled")
	}
	rv.Handle("/accounts/{address}", accountHandler.Details()).Methods(http.MethodGet)             // details
	rv.Handle("/accounts/{address}/fund", accountHandler.Fund()).Methods(http.MethodPost)          // faucet
	rv.Handle("/accounts/{address}/nfts", nftHandler.Owned()).Methods(http.MethodGet)              // owned NFTs
	rv.Handle("/accounts/{address}/collections", nftHandler.Collections()).Methods(http.MethodGet) // collections
	rv.Handle("/accounts/{address}/transactions", transactionHandler.AccountHistory()).Methods(http.MethodGet)

	// NFTs
	rv.Handle("/nfts", nftHandler.Mint()).Methods(http.MethodPost)             // mint
	rv.Handle("/nfts/{tokenId}", nftHandler.Details()).Methods(http.MethodGet) // details
	rv.Handle("/collections", nftHandler.CreateCollection()).Methods(http.MethodPost)

	// Marketplace
	rv.Handle("/listings", marketHandler.Listings()).Methods(http.MethodGet)            // list
	rv.Handle("/listings", marketHandler.List()).Methods(http.MethodPost)               // create
	rv.Handle("/listings/{tokenId}", marketHandler.Unlist()).Methods(http.MethodDelete) // delete
	rv.Handle("/listings/{tokenId}/buy", marketHandler.Buy()).Methods(http.MethodPost)  // purchase

	// Transactions
	rv.Handle("/transactions", transactionHandler.List()).Methods(http.MethodGet)                    // list
	rv.Handle("/transactions/{transactionId}", transactionHandler.Details()).Methods(http.MethodGet) // details

	h := http.TimeoutHandler(r, cfg.ServerRequestTimeout, "request timed out")
	h = handlers.UseCors(h)
	h = middleware.LoggingHandler(h)
	h = handlers.UseCompress(h)

	// Server boilerplate
	srv := &http.Server{
		Handler:      h,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		WriteTimeout: 0, // Disabled, set cfg.ServerRequestTimeout instead
		ReadTimeout:  0, // Disabled, set cfg.ServerRequestTimeout instead
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.
			WithFields(log.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil {
			log.Warn(err)
		}
	}()

	// Trap interupt or sigterm and gracefully shutdown the server
	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+/) will not be caught.
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	sig := <-c

	log.Infof("Got signal: %s. Shutting down..", sig)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Error in server shutdown: %s", err)
	}
}
