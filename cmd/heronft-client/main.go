package main

import (
	"context"
	"errors"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	clientconfig "github.com/heronft/heronft-client/cmd/heronft-client/config"
	"github.com/heronft/heronft-client/internal/chains"
	"github.com/heronft/heronft-client/internal/discovery"
	"github.com/heronft/heronft-client/internal/helpers"
	clienthttp "github.com/heronft/heronft-client/internal/http"
	"github.com/heronft/heronft-client/internal/marketplace"
	"github.com/heronft/heronft-client/internal/metrics"
	"github.com/heronft/heronft-client/internal/session"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/heronft/heronft-client/internal/wallet/local"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const walletPasswordEnv = "HERONFT_WALLET_PASSWORD"

func main() {
	log.Info("heronft-client",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := clientconfig.Load()
	if err != nil {
		log.Fatal("failed to parse config", "error", err)
	}

	required, err := cfg.RequiredNetwork()
	if err != nil {
		log.Fatal("invalid marketplace network", "error", err)
	}

	chainSvc, err := chains.NewService(ctx, chains.ChainConfig{
		Chains:               cfg.EthNetworks,
		DefaultActiveNetwork: cfg.EthNetworks.ActiveNetwork,
		PreferredRPCName:     cfg.EthNetworks.ActiveRPC,
	})
	if err != nil {
		log.Fatal("failed to init chains", "error", err)
	}
	defer chainSvc.Close()

	keyring, err := local.NewStore(cfg.Wallet.KeyringPath)
	if err != nil {
		log.Fatal("failed to resolve keyring path", "error", err)
	}
	gateway := local.New(keyring, chainSvc, walletPassword(keyring))
	defer gateway.Close()

	m := metrics.New()
	store := state.NewStore()
	defer store.Close()

	sessions, err := session.NewManager(ctx, session.Config{
		RequiredChainID: new(big.Int).SetUint64(required.ChainID),
		NetworkLabel:    cfg.Marketplace.NetworkLabel,
		ContractAddress: cfg.ContractAddress(),
	}, gateway, store, session.WithMetrics(m))
	if err != nil {
		log.Fatal("failed to init session manager", "error", err)
	}
	defer sessions.Close()

	market := marketplace.New(sessions, discovery.New(cfg.DiscoveryConfig(), m), m)

	handler, err := clienthttp.NewServer(ctx, sessions, market, clienthttp.Options{
		AllowedOrigins: cfg.ClientSettings.AllowedOrigins,
		Wallet:         gateway,
		Metrics:        m,
	})
	if err != nil {
		log.Fatal("failed to init HTTP server", "error", err)
	}

	// a locked keyring reports no accounts, so this only restores a session
	// when the wallet was already unlocked
	if err := sessions.Probe(ctx); err != nil {
		log.Warn("session probe failed", "error", err)
	}

	addr := net.JoinHostPort(cfg.ClientSettings.LocalHost, cfg.ClientSettings.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "url", "http://"+addr, "contract", cfg.Marketplace.ContractAddress,
			"network", cfg.Marketplace.RequiredNetwork)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	} else {
		log.Info("HTTP server gracefully stopped")
	}
}

// walletPassword unlocks the keyring from the environment, or from the
// terminal when one is attached. A missing keyring asks for a new password.
func walletPassword(store *local.Store) local.PasswordFunc {
	return func(ctx context.Context) ([]byte, error) {
		if pw := strings.TrimSpace(os.Getenv(walletPasswordEnv)); pw != "" {
			return []byte(pw), nil
		}
		if !helpers.IsTerminal() {
			return nil, errors.New("no terminal to unlock the wallet; set " + walletPasswordEnv)
		}
		if !store.Exists() {
			log.Info("creating wallet keyring", "path", store.Path)
			return helpers.PromptNewPassword()
		}
		return helpers.PromptPassword("Wallet password: ")
	}
}
