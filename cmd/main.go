/**
 * @description
 * This is the main entry point for the donation-service. It is responsible
 * for initializing all components of the service: configuration, the node
 * signing key, the in-memory stores, the payment verifier, the lifecycle
 * service, the expiry sweeper, and the HTTP server. It wires everything
 * together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP serving.
 * - github.com/decred/dcrd/dcrec/secp256k1/v4: node key handling.
 * - internal/api, internal/app, internal/config, internal/store: internal
 *   packages for the service.
 * - pkg/bolt11, pkg/lnclient, pkg/qr: invoice encoding, the simulated
 *   Lightning client, and QR rendering.
 */

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/satsforgood/donation-service/internal/api"
	"github.com/satsforgood/donation-service/internal/app"
	"github.com/satsforgood/donation-service/internal/config"
	"github.com/satsforgood/donation-service/internal/store"
	"github.com/satsforgood/donation-service/pkg/bolt11"
	"github.com/satsforgood/donation-service/pkg/lnclient"
	"github.com/satsforgood/donation-service/pkg/qr"
)

func main() {
	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting donation-service\" port=%s network=%s", cfg.ServerPort, cfg.Network)

	// Load or generate the node signing key. All state is process-lifetime,
	// so an ephemeral key is acceptable when none is configured.
	nodeKey, err := loadNodeKey(cfg.NodeKeyHex)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"node key init failed\" err=%v", err)
	}

	// Initialize the in-memory stores.
	invoices := store.NewInvoiceStore(cfg.MinDonationSats, cfg.MaxDonationSats)
	ledger := store.NewDonationLedger()

	// The simulated Lightning client stands in for a real node connection.
	// Production deployments replace this with a node-backed verifier.
	verifier := lnclient.NewSimulatedClient(time.Duration(cfg.AutoSettleAfterSeconds) * time.Second)
	if cfg.AutoSettleAfterSeconds > 0 {
		log.Printf("level=warn component=bootstrap msg=\"auto-settle demo mode enabled\" after_seconds=%d", cfg.AutoSettleAfterSeconds)
	}

	encoder := bolt11.NewEncoder(nodeKey, cfg.Network)
	renderer := qr.NewRenderer(cfg.QRCodeSize)

	// Initialize the core application service with its dependencies.
	donationService := app.NewService(
		invoices,
		ledger,
		verifier,
		encoder,
		renderer,
		time.Duration(cfg.InvoiceTTLSeconds)*time.Second,
		cfg.AnonymousDonorName,
		cfg.Network,
	)

	// Start the background expiry sweep.
	sweeper := app.NewSweeper(invoices, cfg.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"sweeper start failed\" err=%v", err)
	}

	// Initialize the API handlers and router.
	handlers := api.NewDonationHandlers(donationService)
	router := api.DonationRoutes(handlers)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s node_pubkey=%s", serverAddr, encoder.PublicKey())

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	// Stop the sweeper and wait for any in-flight sweep to finish.
	<-sweeper.Stop().Done()

	log.Println("level=info component=http msg=\"shutdown complete\"")
}

// loadNodeKey decodes the configured node key, or generates an ephemeral one
// when the configuration is empty.
func loadNodeKey(keyHex string) (*secp256k1.PrivateKey, error) {
	if strings.TrimSpace(keyHex) == "" {
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate node key: %w", err)
		}
		log.Println("level=info component=bootstrap msg=\"generated ephemeral node key\"")
		return key, nil
	}

	raw, err := hex.DecodeString(strings.TrimSpace(keyHex))
	if err != nil {
		return nil, fmt.Errorf("invalid NODE_KEY_HEX: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("invalid NODE_KEY_HEX: expected 32 bytes, got %d", len(raw))
	}
	return secp256k1.PrivKeyFromBytes(raw), nil
}
