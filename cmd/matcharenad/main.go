package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vctt94/bisonbotkit/logging"
	"github.com/vctt94/matcharena/internal/config"
	"github.com/vctt94/matcharena/pkg/ledger"
	"github.com/vctt94/matcharena/pkg/match"
	"github.com/vctt94/matcharena/pkg/oracle"
	"github.com/vctt94/matcharena/pkg/transport"
	"github.com/vctt94/matcharena/pkg/utils"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logDir := filepath.Dir(cfg.DBPath)
	if err := utils.EnsureDataDirExists(logDir); err != nil {
		fmt.Fprintf(os.Stderr, "datadir: %v\n", err)
		os.Exit(1)
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:     filepath.Join(logDir, "matcharenad.log"),
		DebugLevel:  cfg.DebugLevel,
		MaxLogFiles: 5,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logBackend.Close()
	log := logBackend.Logger("MATCHARENA")

	lg, err := ledger.Open(cfg.DBPath)
	if err != nil {
		log.Errorf("ledger open failed: %v", err)
		os.Exit(1)
	}
	defer lg.Close()

	var paymentOracle oracle.Oracle
	if cfg.TestMode {
		log.Warnf("running with TestOracle: payment proofs are not actually verified")
		paymentOracle = oracle.NewTestOracle()
	} else {
		if cfg.OracleRPCURL == "" || cfg.EscrowSecret == "" {
			log.Errorf("ORACLE_RPC_URL and ESCROW_SECRET are required outside test mode")
			os.Exit(1)
		}
		paymentOracle = oracle.NewHTTPOracle(cfg.OracleRPCURL, cfg.EscrowSecret, logBackend.Logger("ORACLE"))
	}

	server := match.NewServer(lg, paymentOracle, cfg.HouseAccount, cfg.EscrowSecret, cfg.TestMode, logBackend.Logger("MATCH"))
	tp := transport.New(server, cfg.EscrowSecret, logBackend.Logger("TRANSPORT"))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", tp.ServeWS)
	mux.HandleFunc("/api/escrow", tp.ServeEscrow)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Infof("listening on %s (testMode=%v)", addr, cfg.TestMode)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("http serve error: %v", err)
		os.Exit(1)
	}
}
