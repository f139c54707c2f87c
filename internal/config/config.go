// Package config loads server configuration from, in increasing
// precedence order: built-in defaults, an optional TOML file, process
// environment variables, and command-line flags. The flag set follows
// cmd/pokersrv/main.go's style; the optional file layer is grounded on
// go-kgp/conf/conf.go's toml-tagged struct (narrowed to this server's
// own settings).
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the fully resolved server configuration.
type Config struct {
	Host       string
	Port       int
	DBPath     string
	DebugLevel string

	EscrowSecret string
	HouseAccount string
	OracleRPCURL string
	TestMode     bool
}

// fileConfig is the shape of an optional -config TOML file.
type fileConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	DBPath     string `toml:"db_path"`
	DebugLevel string `toml:"debug_level"`

	Payment struct {
		EscrowSecret string `toml:"escrow_secret"`
		HouseAccount string `toml:"house_account"`
		OracleRPCURL string `toml:"oracle_rpc_url"`
	} `toml:"payment"`
	TestMode bool `toml:"test_mode"`
}

func defaults() *Config {
	return &Config{
		Host:       "127.0.0.1",
		Port:       8080,
		DBPath:     "matcharena.sqlite",
		DebugLevel: "info",
	}
}

// Load resolves configuration from defaults, an optional TOML file
// named by -config (or MATCHARENA_CONFIG), the environment, and
// flags, in that order of increasing precedence.
func Load(args []string) (*Config, error) {
	cfg := defaults()

	fs := flag.NewFlagSet("matcharenad", flag.ContinueOnError)
	var (
		configPath   string
		host         string
		port         int
		dbPath       string
		debugLevel   string
		escrowSecret string
		houseAccount string
		oracleURL    string
		testMode     bool
	)
	fs.StringVar(&configPath, "config", os.Getenv("MATCHARENA_CONFIG"), "Path to an optional TOML config file")
	fs.StringVar(&host, "host", cfg.Host, "Host to listen on")
	fs.IntVar(&port, "port", cfg.Port, "Port to listen on")
	fs.StringVar(&dbPath, "db", cfg.DBPath, "Path to the SQLite ledger database file")
	fs.StringVar(&debugLevel, "debuglevel", cfg.DebugLevel, "Logging level: trace, debug, info, warn, error")
	fs.StringVar(&escrowSecret, "escrowsecret", "", "Escrow account secret used to verify inbound stake proofs")
	fs.StringVar(&houseAccount, "houseaccount", "", "Account that receives the house cut of each settled pot")
	fs.StringVar(&oracleURL, "oraclerpc", "", "Base URL of the payment oracle's HTTP API")
	fs.BoolVar(&testMode, "testmode", false, "Bypass real payment verification (TestOracle)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(configPath, &fc); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
		applyFile(cfg, &fc)
	}

	applyEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = host
		case "port":
			cfg.Port = port
		case "db":
			cfg.DBPath = dbPath
		case "debuglevel":
			cfg.DebugLevel = debugLevel
		case "escrowsecret":
			cfg.EscrowSecret = escrowSecret
		case "houseaccount":
			cfg.HouseAccount = houseAccount
		case "oraclerpc":
			cfg.OracleRPCURL = oracleURL
		case "testmode":
			cfg.TestMode = testMode
		}
	})

	return cfg, nil
}

func applyFile(cfg *Config, fc *fileConfig) {
	if fc.Host != "" {
		cfg.Host = fc.Host
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.DebugLevel != "" {
		cfg.DebugLevel = fc.DebugLevel
	}
	if fc.Payment.EscrowSecret != "" {
		cfg.EscrowSecret = fc.Payment.EscrowSecret
	}
	if fc.Payment.HouseAccount != "" {
		cfg.HouseAccount = fc.Payment.HouseAccount
	}
	if fc.Payment.OracleRPCURL != "" {
		cfg.OracleRPCURL = fc.Payment.OracleRPCURL
	}
	cfg.TestMode = cfg.TestMode || fc.TestMode
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("ESCROW_SECRET"); v != "" {
		cfg.EscrowSecret = v
	}
	if v := os.Getenv("HOUSE_ACCOUNT"); v != "" {
		cfg.HouseAccount = v
	}
	if v := os.Getenv("ORACLE_RPC_URL"); v != "" {
		cfg.OracleRPCURL = v
	}
	if v := os.Getenv("TEST_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TestMode = b
		}
	}
}
