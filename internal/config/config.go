package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var AppConfig Config

func InitConfig() {
	// .env is optional, real environment variables always win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Default config
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DB_DIR", "/app/db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("NODE_SECRET", "")
	viper.SetDefault("TOR_PROXY", "127.0.0.1:9050")
	viper.SetDefault("RPC_MAX_ATTEMPTS", 10)
	viper.SetDefault("RPC_TIMEOUT_DEFAULT", "10s")
	viper.SetDefault("RPC_TIMEOUT_BULK", "60s")
	viper.SetDefault("RPC_TIMEOUT_SCAN", "1000s")
	viper.SetDefault("UTXO_SYNC_INTERVAL", "10m")
	viper.SetDefault("TIP_POLL_INTERVAL", "30s")
	viper.SetDefault("API_JWT_SECRET", "")

	logLevel, err := logrus.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}

	AppConfig = Config{
		HTTPPort:          viper.GetString("HTTP_PORT"),
		DbDir:             viper.GetString("DB_DIR"),
		LogLevel:          logLevel,
		NodeSecret:        viper.GetString("NODE_SECRET"),
		TorProxy:          viper.GetString("TOR_PROXY"),
		RPCMaxAttempts:    viper.GetInt("RPC_MAX_ATTEMPTS"),
		RPCTimeoutDefault: viper.GetDuration("RPC_TIMEOUT_DEFAULT"),
		RPCTimeoutBulk:    viper.GetDuration("RPC_TIMEOUT_BULK"),
		RPCTimeoutScan:    viper.GetDuration("RPC_TIMEOUT_SCAN"),
		UtxoSyncInterval:  viper.GetDuration("UTXO_SYNC_INTERVAL"),
		TipPollInterval:   viper.GetDuration("TIP_POLL_INTERVAL"),
		APIJwtSecret:      viper.GetString("API_JWT_SECRET"),
	}

	if AppConfig.RPCMaxAttempts <= 0 {
		logrus.Warnf("RPC max attempts %d is invalid, set to 10", AppConfig.RPCMaxAttempts)
		AppConfig.RPCMaxAttempts = 10
	}
	if AppConfig.NodeSecret == "" {
		logrus.Warnf("NODE_SECRET is empty, node credentials are encrypted with an empty passphrase")
	}

	logrus.Infof("Init config, DbDir %s, TorProxy %s, RPCMaxAttempts %d, UtxoSyncInterval %v",
		AppConfig.DbDir, AppConfig.TorProxy, AppConfig.RPCMaxAttempts, AppConfig.UtxoSyncInterval)

	// logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(AppConfig.LogLevel)
}

type Config struct {
	HTTPPort          string
	DbDir             string
	LogLevel          logrus.Level
	NodeSecret        string
	TorProxy          string
	RPCMaxAttempts    int
	RPCTimeoutDefault time.Duration
	RPCTimeoutBulk    time.Duration
	RPCTimeoutScan    time.Duration
	UtxoSyncInterval  time.Duration
	TipPollInterval   time.Duration
	APIJwtSecret      string
}
