package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goatnetwork/node-bridge/internal/config"
	"github.com/goatnetwork/node-bridge/internal/http"
	"github.com/goatnetwork/node-bridge/internal/node"
	log "github.com/sirupsen/logrus"
)

func main() {
	var (
		host        = flag.String("host", "127.0.0.1", "Node host or onion address")
		port        = flag.Int("port", 0, "RPC port, defaults to the network's conventional port")
		user        = flag.String("user", "", "rpcuser")
		password    = flag.String("password", "", "rpcpassword")
		label       = flag.String("label", "", "Node label")
		networkType = flag.String("network", "mainnet", "Network type: mainnet, testnet3, regtest, signet")
		token       = flag.String("token", "", "Issue an API token for this subject instead, signed with API_JWT_SECRET")
		tokenTTL    = flag.Duration("ttl", 30*24*time.Hour, "API token lifetime, 0 never expires")
		help        = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		fmt.Println("Usage: nodeuri [options]")
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *token != "" {
		config.InitConfig()
		if config.AppConfig.APIJwtSecret == "" {
			log.Fatal("API_JWT_SECRET is required to issue a token.")
		}
		signed, err := http.IssueToken([]byte(config.AppConfig.APIJwtSecret), *token, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(signed)
		return
	}

	if *user == "" || *password == "" {
		log.Fatal("rpcuser and rpcpassword are required. Use -user and -password flags.")
	}

	var params *chaincfg.Params
	switch *networkType {
	case "mainnet":
		params = &chaincfg.MainNetParams
	case "testnet3":
		params = &chaincfg.TestNet3Params
	case "regtest":
		params = &chaincfg.RegressionNetParams
	case "signet":
		params = &chaincfg.SigNetParams
	default:
		log.Fatalf("Invalid network type: %s", *networkType)
	}

	if *port == 0 {
		*port = node.DefaultRPCPort(params)
	}

	uri := &node.ConnectURI{
		Scheme:   "btcrpc",
		Host:     net.JoinHostPort(*host, strconv.Itoa(*port)),
		User:     *user,
		Password: *password,
		Label:    *label,
	}
	if _, err := node.ParseConnectURI(uri.String()); err != nil {
		log.Fatalf("Invalid connection uri: %v", err)
	}

	fmt.Println(uri.String())
}
