package db

import (
	"os"
	"path/filepath"

	"github.com/goatnetwork/node-bridge/internal/config"
	"github.com/goatnetwork/node-bridge/internal/db/migrations"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DatabaseManager struct {
	nodeDb  *gorm.DB
	cacheDb *gorm.DB
}

func NewDatabaseManager() *DatabaseManager {
	dm := &DatabaseManager{}
	dm.initDB()
	return dm
}

func (dm *DatabaseManager) initDB() {
	dbDir := config.AppConfig.DbDir
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	nodePath := filepath.Join(dbDir, "nodes.db")
	nodeDb, err := gorm.Open(sqlite.Open(nodePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to node database: %v", err)
	}
	dm.nodeDb = nodeDb
	log.Debugf("Node database connected successfully, path: %s", nodePath)

	cachePath := filepath.Join(dbDir, "utxo_cache.db")
	cacheDb, err := gorm.Open(sqlite.Open(cachePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to cache database: %v", err)
	}
	dm.cacheDb = cacheDb
	log.Debugf("Cache database connected successfully, path: %s", cachePath)

	dm.autoMigrate()
	dm.runMigrations()
	log.Debugf("Database migration completed successfully")
}

func (dm *DatabaseManager) autoMigrate() {
	if err := dm.nodeDb.AutoMigrate(&Node{}, &Wallet{}); err != nil {
		log.Fatalf("Failed to migrate node database: %v", err)
	}
	if err := dm.cacheDb.AutoMigrate(&Utxo{}); err != nil {
		log.Fatalf("Failed to migrate cache database: %v", err)
	}
}

func (dm *DatabaseManager) runMigrations() {
	mm := migrations.NewMigrationManager(dm.cacheDb)
	if err := mm.EnsureMigrationTable(); err != nil {
		log.Fatalf("Failed to create migrations table: %v", err)
	}
	if err := mm.RunMigration("20261019_utxo_wallet_outpoint_index", migrations.AddUtxoWalletOutpointIndex); err != nil {
		log.Fatalf("Failed to run cache migrations: %v", err)
	}
}

func (dm *DatabaseManager) GetNodeDB() *gorm.DB {
	return dm.nodeDb
}

func (dm *DatabaseManager) GetCacheDB() *gorm.DB {
	return dm.cacheDb
}
