package main

import (
	"github.com/picfeed/picfeed/config"
	"github.com/picfeed/picfeed/routes"
	"github.com/picfeed/picfeed/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	rdb, err := utils.NewRedis(cfg)
	if err != nil {
		utils.Sugar.Fatalf("redis init failed: %v", err)
	}

	r := routes.SetupRouter(db, rdb)

	utils.Sugar.Infof("starting server on port %s (graceful)", cfg.AppPort)
	err = utils.GraceServer(":"+cfg.AppPort, r)

	// Explicit teardown once serving stops.
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()

	if err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
