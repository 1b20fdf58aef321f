package main

import (
	"encoding/base64"
	"log"

	"github.com/gin-gonic/gin"

	"praxido.de/praxido/core"
	"praxido.de/praxido/infrastructure/devops"
	"praxido.de/praxido/infrastructure/filesystem"
	"praxido.de/praxido/tracking/export"
	"praxido.de/praxido/tracking/policy"
	"praxido.de/praxido/tracking/web/handlers/timetracking"
	"praxido.de/praxido/web/middlewares"
)

func main() {
	cfg, err := devops.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	secret, err := base64.StdEncoding.DecodeString(cfg.Auth.SigningSecret)
	if err != nil {
		log.Fatalf("decode signing secret: %v", err)
	}

	dm, err := core.New(cfg.Database.DSN, cfg.Database.MaxConnections)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer dm.Close()

	if err := dm.Migrate(); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}

	var archiver export.Archiver
	if cfg.Export.Bucket != "" {
		archiver = &filesystem.S3Archiver{Bucket: cfg.Export.Bucket}
	}

	endpoint := &timetracking.Endpoint{
		Dm:       dm,
		Gate:     policy.NewGate(dm.DB()),
		Target:   cfg.WorkTime.TargetResolver(),
		Archiver: archiver,
	}

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(secret))
	timetracking.Register(protected, endpoint)

	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
