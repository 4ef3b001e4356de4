package app

import (
	"fmt"
	"log"
	"strings"

	"repograph/internal/docstore"
	"repograph/internal/gateway/config"
)

// initDocStore picks the document store backend from config: postgres when a
// DSN is set, S3 when an endpoint is configured, file dir otherwise. Every
// origin is fronted with an LRU cache.
func initDocStore(cfg *config.Config) (docstore.Store, error) {
	origin, label, err := chooseOrigin(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("document store: %s", label)
	return docstore.NewCachedStore(origin), nil
}

func chooseOrigin(cfg *config.Config) (docstore.Store, string, error) {
	if dsn := strings.TrimSpace(cfg.Store.DatabaseURL); dsn != "" {
		pg, err := docstore.NewPostgresStore(dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize postgres store: %w", err)
		}
		return pg, "postgres", nil
	}
	if cfg.Store.S3.Enabled {
		s3, err := docstore.NewS3Store(docstore.S3Config{
			Endpoint:  cfg.Store.S3.Endpoint,
			Region:    cfg.Store.S3.Region,
			AccessKey: cfg.Store.S3.AccessKey,
			SecretKey: cfg.Store.S3.SecretKey,
			Bucket:    cfg.Store.S3.Bucket,
			UseSSL:    cfg.Store.S3.UseSSL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize s3 store: %w", err)
		}
		return s3, "s3 bucket=" + cfg.Store.S3.Bucket, nil
	}
	return docstore.NewFileStore(cfg.Store.Dir), "file dir=" + cfg.Store.Dir, nil
}
