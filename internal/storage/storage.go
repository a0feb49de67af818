package storage

import (
	"context"
	"fmt"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/config"
	"fraddriso20022/internal/db"
	"fraddriso20022/internal/logger"
	"fraddriso20022/internal/storage/file"
	"fraddriso20022/internal/storage/memory"
	mongostore "fraddriso20022/internal/storage/mongo"
	redisstore "fraddriso20022/internal/storage/redis"

	"go.uber.org/zap"
)

// CloseFunc releases whatever connection backs a repository.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// Open builds the repository selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config) (address.Repository, CloseFunc, error) {
	log := logger.FromCtx(ctx).With(zap.String("storage", cfg.Storage))

	switch cfg.Storage {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return memory.New(), noopClose, nil

	case config.StorageFile, "":
		log.Info("using file storage", zap.String("path", cfg.AddressFile))
		return file.New(cfg.AddressFile), noopClose, nil

	case config.StoragePostgres:
		database, err := db.NewDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		return address.NewRepository(database), func(context.Context) error { return database.Close() }, nil

	case config.StorageMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewRepository(client.Database(cfg.MongoDBName).Collection(cfg.MongoCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		log.Info("using mongo storage", zap.String("db", cfg.MongoDBName), zap.String("collection", cfg.MongoCollection))
		return repo, client.Disconnect, nil

	case config.StorageRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis storage")
		return redisstore.NewRepository(client), func(context.Context) error { return client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown STORAGE %q", config.ErrInvalidConfig, cfg.Storage)
	}
}
