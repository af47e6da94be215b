package common

import (
	"fmt"

	"github.com/go-redis/redis/v7"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/op/go-logging"
	"github.com/spf13/viper"

	"github.com/islandora-tools/batch-ingest-services/network"
	"github.com/islandora-tools/batch-ingest-services/util"
	"github.com/islandora-tools/batch-ingest-services/util/logger"
)

// Context bundles the config, logger and external clients, and is
// passed explicitly to every component of the ingest engine. The
// optional clients (Redis ledger, S3 archive) are nil when their
// features are not configured.
type Context struct {
	Config        *Config
	Logger        *logging.Logger
	LogFilePath   string
	FedoraClient  *network.FedoraClient
	RedisClient   *redis.Client
	S3Client      *minio.Client
	FmtIdentifier *util.FormatIdentifier
}

// NewContext builds a Context from the supplied viper instance.
// Returns an error for anything configuration-fatal: bad option
// values, an unloadable signature file, or an unreachable client.
func NewContext(v *viper.Viper) (*Context, error) {
	config, err := NewConfig(v)
	if err != nil {
		return nil, err
	}
	_logger, logFilePath := logger.InitLogger(config.LogDir, config.LogLevel)
	fedoraClient, err := network.NewFedoraClient(
		config.FedoraURL,
		config.APIUser,
		config.APIKey,
		_logger)
	if err != nil {
		return nil, fmt.Errorf("could not initialize repository client: %v", err)
	}
	fmtIdentifier, err := util.NewFormatIdentifier(config.SigFile)
	if err != nil {
		return nil, err
	}
	context := &Context{
		Config:        config,
		Logger:        _logger,
		LogFilePath:   logFilePath,
		FedoraClient:  fedoraClient,
		FmtIdentifier: fmtIdentifier,
	}
	if config.LedgerEnabled() {
		context.RedisClient = getRedisClient(config)
	}
	if config.ArchiveEnabled() {
		context.S3Client, err = getS3Client(config)
		if err != nil {
			return nil, fmt.Errorf("could not initialize S3 client: %v", err)
		}
	}
	return context, nil
}

func getRedisClient(config *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.RedisURL,
		Password: config.RedisPassword,
		DB:       config.RedisDefaultDB,
	})
}

func getS3Client(config *Config) (*minio.Client, error) {
	return minio.New(config.S3Host, &minio.Options{
		Creds:  credentials.NewStaticV4(config.S3KeyID, config.S3SecretKey, ""),
		Secure: true,
	})
}
