package common

import (
	"fmt"

	"github.com/op/go-logging"
	"github.com/spf13/viper"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// Config holds everything the batch ingester needs to know for one
// run. Values come from CLI flags bound into viper, or from
// BATCH_INGEST_* environment vars.
type Config struct {
	// Input and repository
	InputDir  string
	FedoraURL string
	APIUser   string
	APIKey    string

	// Object derivation
	Namespace    string
	ParentPID    string
	Relationship string
	ContentModel string
	Owner        string
	State        string
	ChecksumType string
	ClassmapFile string

	// Format identification
	SigFile string

	// Logging
	LogDir   string
	LogLevel logging.Level

	// Limits and cleanup
	MaxFileSizeMB int64
	DeleteInput   bool

	// Resume ledger (optional, Redis)
	Resume         bool
	RedisURL       string
	RedisPassword  string
	RedisDefaultDB int

	// Package archive (optional, S3)
	S3Host        string
	S3KeyID       string
	S3SecretKey   string
	ArchiveBucket string
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// NewConfig builds a Config from the supplied viper instance and
// validates it. Validation failures here are configuration-fatal: the
// caller prints the error and exits before any ingestion begins.
func NewConfig(v *viper.Viper) (*Config, error) {
	levelName := v.GetString("log-level")
	level, ok := logLevels[levelName]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", levelName)
	}
	config := &Config{
		InputDir:       v.GetString("input"),
		FedoraURL:      v.GetString("url"),
		APIUser:        v.GetString("user"),
		APIKey:         v.GetString("token"),
		Namespace:      v.GetString("namespace"),
		ParentPID:      v.GetString("parent"),
		Relationship:   v.GetString("relationship"),
		ContentModel:   v.GetString("content-model"),
		Owner:          v.GetString("owner"),
		State:          v.GetString("state"),
		ChecksumType:   v.GetString("checksum"),
		ClassmapFile:   v.GetString("classmap"),
		SigFile:        v.GetString("sigfile"),
		LogDir:         v.GetString("log-dir"),
		LogLevel:       level,
		MaxFileSizeMB:  v.GetInt64("max-file-size"),
		DeleteInput:    v.GetBool("delete-input"),
		Resume:         v.GetBool("resume"),
		RedisURL:       v.GetString("redis-url"),
		RedisPassword:  v.GetString("redis-password"),
		RedisDefaultDB: v.GetInt("redis-db"),
		S3Host:         v.GetString("s3-host"),
		S3KeyID:        v.GetString("s3-key"),
		S3SecretKey:    v.GetString("s3-secret"),
		ArchiveBucket:  v.GetString("archive-bucket"),
	}
	if err := config.expandPaths(); err != nil {
		return nil, err
	}
	if err := config.sanityCheck(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) expandPaths() error {
	for _, path := range []*string{&c.InputDir, &c.LogDir, &c.ClassmapFile, &c.SigFile} {
		expanded, err := util.ExpandTilde(*path)
		if err != nil {
			return err
		}
		*path = expanded
	}
	return nil
}

func (c *Config) sanityCheck() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if !util.IsDirectory(c.InputDir) {
		return fmt.Errorf("input directory %s does not exist", c.InputDir)
	}
	if c.FedoraURL == "" {
		return fmt.Errorf("repository URL is required")
	}
	if !util.StringListContains(constants.ObjectStates, c.State) {
		return fmt.Errorf("state must be one of A, I, D; got %q", c.State)
	}
	if !util.StringListContains(constants.ChecksumAlgorithms, c.ChecksumType) {
		return fmt.Errorf("checksum must be one of none, sha1; got %q", c.ChecksumType)
	}
	if !util.StringListContains(constants.ParentPredicates, c.Relationship) {
		return fmt.Errorf("relationship %q is not a recognized parent predicate", c.Relationship)
	}
	if c.ContentModel != "" && !util.IsValidPid(c.ContentModel) {
		return fmt.Errorf("content model %q is not a valid PID", c.ContentModel)
	}
	if c.ParentPID != "" && !util.IsValidPid(c.ParentPID) {
		return fmt.Errorf("parent %q is not a valid PID", c.ParentPID)
	}
	if c.MaxFileSizeMB < 0 {
		return fmt.Errorf("max-file-size cannot be negative")
	}
	if c.ArchiveBucket != "" && c.S3Host == "" {
		return fmt.Errorf("archive-bucket requires s3-host")
	}
	return nil
}

// MaxFileBytes returns the datastream size ceiling in bytes. Zero
// means no ceiling.
func (c *Config) MaxFileBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// ChecksumsEnabled returns true when datastream uploads should carry
// a checksum.
func (c *Config) ChecksumsEnabled() bool {
	return c.ChecksumType != constants.AlgNone
}

// LedgerEnabled returns true when completed directories should be
// recorded in Redis.
func (c *Config) LedgerEnabled() bool {
	return c.RedisURL != ""
}

// ArchiveEnabled returns true when ingested packages should be tarred
// and uploaded to the archive bucket.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Host != "" && c.ArchiveBucket != ""
}
