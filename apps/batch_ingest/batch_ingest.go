package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/ingest"
	"github.com/islandora-tools/batch-ingest-services/models/common"
	"github.com/islandora-tools/batch-ingest-services/util"
)

var rootCmd = &cobra.Command{
	Use:   "batch_ingest",
	Short: "Batch-ingest packaged digital objects into a Fedora repository",
	Long: `batch_ingest walks a directory of object packages and ingests each one
into a Fedora repository over its REST API. Each immediate subdirectory
of the input directory is one package: a MODS.xml for the label, an
optional cmodel.txt naming the content model, and the content files.
Books, newspaper issues and compound objects carry their children as
nested subdirectories.

Every flag can also be set through a BATCH_INGEST_* environment
variable, e.g. BATCH_INGEST_TOKEN for --token.`,
	SilenceUsage: true,
	RunE:         run,
}

// hadErrors turns into exit code 1 after the deferred cleanup in run
// has finished.
var hadErrors bool

func init() {
	f := rootCmd.Flags()
	f.String("input", "", "Directory containing the object packages (required)")
	f.String("url", "", "Base URL of the Fedora REST API (required)")
	f.String("user", "fedoraAdmin", "Repository API user")
	f.String("token", "", "Repository API password or token")
	f.String("namespace", constants.DefaultNamespace, "PID namespace for created objects")
	f.String("parent", "", "PID of the collection the objects belong to")
	f.String("relationship", constants.DefaultRelationship, "Predicate linking objects to the parent")
	f.String("content-model", "", "Content model to apply to every top-level object")
	f.String("owner", constants.DefaultOwner, "Owner ID recorded on created objects")
	f.String("state", constants.StateActive, "Object state: A, I or D")
	f.String("checksum", constants.AlgSha1, "Datastream checksum: none or sha1")
	f.String("classmap", "", "File mapping content models to object kinds")
	f.String("sigfile", "", "Siegfried signature file for content-based format identification")
	f.String("log-dir", "", "Directory for the run log; empty logs to stderr")
	f.String("log-level", "INFO", "Log level: CRITICAL, ERROR, WARNING, NOTICE, INFO or DEBUG")
	f.Int64("max-file-size", 0, "Skip datastream files larger than this many MB; 0 means no limit")
	f.Bool("delete-input", false, "Delete each package directory after a successful ingest")
	f.Bool("resume", false, "Skip directories recorded as completed in the Redis ledger")
	f.String("redis-url", "", "Redis host:port for the resume ledger")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.String("s3-host", "", "S3 endpoint for package archiving")
	f.String("s3-key", "", "S3 access key ID")
	f.String("s3-secret", "", "S3 secret access key")
	f.String("archive-bucket", "", "S3 bucket receiving tarred packages after ingest")

	cobra.CheckErr(rootCmd.MarkFlagRequired("input"))
	cobra.CheckErr(viper.BindPFlags(f))
	viper.SetEnvPrefix("BATCH_INGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	context, err := common.NewContext(viper.GetViper())
	if err != nil {
		return err
	}
	context.Logger.Infof("batch_ingest starting; logging to %s", context.LogFilePath)

	// One batch at a time per input tree.
	pidFile := filepath.Join(context.Config.InputDir, ".batch_ingest.pid")
	if util.IsRunningInOtherProcess(pidFile) {
		return fmt.Errorf("another batch is already running over %s (pid file %s)",
			context.Config.InputDir, pidFile)
	}
	if err := util.WritePidFile(pidFile); err != nil {
		return fmt.Errorf("cannot write pid file %s: %v", pidFile, err)
	}
	defer util.DeletePidFile(pidFile)

	runner, err := ingest.NewBatchRunner(context)
	if err != nil {
		return err
	}
	summary, err := runner.Run()
	if err != nil {
		return err
	}
	hadErrors = summary.HadErrors()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
	if hadErrors {
		os.Exit(1)
	}
}
