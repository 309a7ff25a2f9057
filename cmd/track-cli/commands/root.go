// 包 commands：track-cli 子命令
package commands

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ip-tracker/internal/app"
	"ip-tracker/internal/config"
	"ip-tracker/internal/logger"
	"ip-tracker/internal/query"
)

var (
	strict   bool
	logLevel string
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "track-cli",
		Short:         "Classify IP addresses and domains and look up their location",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load(".env")
			_ = godotenv.Load(filepath.Join("data", "env", ".env"))
			logger.SetupWriter(cmd.ErrOrStderr(), logLevel, "text")
		},
	}
	root.PersistentFlags().BoolVar(&strict, "strict", false, "reject domains followed by trailing text")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug|info|warn|error")

	root.AddCommand(classifyCmd(), lookupCmd(), watchCmd())
	return root
}

func classifier() query.Classifier {
	return query.NewClassifier(strict)
}

// openLookup：读取与服务端相同的环境配置
func openLookup() (*app.Services, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	if strict {
		cfg.StrictDomain = true
	}
	s, err := app.BuildLookup(cfg, nil)
	return s, cfg, err
}
