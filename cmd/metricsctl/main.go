// Package main implementa o metricsctl, ferramenta de operação do serviço de métricas.
//
// Uso:
//
//	metricsctl transform --file abas.json --entity "Texas Vascular Institute" --start 2024-03-01 --end 2024-03-31
//	metricsctl migrate up
//	metricsctl sources list
//	metricsctl publish --source-id src_123
package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

var (
	logLevel string
	timeout  time.Duration

	// loadConfig é trocado nos testes para não depender do ambiente
	loadConfig = config.NewConfig
)

var rootCmd = &cobra.Command{
	Use:           "metricsctl",
	Short:         "Operações do serviço de métricas de campanha",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLevel(logLevel)
	},
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Nível de log (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Tempo máximo da operação")

	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(publishCmd)
}

// commandContext aplica o --timeout ao contexto do comando
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("metricsctl: command failed")
		os.Exit(1)
	}
}
