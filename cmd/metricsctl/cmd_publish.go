package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/internal/events"
	"github.com/vfg2006/campaign-metrics-api/pkg/utils"
)

type publisher interface {
	Connect() error
	Publish(ctx context.Context, msg *events.SheetUpdatedMessage) error
	Close() error
}

var (
	publishSourceID      string
	publishSpreadsheetID string
	publishStart         string
	publishEnd           string

	newPublisher = func(cfg config.Events) publisher {
		return events.NewClient(cfg)
	}
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publica um aviso de planilha atualizada na fila",
	Long: `Envia a mesma mensagem que a automação da planilha envia quando os dados mudam.
O consumidor da API recalcula os snapshots das fontes afetadas.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSourceID, "source-id", "", "Fonte a recalcular")
	publishCmd.Flags().StringVar(&publishSpreadsheetID, "spreadsheet-id", "", "Recalcula todas as fontes desta planilha")
	publishCmd.Flags().StringVar(&publishStart, "start", "", "Data inicial (YYYY-MM-DD)")
	publishCmd.Flags().StringVar(&publishEnd, "end", "", "Data final (YYYY-MM-DD)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	msg := events.NewSheetUpdatedMessage(publishSourceID, publishSpreadsheetID)
	msg.StartDate = publishStart
	msg.EndDate = publishEnd

	if err := msg.Validate(); err != nil {
		return err
	}
	if _, _, _, err := msg.Period(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := newPublisher(cfg.Events)
	if err := client.Connect(); err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	defer client.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := client.Publish(ctx, msg); err != nil {
		return err
	}

	out, err := utils.PrettyJSON(msg)
	if err != nil {
		return fmt.Errorf("format message: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
