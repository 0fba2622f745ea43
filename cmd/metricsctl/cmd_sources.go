package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/repository"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

var (
	sourceProjectID     string
	sourceName          string
	sourceSpreadsheetID string
	sourceEntity        string
	sourceInactive      bool
	sourceProjectIDs    []string
	sourcesOutput       string
)

// openSourceRepo abre a conexão com o banco; os testes trocam por um mock
var openSourceRepo = func(ctx context.Context, cfg *config.Config) (repository.SheetSourceRepository, func() error, error) {
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return repository.NewSheetSourceRepository(conn), conn.Close, nil
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Cadastra e lista as planilhas vinculadas aos projetos",
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Vincula uma planilha a um projeto",
	Args:  cobra.NoArgs,
	RunE:  runSourcesAdd,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista as planilhas cadastradas",
	Args:  cobra.NoArgs,
	RunE:  runSourcesList,
}

var sourcesActivateCmd = &cobra.Command{
	Use:   "activate <source-id>",
	Short: "Volta a sincronizar uma planilha",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSourceActive(cmd, args[0], true)
	},
}

var sourcesDeactivateCmd = &cobra.Command{
	Use:   "deactivate <source-id>",
	Short: "Remove uma planilha da sincronização",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSourceActive(cmd, args[0], false)
	},
}

func init() {
	sourcesAddCmd.Flags().StringVar(&sourceProjectID, "project", "", "Projeto dono da planilha")
	sourcesAddCmd.Flags().StringVar(&sourceName, "name", "", "Nome exibido no dashboard")
	sourcesAddCmd.Flags().StringVar(&sourceSpreadsheetID, "spreadsheet-id", "", "ID da planilha no Google Sheets")
	sourcesAddCmd.Flags().StringVar(&sourceEntity, "entity", "", "Entidade padrão dos filtros")
	sourcesAddCmd.Flags().BoolVar(&sourceInactive, "inactive", false, "Cadastra sem incluir na sincronização")
	_ = sourcesAddCmd.MarkFlagRequired("project")
	_ = sourcesAddCmd.MarkFlagRequired("spreadsheet-id")

	sourcesListCmd.Flags().StringSliceVar(&sourceProjectIDs, "project", nil, "Filtra por projeto (pode repetir)")
	sourcesListCmd.Flags().StringVarP(&sourcesOutput, "output", "o", "table", "Formato de saída (table, json ou yaml)")

	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesActivateCmd)
	sourcesCmd.AddCommand(sourcesDeactivateCmd)
}

func withSourceRepo(cmd *cobra.Command, fn func(ctx context.Context, repo repository.SheetSourceRepository) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	repo, closeFn, err := openSourceRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, repo)
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	source := &domain.SheetSource{
		ProjectID:     strings.TrimSpace(sourceProjectID),
		Name:          strings.TrimSpace(sourceName),
		SpreadsheetID: strings.TrimSpace(sourceSpreadsheetID),
		Entity:        strings.TrimSpace(sourceEntity),
		Active:        !sourceInactive,
	}
	if source.ProjectID == "" || source.SpreadsheetID == "" {
		return errors.New("--project and --spreadsheet-id must not be blank")
	}
	if source.Name == "" {
		source.Name = source.SpreadsheetID
	}

	return withSourceRepo(cmd, func(ctx context.Context, repo repository.SheetSourceRepository) error {
		if err := repo.Create(ctx, source); err != nil {
			if errors.Is(err, repository.ErrSourceAlreadyExists) {
				return fmt.Errorf("spreadsheet %s is already linked to project %s", source.SpreadsheetID, source.ProjectID)
			}
			return fmt.Errorf("create source: %w", err)
		}

		log.L.WithFields(log.Fields{
			"source_id":      source.ID,
			"spreadsheet_id": source.SpreadsheetID,
		}).Info("metricsctl: source created")

		fmt.Fprintln(cmd.OutOrStdout(), source.ID)
		return nil
	})
}

func runSourcesList(cmd *cobra.Command, args []string) error {
	return withSourceRepo(cmd, func(ctx context.Context, repo repository.SheetSourceRepository) error {
		sources, err := repo.List(ctx, sourceProjectIDs)
		if err != nil {
			return fmt.Errorf("list sources: %w", err)
		}

		switch sourcesOutput {
		case outputJSON, outputYAML:
			return writeReport(cmd.OutOrStdout(), sourcesOutput, sources)
		case "table":
		default:
			return fmt.Errorf("unsupported output %q (use table, json or yaml)", sourcesOutput)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROJECT\tNAME\tSPREADSHEET\tACTIVE")
		for _, s := range sources {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", s.ID, s.ProjectID, s.Name, s.SpreadsheetID, s.Active)
		}
		return w.Flush()
	})
}

func setSourceActive(cmd *cobra.Command, id string, active bool) error {
	return withSourceRepo(cmd, func(ctx context.Context, repo repository.SheetSourceRepository) error {
		if err := repo.SetActive(ctx, id, active); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("source %s not found", id)
			}
			return fmt.Errorf("update source: %w", err)
		}

		log.L.WithFields(log.Fields{
			"source_id": id,
			"active":    active,
		}).Info("metricsctl: source updated")
		return nil
	})
}
