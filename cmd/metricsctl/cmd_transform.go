package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-metrics-api/internal/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/usecases/aggregating"
	"github.com/vfg2006/campaign-metrics-api/pkg/utils"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	outputJSON = "json"
	outputYAML = "yaml"

	statusOK     = "ok"
	statusNoData = "no_data"
)

var (
	transformFile         string
	transformEntity       string
	transformCategory     string
	transformStart        string
	transformEnd          string
	transformAppointments bool
	transformOutput       string
	transformUseConfig    bool
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Calcula as métricas de um arquivo JSON de abas",
	Long: `Lê um arquivo no formato [{"tabName": "...", "data": [[...]]}] e executa a
mesma agregação usada pela API, sem acessar o Google Sheets. Use "-" para ler da entrada padrão.`,
	Args: cobra.NoArgs,
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringVarP(&transformFile, "file", "f", "-", "Arquivo JSON com as abas")
	transformCmd.Flags().StringVar(&transformEntity, "entity", "", "Entidade usada no filtro")
	transformCmd.Flags().StringVar(&transformCategory, "category", domain.CategoryAll, "Categoria (ALL desliga o filtro)")
	transformCmd.Flags().StringVar(&transformStart, "start", "", "Data inicial (YYYY-MM-DD)")
	transformCmd.Flags().StringVar(&transformEnd, "end", "", "Data final (YYYY-MM-DD)")
	transformCmd.Flags().BoolVar(&transformAppointments, "appointments", false, "Inclui a agregação de agendamentos")
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", outputJSON, "Formato de saída (json ou yaml)")
	transformCmd.Flags().BoolVar(&transformUseConfig, "use-config", false, "Usa as premissas de conversão do ambiente")
}

// transformReport é a saída do comando transform
type transformReport struct {
	Status       string                  `json:"status" yaml:"status"`
	Entity       string                  `json:"entity" yaml:"entity"`
	Category     string                  `json:"category" yaml:"category"`
	Start        string                  `json:"start,omitempty" yaml:"start,omitempty"`
	End          string                  `json:"end,omitempty" yaml:"end,omitempty"`
	Tabs         int                     `json:"tabs" yaml:"tabs"`
	Campaign     *domain.CampaignMetrics `json:"campaign,omitempty" yaml:"campaign,omitempty"`
	Appointments *domain.FullDataMetrics `json:"appointments,omitempty" yaml:"appointments,omitempty"`
}

func runTransform(cmd *cobra.Command, args []string) error {
	if transformOutput != outputJSON && transformOutput != outputYAML {
		return fmt.Errorf("unsupported output %q (use json or yaml)", transformOutput)
	}

	tabs, err := readTabs(cmd.InOrStdin(), transformFile)
	if err != nil {
		return err
	}

	filters, err := transformFilters()
	if err != nil {
		return err
	}

	opts := aggregating.DefaultOptions()
	if transformUseConfig {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		opts.Assumptions = cfg.Campaign.Assumptions()
		opts.DisableMagnitudeFallback = cfg.Campaign.DisableMagnitudeFallback
	}

	report := transformReport{
		Status:   statusOK,
		Entity:   filters.Entity,
		Category: filters.Category,
		Start:    transformStart,
		End:      transformEnd,
		Tabs:     len(tabs),
		Campaign: aggregating.TransformMultiSheetCampaignData(tabs, filters, opts),
	}
	if transformAppointments {
		report.Appointments = aggregating.AggregateAppointments(tabs, filters, opts.Assumptions)
	}
	if report.Campaign == nil && report.Appointments == nil {
		report.Status = statusNoData
	}

	return writeReport(cmd.OutOrStdout(), transformOutput, report)
}

func readTabs(stdin io.Reader, file string) ([]domain.Tab, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read tabs: %w", err)
	}

	var raw []domain.RawTab
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode tabs: %w", err)
	}

	return domain.TabsFromRaw(raw), nil
}

func transformFilters() (domain.CampaignFilters, error) {
	from, err := utils.ParseDate(transformStart)
	if err != nil {
		return domain.CampaignFilters{}, fmt.Errorf("invalid --start: %w", err)
	}
	to, err := utils.ParseDate(transformEnd)
	if err != nil {
		return domain.CampaignFilters{}, fmt.Errorf("invalid --end: %w", err)
	}
	if from != nil && to != nil && from.After(*to) {
		return domain.CampaignFilters{}, fmt.Errorf("--start %s is after --end %s", transformStart, transformEnd)
	}

	return domain.CampaignFilters{
		Entity:    strings.TrimSpace(transformEntity),
		Category:  transformCategory,
		DateRange: domain.DateRange{From: from, To: to},
	}, nil
}

func writeReport(w io.Writer, format string, report any) error {
	if format == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
