package sheetsclient

//go:generate mockgen -source=client.go -destination=../mocks/client_mock.go -package=mocks

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	sheetsdomain "github.com/vfg2006/campaign-metrics-api/infrastructure/integrator/sheets/domain"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	sheetPropertiesFields = "sheets.properties(sheetId,title,index,hidden,sheetType)"
	formattedValue        = "FORMATTED_VALUE"
	rowsDimension         = "ROWS"
)

type Client interface {
	ListSheets(ctx context.Context, spreadsheetID string) ([]sheetsdomain.SheetProperties, error)
	GetValues(ctx context.Context, spreadsheetID string, titles []string) ([]sheetsdomain.TabValues, error)
}

type GoogleClient struct {
	svc *gsheet.Service
}

var _ Client = (*GoogleClient)(nil)

// NewClient cria o cliente da API do Google Sheets a partir das credenciais da service account.
// Com Endpoint configurado a autenticação é desligada (emulador local ou testes).
func NewClient(ctx context.Context, cfg config.Sheets) (*GoogleClient, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "sheets: create service")
	}

	return &GoogleClient{svc: svc}, nil
}

func clientOptions(cfg config.Sheets) ([]option.ClientOption, error) {
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		log.L.WithField("endpoint", endpoint).Warn("sheets: using custom endpoint without authentication")
		return []option.ClientOption{
			option.WithEndpoint(endpoint),
			option.WithoutAuthentication(),
		}, nil
	}

	credentialsJSON := []byte(strings.TrimSpace(cfg.CredentialsJSON))
	if len(credentialsJSON) == 0 && cfg.CredentialsFile != "" {
		content, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, errors.Wrap(err, "sheets: read service account file")
		}
		credentialsJSON = content
	}

	if len(credentialsJSON) == 0 {
		return nil, errors.New("sheets: missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	return []option.ClientOption{
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheet.SpreadsheetsReadonlyScope),
	}, nil
}

// ListSheets lista as abas da planilha na ordem em que aparecem
func (c *GoogleClient) ListSheets(ctx context.Context, spreadsheetID string) ([]sheetsdomain.SheetProperties, error) {
	resp, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields(sheetPropertiesFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "sheets: get spreadsheet %s", spreadsheetID)
	}

	sheets := make([]sheetsdomain.SheetProperties, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet == nil || sheet.Properties == nil {
			continue
		}
		sheets = append(sheets, sheetsdomain.SheetProperties{
			ID:     sheet.Properties.SheetId,
			Title:  sheet.Properties.Title,
			Index:  sheet.Properties.Index,
			Hidden: sheet.Properties.Hidden,
			Type:   sheet.Properties.SheetType,
		})
	}

	return sheets, nil
}

// GetValues lê as abas informadas em uma única chamada de batchGet, preservando a ordem
func (c *GoogleClient) GetValues(ctx context.Context, spreadsheetID string, titles []string) ([]sheetsdomain.TabValues, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	ranges := make([]string, len(titles))
	for i, title := range titles {
		ranges[i] = QuoteSheetName(title)
	}

	resp, err := c.svc.Spreadsheets.Values.BatchGet(spreadsheetID).
		Ranges(ranges...).
		ValueRenderOption(formattedValue).
		MajorDimension(rowsDimension).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "sheets: batch get %d ranges from %s", len(ranges), spreadsheetID)
	}

	if len(resp.ValueRanges) != len(titles) {
		return nil, fmt.Errorf("sheets: expected %d value ranges, got %d", len(titles), len(resp.ValueRanges))
	}

	tabs := make([]sheetsdomain.TabValues, len(titles))
	for i, valueRange := range resp.ValueRanges {
		tabs[i] = sheetsdomain.TabValues{Title: titles[i]}
		if valueRange == nil {
			continue
		}
		tabs[i].Values = make([][]string, len(valueRange.Values))
		for j, row := range valueRange.Values {
			tabs[i].Values[j] = toStrings(row)
		}
	}

	return tabs, nil
}

// QuoteSheetName monta a notação A1 que referencia a aba inteira
func QuoteSheetName(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}
