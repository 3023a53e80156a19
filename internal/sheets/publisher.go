package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/model"
	"github.com/Veraticus/radstage/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Publication describes where a submission was written.
type Publication struct {
	SpreadsheetID string
	URL           string
	Rows          int
}

// Publisher writes submission tables to a spreadsheet tab.
type Publisher struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewPublisher creates a publisher authenticated from config.
func NewPublisher(ctx context.Context, config Config, logger *slog.Logger) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewPublisherWithService(service, config, logger), nil
}

// NewPublisherWithService creates a publisher around an existing API client.
func NewPublisherWithService(service *sheets.Service, config Config, logger *slog.Logger) *Publisher {
	return &Publisher{
		service: service,
		config:  config,
		logger:  common.LoggerOrDefault(logger),
	}
}

// Publish replaces the configured tab's contents with the submission table
// for results. Without a configured spreadsheet ID a new spreadsheet named
// after the experiment is created.
func (p *Publisher) Publish(ctx context.Context, experiment string, results []model.Result) (*Publication, error) {
	p.logger.Info("Publishing submission", "experiment", experiment, "results", len(results))

	retryOpts := common.RetryOptions{
		MaxAttempts:  max(p.config.RetryAttempts, 1),
		InitialDelay: p.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var pub *Publication
	err := common.WithRetry(ctx, func() error {
		var err error
		pub, err = p.getOrCreateSpreadsheet(ctx, experiment)
		return classifyAPIError(err)
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if err := common.WithRetry(ctx, func() error {
		return classifyAPIError(p.clearSheet(ctx, pub.SpreadsheetID))
	}, retryOpts); err != nil {
		return nil, fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := PrepareValues(results)
	if err := common.WithRetry(ctx, func() error {
		return classifyAPIError(p.writeData(ctx, pub.SpreadsheetID, values))
	}, retryOpts); err != nil {
		return nil, fmt.Errorf("failed to write data: %w", err)
	}
	pub.Rows = len(values)

	if p.config.EnableFormatting {
		err := common.WithRetry(ctx, func() error {
			return classifyAPIError(p.applyFormatting(ctx, pub.SpreadsheetID))
		}, retryOpts)
		if err != nil {
			p.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	p.logger.Info("Submission published",
		"spreadsheet_id", pub.SpreadsheetID,
		"rows_written", pub.Rows)

	return pub, nil
}

// PrepareValues renders the submission header and one row per result.
func PrepareValues(results []model.Result) [][]any {
	values := make([][]any, 0, len(results)+1)

	header := make([]any, len(repository.SubmissionHeader))
	for i, h := range repository.SubmissionHeader {
		header[i] = h
	}
	values = append(values, header)

	for _, result := range results {
		row := repository.SubmissionRow(result)
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		values = append(values, cells)
	}
	return values
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath) // #nosec G304 - operator-supplied credentials path
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		if token.RefreshToken == "" {
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("unable to load token file: %w", err)
			}
			token = saved
		}

		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet resolves the target spreadsheet and makes sure the
// configured tab exists.
func (p *Publisher) getOrCreateSpreadsheet(ctx context.Context, experiment string) (*Publication, error) {
	if p.config.SpreadsheetID == "" {
		name := p.config.SpreadsheetName
		if name == "" {
			name = experiment
		}

		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{Title: name},
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{Title: p.config.SheetTitle}},
			},
		}

		created, err := p.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
		}

		p.logger.Info("Created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)

		// Reuse it for the formatting step and any later publish.
		p.config.SpreadsheetID = created.SpreadsheetId
		return &Publication{SpreadsheetID: created.SpreadsheetId, URL: created.SpreadsheetUrl}, nil
	}

	existing, err := p.service.Spreadsheets.Get(p.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", p.config.SpreadsheetID, err)
	}

	if _, ok := findSheet(existing, p.config.SheetTitle); !ok {
		_, err := p.service.Spreadsheets.BatchUpdate(p.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: p.config.SheetTitle},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to add sheet %q: %w", p.config.SheetTitle, err)
		}
	}

	return &Publication{SpreadsheetID: existing.SpreadsheetId, URL: existing.SpreadsheetUrl}, nil
}

// clearSheet clears all data from the tab.
func (p *Publisher) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := p.service.Spreadsheets.Values.Clear(spreadsheetID, p.a1("A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes values in batches to stay under request size limits.
func (p *Publisher) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += p.config.BatchSize {
		end := min(i+p.config.BatchSize, len(values))

		batch := values[i:end]
		_, err := p.service.Spreadsheets.Values.Update(spreadsheetID, p.a1(fmt.Sprintf("A%d", i+1)), &sheets.ValueRange{
			Values: batch,
		}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		p.logger.Debug("Wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds and freezes the header row.
func (p *Publisher) applyFormatting(ctx context.Context, spreadsheetID string) error {
	spreadsheet, err := p.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return err
	}
	sheetID, ok := findSheet(spreadsheet, p.config.SheetTitle)
	if !ok {
		return fmt.Errorf("sheet %q not found", p.config.SheetTitle)
	}

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(repository.SubmissionHeader)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	_, err = p.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// a1 qualifies a cell range with the configured tab.
func (p *Publisher) a1(cells string) string {
	return fmt.Sprintf("'%s'!%s", p.config.SheetTitle, cells)
}

func findSheet(spreadsheet *sheets.Spreadsheet, title string) (int64, bool) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, true
		}
	}
	return 0, false
}

// classifyAPIError marks client errors as permanent so WithRetry stops early.
// Rate limits and server errors stay retryable.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return &common.RetryableError{Err: err, Retryable: false}
		}
	}
	return err
}
