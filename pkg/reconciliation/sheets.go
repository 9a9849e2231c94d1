package reconciliation

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// FeedSource reads a ledger feed kept outside the service, such as a shared spreadsheet.
type FeedSource interface {
	Fetch(ctx context.Context, spreadsheetId string, readRange string) (Feed, error)
}

type SheetsSource struct {
	service *sheets.Service
}

// NewSheetsSource authenticates with a service account key and reads spreadsheets the
// account was given access to.
func NewSheetsSource(ctx context.Context, credentialsJSON []byte) (*SheetsSource, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}
	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return &SheetsSource{service: service}, nil
}

func (s *SheetsSource) Fetch(ctx context.Context, spreadsheetId string, readRange string) (Feed, error) {
	response, err := s.service.Spreadsheets.Values.Get(spreadsheetId, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		log.Errorf("unable to read spreadsheet %s: %v", spreadsheetId, err)
		return Feed{}, fmt.Errorf("unable to read spreadsheet %s: %w", spreadsheetId, err)
	}
	log.Debugf("read %d rows from spreadsheet %s", len(response.Values), spreadsheetId)
	return NewFeed(response.Values), nil
}
