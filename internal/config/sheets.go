package config

import (
	"github.com/Veraticus/radstage/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration. Values come from v
// (config file or RADSTAGE_SHEETS_* variables) first, then from the
// GOOGLE_SHEETS_* variables, then from defaults.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = v.GetString("sheets.service_account_path")
	config.ClientID = v.GetString("sheets.client_id")
	config.ClientSecret = v.GetString("sheets.client_secret")
	config.RefreshToken = v.GetString("sheets.refresh_token")
	config.TokenFile = v.GetString("sheets.token_file")
	config.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	config.SpreadsheetName = v.GetString("sheets.spreadsheet_name")
	if title := v.GetString("sheets.sheet_title"); title != "" {
		config.SheetTitle = title
	}

	config.LoadFromEnv()
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	config.TokenFile = ExpandPath(config.TokenFile)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
