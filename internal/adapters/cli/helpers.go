package cli

import (
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/andrescamacho/npc-economy/internal/infrastructure/config"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/database"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/logging"
)

// loadConfig loads configuration honouring the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openDatabase connects to the configured store and migrates it
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Database.Type, err)
	}
	return db, nil
}

// newLogger builds the configured logger
func newLogger(cfg *config.Config) (*logging.SlogLogger, io.Closer, error) {
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, closer, nil
}

// formatAmount formats a signed credit amount
func formatAmount(amount int) string {
	if amount >= 0 {
		return fmt.Sprintf("+%s", formatCredits(amount))
	}
	return formatCredits(amount)
}

// formatCredits formats credits with thousands separator
func formatCredits(credits int) string {
	if credits < 0 {
		return "-" + addThousandsSeparator(-credits)
	}
	return addThousandsSeparator(credits)
}

// addThousandsSeparator adds commas to a number (e.g., 1234567 -> "1,234,567")
func addThousandsSeparator(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result []byte
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// formatSimTime renders simulated seconds as h:mm:ss
func formatSimTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
