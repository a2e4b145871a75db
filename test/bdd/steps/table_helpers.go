package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// getCellValueFromTable gets a cell value from a table row by column name
// It uses the first row (table.Rows[0]) as the header to find the column index
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	headerRow := table.Rows[0]

	for i, headerCell := range headerRow.Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}

	return ""
}

// getIntCell reads an integer column, treating an empty cell as zero
func getIntCell(table *godog.Table, row *messages.PickleTableRow, columnName string) (int, error) {
	value := getCellValueFromTable(table, row, columnName)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", columnName, value)
	}
	return n, nil
}
