package reports

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/domain/events"
)

// maxLineBytes bounds a single encoded report
const maxLineBytes = 64 * 1024

// Stream decodes newline-delimited JSON ship reports from r and delivers them
// on the returned channel, which is closed at EOF, on a read error or when ctx
// is done. Blank lines and lines starting with '#' are skipped. Lines that do
// not decode are logged and skipped; the reconciler handles everything else.
func Stream(ctx context.Context, r io.Reader, buffer int) <-chan events.Report {
	if buffer < 0 {
		buffer = 0
	}
	out := make(chan events.Report, buffer)
	logger := common.LoggerFromContext(ctx)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}

			var report events.Report
			if err := json.Unmarshal([]byte(text), &report); err != nil {
				logger.Log(common.LevelWarn, "Skipping undecodable report", map[string]interface{}{
					"line":  line,
					"error": err.Error(),
				})
				continue
			}

			select {
			case out <- report:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			logger.Log(common.LevelError, "Report stream failed", map[string]interface{}{
				"line":  line,
				"error": err.Error(),
			})
		}
	}()

	return out
}
