// Command forexexport-historic exports the full ECB historic rate
// feed (since 1999-01-04) to a JSON file.
package main

import (
	"context"
	"os"
	"time"

	"github.com/greven/forex"
	"github.com/greven/forex/internal/cliexport"
)

// ecbHistoryStart is the earliest date the ECB historic feed covers
// (spec.md section 1).
var ecbHistoryStart = time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC)

func main() {
	os.Exit(cliexport.Run("historic", os.Args[1:], func(ctx context.Context, client *forex.Client, opts []forex.RateOption) (any, error) {
		return client.HistoricRatesBetween(ctx, ecbHistoryStart, time.Now().UTC(), opts...)
	}))
}
