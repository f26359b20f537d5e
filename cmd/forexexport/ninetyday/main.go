// Command forexexport-ninetyday exports the rolling 90-day ECB rate
// sets to a JSON file.
package main

import (
	"context"
	"os"

	"github.com/greven/forex"
	"github.com/greven/forex/internal/cliexport"
)

func main() {
	os.Exit(cliexport.Run("ninetyday", os.Args[1:], func(ctx context.Context, client *forex.Client, opts []forex.RateOption) (any, error) {
		return client.LastNinetyDaysRates(ctx, opts...)
	}))
}
