// Command forexexport-latest exports today's ECB rate set to a JSON
// file.
package main

import (
	"context"
	"os"

	"github.com/greven/forex"
	"github.com/greven/forex/internal/cliexport"
)

func main() {
	os.Exit(cliexport.Run("latest", os.Args[1:], func(ctx context.Context, client *forex.Client, opts []forex.RateOption) (any, error) {
		return client.LatestRates(ctx, opts...)
	}))
}
