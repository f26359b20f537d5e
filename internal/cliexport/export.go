// Package cliexport is the shared plumbing behind the three
// cmd/forexexport utilities: flag parsing, client construction, and
// JSON-file writing. Each utility differs only in which forex.Client
// method it calls (spec.md section 6: "thin command-line utilities...
// out of scope except at their interface" — the algorithms all live in
// the forex package; this package is strictly the --base/--symbols/
// --output/--help wrapper around it).
package cliexport

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/greven/forex"
)

// Fetch retrieves the rate set(s) this utility exports, given the
// parsed flags.
type Fetch func(ctx context.Context, client *forex.Client, opts []forex.RateOption) (any, error)

// Run implements a full CLI utility: parse flags, build a Client,
// fetch, and write the result as JSON to <output>/<name>.json. It
// returns the process exit code (spec.md section 6: "Exit 0 on success,
// non-zero on any fatal error").
func Run(name string, args []string, fetch Fetch) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	base := fs.String("base", "EUR", "rebase target currency (ISO alpha code)")
	symbols := fs.String("symbols", "", "comma-separated list of currency codes to include")
	output := fs.String("output", ".", "directory to write the JSON export into")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n", name)
		fmt.Fprintf(fs.Output(), "  --base string      rebase target currency (default EUR)\n")
		fmt.Fprintf(fs.Output(), "  --symbols string   comma-separated currency codes to include\n")
		fmt.Fprintf(fs.Output(), "  --output string    directory to write the JSON export into (default .)\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	var opts []forex.RateOption
	opts = append(opts, forex.WithBase(*base))
	if *symbols != "" {
		opts = append(opts, forex.WithSymbols(strings.Split(*symbols, ",")...))
	}

	client, err := forex.New(forex.WithAutoStart(false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: failed to start: %v\n", name, err)
		return 1
	}
	defer client.Close()

	result, err := fetch(context.Background(), client, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return 1
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "%s: failed to create output directory: %v\n", name, err)
		return 1
	}

	path := filepath.Join(*output, name+".json")
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: failed to create %s: %v\n", name, path, err)
		return 1
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "%s: failed to write %s: %v\n", name, path, err)
		return 1
	}

	fmt.Printf("%s: wrote %s\n", name, path)
	return 0
}
