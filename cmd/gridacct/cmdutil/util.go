// Package cmdutil provides shared utilities for gridacct admin commands.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/marmos91/gridaccounts/internal/cli/output"
	"github.com/marmos91/gridaccounts/internal/cli/prompt"
	"github.com/marmos91/gridaccounts/pkg/apiclient"
)

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigFile string
	ServerURL  string
	Token      string
	Output     string
	NoColor    bool
}

// DefaultServerURL is used when neither --server nor GRIDACCT_SERVER is set.
const DefaultServerURL = "http://localhost:8080"

// GetClient returns an API client for the admin routes. The token comes
// from --token or GRIDACCT_TOKEN; mint one with 'gridacct token'.
func GetClient() (*apiclient.Client, error) {
	url := firstNonEmpty(Flags.ServerURL, os.Getenv("GRIDACCT_SERVER"), DefaultServerURL)
	token := firstNonEmpty(Flags.Token, os.Getenv("GRIDACCT_TOKEN"))
	if token == "" {
		return nil, errors.New("no admin token: pass --token or set GRIDACCT_TOKEN (see 'gridacct token')")
	}
	return apiclient.New(url).WithToken(token), nil
}

// GetPrinter returns a printer for the --output format.
func GetPrinter(w io.Writer) (*output.Printer, error) {
	format, err := output.ParseFormat(Flags.Output)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, format, !Flags.NoColor), nil
}

// PrintOutput prints data in the configured format. In table format,
// emptyMsg is shown instead of an empty table.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, table output.TableRenderer) error {
	printer, err := GetPrinter(w)
	if err != nil {
		return err
	}
	if printer.Format() != output.FormatTable {
		return printer.Print(data)
	}
	if isEmpty {
		_, _ = fmt.Fprintln(w, emptyMsg)
		return nil
	}
	return printer.Print(table)
}

// RunDeleteWithConfirmation asks before running deleteFn unless force is set.
func RunDeleteWithConfirmation(w io.Writer, resource, id string, force bool, deleteFn func() error) error {
	ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %s '%s'?", resource, id), force)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			_, _ = fmt.Fprintln(w, "Aborted.")
			return nil
		}
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(w, "Aborted.")
		return nil
	}

	if err := deleteFn(); err != nil {
		return err
	}

	if printer, err := GetPrinter(w); err == nil {
		printer.Success(fmt.Sprintf("%s '%s' deleted", resource, id))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
