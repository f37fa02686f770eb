package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/codec"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// printJSON writes v to the command's output, compact in --json mode and
// indented otherwise.
func (a *app) printJSON(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if a.flags.jsonMode {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseRowArg decodes a row or patch given on the command line.
func parseRowArg(arg string) (types.Row, error) {
	row, err := codec.ParseRow([]byte(arg))
	if err != nil {
		return nil, fmt.Errorf("parse row: %w", err)
	}
	return row, nil
}

// withStore opens the store, runs fn and closes the store.
func (a *app) withStore(cmd *cobra.Command, fn func(store types.Store) error) (err error) {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()
	return fn(store)
}
