package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mdouchement/itemstore/pkg/itemsclient"
	"github.com/pkg/errors"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "could not serialize output")
}

// PrintItems writes the items as an aligned table.
func PrintItems(w io.Writer, items []itemsclient.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVALUE\tNOTE")
	for _, item := range items {
		var note string
		if item.Note != nil {
			note = *item.Note
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.Name, item.Value.StringFixed(2), note)
	}
	return errors.Wrap(tw.Flush(), "could not print items")
}

// PrintSchema writes the columns of the schema, one per line.
func PrintSchema(w io.Writer, schema *itemsclient.Schema) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Table: %s\n", schema.Table)
	for _, c := range schema.Columns {
		var flags []string
		if c.PrimaryKey {
			flags = append(flags, "primary key")
		}
		if c.Unique {
			flags = append(flags, "unique")
		}
		if !c.Nullable {
			flags = append(flags, "not null")
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Name, c.Type, strings.Join(flags, ", "))
	}
	return errors.Wrap(tw.Flush(), "could not print schema")
}
