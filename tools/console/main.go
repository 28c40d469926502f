package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// go run ./tools/console items.db "SELECT count(*) FROM items WHERE Value > 10 AND CreatedAt > '2024-02-16 20:52:55';"
// go run ./tools/console items.db "SELECT Name, Value FROM items WHERE Name LIKE '^app' ORDER BY Value DESC LIMIT 5"
// go run ./tools/console items.db

func main() {
	var codec string
	var verbose bool

	c := &cobra.Command{
		Use:   "console DATABASE [QUERY]",
		Short: "SQL console for itemstore storm database (interactive without QUERY)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			fmt.Println("Opening", args[0])
			db, err := open(args[0], codec)
			if err != nil {
				return err
			}
			defer db.Close()

			con := &console{
				db:      db,
				w:       os.Stdout,
				verbose: verbose,
			}
			if len(args) == 2 {
				return con.Exec(args[1])
			}
			return con.REPL()
		},
	}
	c.Flags().StringVar(&codec, "codec", "json", "Storm codec of the database (json, msgpack, cbor or binc)")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Dump records with their Go types")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
