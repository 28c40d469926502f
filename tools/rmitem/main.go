package main

import (
	"fmt"
	"log"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/pkg/stormcodec"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

func main() {
	var codec string

	c := &coral.Command{
		Use:   "rmitem DATABASE NAME...",
		Short: "Remove items by name from a storm database",
		Args:  coral.MinimumNArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			cdc, err := stormcodec.ByName(codec)
			if err != nil {
				return err
			}

			//
			//
			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0],
				storm.Codec(cdc),
				storm.BoltOptions(0600, &bolt.Options{Timeout: time.Second}),
			)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			// Fetch items
			var records []database.ItemRecord
			err = db.Select(q.In("Name", args[1:])).Find(&records)
			if err != nil {
				if err == storm.ErrNotFound {
					fmt.Println("No item for these names")
					return nil
				}
				return errors.Wrap(err, "find items by name")
			}

			// Delete items
			for _, record := range records {
				err = db.DeleteStruct(&record)
				if err != nil && err != storm.ErrNotFound {
					return errors.Wrapf(err, "delete item %d", record.ID)
				}
				fmt.Printf("Item removed: %d (%s)\n", record.ID, record.Name)
			}

			return nil
		},
	}
	c.Flags().StringVar(&codec, "codec", "json", "Storm codec of the database (json, msgpack, cbor or binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
