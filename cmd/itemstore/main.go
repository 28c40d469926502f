package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"runtime"
	"strings"

	"github.com/mdouchement/itemstore/internal/config"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/logger"
	"github.com/mdouchement/itemstore/internal/server"
	"github.com/mdouchement/itemstore/internal/server/service"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg     string
	seed    string
	replace bool
)

func main() {
	c := &coral.Command{
		Use:     "itemstore",
		Short:   "Items demo server: hello route, HTML page and items CRUD API",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}

	for _, cmd := range []*coral.Command{serverCmd, initCmd, resetCmd, seedCmd, schemaCmd} {
		cmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
		c.AddCommand(cmd)
	}
	seedCmd.Flags().StringVarP(&seed, "file", "f", "", "YAML seed file (demo items when omitted)")
	seedCmd.Flags().BoolVarP(&replace, "replace", "r", false, "Update the existing items with the same name")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func setup() (*config.Config, *logrus.Logger, database.Client, error) {
	konf, err := config.Load(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	level := konf.Log.Level
	if konf.Debug {
		level = logrus.DebugLevel.String()
	}
	l, err := logger.New(level, konf.Log.File)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(konf.DatabaseURL,
		database.WithLogger(l),
		database.WithStormCodec(konf.Storm.Codec),
	)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "could not open database")
	}

	return konf, l, db, nil
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Create the items table if it does not exist",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			_, l, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			if err = db.Init(); err != nil {
				return err
			}
			l.Info("Table ready")
			return nil
		},
	}

	//
	resetCmd = &coral.Command{
		Use:   "reset",
		Short: "Drop and recreate the items table",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			_, l, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			if err = db.Reset(); err != nil {
				return err
			}
			l.Info("Table reset")
			return nil
		},
	}

	//
	seedCmd = &coral.Command{
		Use:   "seed",
		Short: "Insert the items of a YAML file or the demo items",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			var params service.SeedParams
			if seed != "" {
				data, err := os.ReadFile(seed)
				if err != nil {
					return errors.Wrap(err, "could not read seed file")
				}

				params, err = service.ParseSeedFile(data)
				if err != nil {
					return err
				}
			}
			params.Replace = params.Replace || replace

			items, err := params.Models()
			if err != nil {
				return err
			}

			_, l, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.Seed(items, params.Replace)
			if err != nil {
				return err
			}
			l.WithField("affected", n).Info("Items seeded")
			return nil
		},
	}

	//
	schemaCmd = &coral.Command{
		Use:   "schema",
		Short: "Print the columns of the items table",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			_, _, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			schema, err := db.Schema()
			if err != nil {
				return err
			}

			fmt.Println("Table:", schema.Table)
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
				fmt.Printf("  %-12s %-16s %s\n", c.Name, c.Type, strings.Join(flags, ", "))
			}
			return nil
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, l, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()

			if konf.AutoInit {
				if err = db.Init(); err != nil {
					return errors.Wrap(err, "could not init database")
				}
			}

			engine := server.EchoEngine(server.Controller{
				Version:  version,
				Database: db,
				Logger:   l,
			})
			engine.Debug = konf.Debug
			engine.HideBanner = true
			server.PrintRoutes(engine)

			address := konf.Address
			message := "could not run server"
			l.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					l.Infof("Removing existing %s", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
