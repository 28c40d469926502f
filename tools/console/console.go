package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/chzyer/readline"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/mdouchement/itemstore/pkg/stormcodec"
	"github.com/mdouchement/itemstore/pkg/stormsql"
	"github.com/mdouchement/itemstore/pkg/structs"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
	bolt "go.etcd.io/bbolt"
)

type console struct {
	db      *storm.DB
	w       io.Writer
	verbose bool
}

func open(filename, codec string) (*storm.DB, error) {
	c, err := stormcodec.ByName(codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(filename,
		storm.Codec(c),
		storm.BoltOptions(0600, &bolt.Options{Timeout: time.Second}),
	)
	return db, errors.Wrap(err, "could not open database")
}

// Exec runs the given SELECT statement and prints its result.
func (c *console) Exec(sql string) error {
	sc, err := stormsql.ParseSelect(sql)
	if err != nil {
		return err
	}

	if sc.Tablename != model.TableItems {
		return errors.Errorf("unknown tablename: %s", sc.Tablename)
	}

	//
	// Prepare request
	//

	query := c.db.Select(sc.Matcher)
	if sc.Skip > 0 {
		query = query.Skip(sc.Skip)
	}
	if sc.Limit > 0 {
		query = query.Limit(sc.Limit)
	}
	if len(sc.OrderBy) > 0 {
		query = query.OrderBy(sc.OrderBy...)
		if sc.OrderByReversed {
			query = query.Reverse()
		}
	}

	// Execute

	if sc.Count {
		return c.count(query)
	}

	return c.list(sc, query)
}

func (c *console) count(query storm.Query) error {
	n, err := query.Count(&database.ItemRecord{})
	if err != nil && err != storm.ErrNotFound {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Fprintln(c.w, "Count:", n)
	return nil
}

func (c *console) list(sc *stormsql.SelectClause, query storm.Query) error {
	var records []*database.ItemRecord
	err := query.Find(&records)
	if err != nil && err != storm.ErrNotFound {
		return errors.Wrap(err, "could not perform query")
	}

	rows := make([]any, 0, len(records))
	for _, record := range records {
		if len(sc.SelectedFields) == 0 {
			rows = append(rows, record)
			continue
		}

		projection, err := structs.Project(record, sc.SelectedFields...)
		if err != nil {
			return errors.Wrap(err, "could not select fields")
		}
		rows = append(rows, projection)
	}

	return c.dump(rows)
}

func (c *console) dump(v any) error {
	if c.verbose {
		fmt.Fprintln(c.w, litter.Sdump(v))
		return nil
	}

	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize result")
	}
	fmt.Fprintln(c.w, string(d))
	return nil
}

// REPL reads statements from the terminal until exit or EOF.
func (c *console) REPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "items> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".itemstore_console_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.Wrap(err, "could not init readline")
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			if len(line) == 0 {
				return nil
			}
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return errors.Wrap(err, "could not read line")
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err = c.Exec(line); err != nil {
			fmt.Fprintln(c.w, "error:", err)
		}
	}
}
