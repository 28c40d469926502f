package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mdouchement/itemstore/internal/client"
	"github.com/mdouchement/itemstore/internal/server/service"
	"github.com/mdouchement/itemstore/pkg/itemsclient"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	endpoint string
	asJSON   bool
)

func main() {
	c := &cobra.Command{
		Use:     "itemsctl",
		Short:   "Command line client for the itemstore API",
		Version: fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:    cobra.NoArgs,
	}
	c.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "Server endpoint (default $"+client.EnvEndpoint+" or "+client.DefaultEndpoint+")")
	c.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	c.AddCommand(helloCmd)
	c.AddCommand(healthCmd)
	c.AddCommand(initCmd)
	c.AddCommand(resetCmd)
	c.AddCommand(seedCmd)
	c.AddCommand(statsCmd)
	c.AddCommand(schemaCmd)
	c.AddCommand(listCmd)
	c.AddCommand(getCmd)
	c.AddCommand(createCmd)
	c.AddCommand(replaceCmd)
	c.AddCommand(patchCmd)
	c.AddCommand(deleteCmd)
	c.AddCommand(searchCmd)
	c.AddCommand(backupCmd)
	c.AddCommand(restoreCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func items(items []itemsclient.Item) error {
	if asJSON {
		return client.PrintJSON(os.Stdout, items)
	}
	return client.PrintItems(os.Stdout, items)
}

func item(item *itemsclient.Item) error {
	if asJSON {
		return client.PrintJSON(os.Stdout, item)
	}
	return client.PrintItems(os.Stdout, []itemsclient.Item{*item})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, errors.Wrap(err, "invalid item id")
}

func parseValue(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	return v, errors.Wrap(err, "invalid value")
}

///// Server
////
//

var (
	helloCmd = &cobra.Command{
		Use:   "hello",
		Short: "Print the server greeting and version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			hello, err := c.Hello()
			if err != nil {
				return err
			}
			v, err := c.Version()
			if err != nil {
				return err
			}

			fmt.Printf("%s (server %s)\n", hello, v)
			return nil
		},
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check the server database",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			health, err := c.Health()
			if err != nil {
				return err
			}
			if err = client.PrintJSON(os.Stdout, health); err != nil {
				return err
			}
			if health.Status != "ok" {
				return errors.New("unhealthy server")
			}
			return nil
		},
	}
)

///// Table management
////
//

var (
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the items table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}
			return c.Init()
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the items table",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}
			return c.Reset()
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed [FILENAME]",
		Short: "Insert the items of a YAML file or the demo items",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")

			var params []itemsclient.ItemParams
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return errors.Wrap(err, "could not read seed file")
				}

				seed, err := service.ParseSeedFile(data)
				if err != nil {
					return err
				}
				replace = replace || seed.Replace

				for _, p := range seed.Items {
					params = append(params, itemsclient.ItemParams{
						Name:  p.Name,
						Value: *p.Value,
						Note:  p.Note,
					})
				}
			}

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			n, err := c.Seed(params, replace)
			if err != nil {
				return err
			}
			fmt.Println("Affected items:", n)
			return nil
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print the aggregates of the value column",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			stats, err := c.Stats()
			if err != nil {
				return err
			}
			return client.PrintJSON(os.Stdout, stats)
		},
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the columns of the items table",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			schema, err := c.Schema()
			if err != nil {
				return err
			}
			if asJSON {
				return client.PrintJSON(os.Stdout, schema)
			}
			return client.PrintSchema(os.Stdout, schema)
		},
	}
)

///// Items
////
//

var (
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List all the items",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			list, err := c.ListItems()
			if err != nil {
				return err
			}
			return items(list)
		},
	}

	getCmd = &cobra.Command{
		Use:   "get ID",
		Short: "Show an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			m, err := c.GetItem(id)
			if err != nil {
				return err
			}
			return item(m)
		},
	}

	createCmd = &cobra.Command{
		Use:   "create NAME VALUE",
		Short: "Create an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := itemParams(cmd, args[0], args[1])
			if err != nil {
				return err
			}

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			m, err := c.CreateItem(params)
			if err != nil {
				return err
			}
			return item(m)
		},
	}

	replaceCmd = &cobra.Command{
		Use:   "replace ID NAME VALUE",
		Short: "Replace all the fields of an item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			params, err := itemParams(cmd, args[1], args[2])
			if err != nil {
				return err
			}

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			m, err := c.ReplaceItem(id, params)
			if err != nil {
				return err
			}
			return item(m)
		},
	}

	patchCmd = &cobra.Command{
		Use:   "patch ID",
		Short: "Update some fields of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch itemsclient.ItemPatch
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				patch.Name = &name
			}
			if cmd.Flags().Changed("value") {
				s, _ := cmd.Flags().GetString("value")
				v, err := parseValue(s)
				if err != nil {
					return err
				}
				patch.Value = &v
			}
			if cmd.Flags().Changed("note") {
				note, _ := cmd.Flags().GetString("note")
				patch.Note = &note
			}
			patch.ClearNote, _ = cmd.Flags().GetBool("clear-note")

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			m, err := c.PatchItem(id, patch)
			if err != nil {
				return err
			}
			return item(m)
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}
			return c.DeleteItem(id)
		},
	}

	searchCmd = &cobra.Command{
		Use:   "search",
		Short: "Search items by name and value range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var query itemsclient.SearchQuery
			query.Name, _ = cmd.Flags().GetString("name")
			query.Limit, _ = cmd.Flags().GetInt("limit")
			for flag, bound := range map[string]**decimal.Decimal{"min": &query.MinValue, "max": &query.MaxValue} {
				if !cmd.Flags().Changed(flag) {
					continue
				}
				s, _ := cmd.Flags().GetString(flag)
				v, err := parseValue(s)
				if err != nil {
					return errors.Wrap(err, flag)
				}
				*bound = &v
			}

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			list, err := c.SearchItems(query)
			if err != nil {
				return err
			}
			return items(list)
		},
	}
)

func itemParams(cmd *cobra.Command, name, value string) (itemsclient.ItemParams, error) {
	v, err := parseValue(value)
	if err != nil {
		return itemsclient.ItemParams{}, err
	}

	params := itemsclient.ItemParams{Name: name, Value: v}
	if cmd.Flags().Changed("note") {
		note, _ := cmd.Flags().GetString("note")
		params.Note = &note
	}
	return params, nil
}

///// Backup
////
//

var (
	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Backup all the items in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			filename, err := client.Backup(c, ".")
			if err != nil {
				return err
			}
			fmt.Println("Items stored in", filename)
			return nil
		},
	}

	restoreCmd = &cobra.Command{
		Use:   "restore FILENAME",
		Short: "Restore the items of a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")

			c, err := client.New(endpoint)
			if err != nil {
				return err
			}

			n, err := client.Restore(c, args[0], replace)
			if err != nil {
				return err
			}
			fmt.Println("Affected items:", n)
			return nil
		},
	}
)

func init() {
	seedCmd.Flags().BoolP("replace", "r", false, "Update the existing items with the same name")
	restoreCmd.Flags().BoolP("replace", "r", false, "Update the existing items with the same name")

	createCmd.Flags().StringP("note", "n", "", "Item note")
	replaceCmd.Flags().StringP("note", "n", "", "Item note")

	patchCmd.Flags().String("name", "", "New name")
	patchCmd.Flags().String("value", "", "New value")
	patchCmd.Flags().StringP("note", "n", "", "New note")
	patchCmd.Flags().Bool("clear-note", false, "Remove the note")

	searchCmd.Flags().String("name", "", "Case-insensitive substring of the name")
	searchCmd.Flags().String("min", "", "Inclusive minimum value")
	searchCmd.Flags().String("max", "", "Inclusive maximum value")
	searchCmd.Flags().Int("limit", 0, "Maximum number of items (server default when 0)")
}
