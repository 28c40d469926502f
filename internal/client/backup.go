package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mdouchement/itemstore/pkg/itemsclient"
	"github.com/pkg/errors"
)

// Backup fetchs all the items and stores them in dir.
// It returns the name of the created file.
func Backup(client itemsclient.Client, dir string) (string, error) {
	items, err := client.ListItems()
	if err != nil {
		return "", errors.Wrap(err, "could not get items")
	}

	filename := filepath.Join(dir, fmt.Sprintf("items_%s.json", time.Now().Format("20060102150405")))
	return filename, errors.Wrap(backup(items, filename), "items")
}

// Restore seeds the items of a backup file.
// It returns the number of affected items.
func Restore(client itemsclient.Client, filename string, replace bool) (int, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, errors.Wrap(err, "could not load file")
	}

	var items []itemsclient.Item
	if err = json.Unmarshal(data, &items); err != nil {
		return 0, errors.Wrap(err, "could not parse backuped items")
	}

	// An empty seed inserts the demo items.
	if len(items) == 0 {
		return 0, nil
	}

	params := make([]itemsclient.ItemParams, 0, len(items))
	for _, item := range items {
		params = append(params, itemsclient.ItemParams{
			Name:  item.Name,
			Value: item.Value,
			Note:  item.Note,
		})
	}

	n, err := client.Seed(params, replace)
	return n, errors.Wrap(err, "could not restore items")
}

func backup(v any, filename string) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize value to backup")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "could not create backup file")
	}
	defer f.Close()

	_, err = f.Write(payload)
	if err != nil {
		return errors.Wrap(err, "could not write backuped values")
	}

	return errors.Wrap(f.Sync(), "could not backup")
}
