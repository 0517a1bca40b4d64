/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package catalog keeps a small local database of the RDR files this
// tool has produced, so earlier outputs can be found for aggregation.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ssec-jpss/go-rdr/pkg/log"
)

const (
	filesBucket = "files"

	catalogDir  = ".go-rdr"
	catalogFile = "catalog.db"
)

// DefaultPath returns the per-user catalog database location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, catalogDir, catalogFile)
}

// Entry describes one produced RDR file.
type Entry struct {
	Path     string   `json:"path"`
	Mission  string   `json:"mission"`
	Products []string `json:"products"`
	BeginIET int64    `json:"begin_iet"`
	EndIET   int64    `json:"end_iet"`
	Granules int      `json:"granules"`
	Created  string   `json:"created"`
}

type Catalog struct {
	DB *bbolt.DB
}

func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &Catalog{DB: db}, nil
}

func (c *Catalog) Close() error {
	return c.DB.Close()
}

// Put records an entry, keyed by output path.
func (c *Catalog) Put(entry *Entry) error {
	return c.DB.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(filesBucket))
		if err != nil {
			return err
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		log.Debug("catalog put: %s", entry.Path)
		return bucket.Put([]byte(entry.Path), data)
	})
}

// List returns every recorded entry in key order.
func (c *Catalog) List() ([]*Entry, error) {
	var entries []*Entry
	err := c.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(filesBucket))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			entry := &Entry{}
			if err := json.Unmarshal(v, entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
