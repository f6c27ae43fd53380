/*
 * catalog.go, part of dftpif.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package catalog keeps converted records in a bbolt database, so they can be
// listed and shown later without converting the files again.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	pif "github.com/rmera/dftpif"
)

var (
	recordsBucket = []byte("records")
	entriesBucket = []byte("entries")
)

// ErrNotFound is returned by Get for a key that is not in the catalog.
var ErrNotFound = errors.New("record not found")

// Entry describes a stored record.
type Entry struct {
	Key     string    `json:"key"`
	Formula string    `json:"formula"`
	Source  string    `json:"source"`
	Stored  time.Time `json:"stored"`
}

// Catalog is a file with records. It is safe for concurrent use.
type Catalog struct {
	db *bolt.DB
}

// Open opens, creating it if needed, the catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{recordsBucket, entriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores sys, converted from source, under a new key, which is returned.
func (c *Catalog) Put(sys *pif.ChemicalSystem, source string) (string, error) {
	data, err := json.Marshal(sys)
	if err != nil {
		return "", fmt.Errorf("Put: %w", err)
	}
	e := Entry{Key: uuid.NewString(), Formula: sys.Formula, Source: source, Stored: time.Now().UTC()}
	meta, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("Put: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(recordsBucket).Put([]byte(e.Key), data); err != nil {
			return err
		}
		return tx.Bucket(entriesBucket).Put([]byte(e.Key), meta)
	})
	if err != nil {
		return "", fmt.Errorf("Put: %w", err)
	}
	return e.Key, nil
}

// Raw returns the JSON of the record stored under key.
func (c *Catalog) Raw(key string) ([]byte, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(recordsBucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Raw: %s: %w", key, err)
	}
	return data, nil
}

// Get returns the record stored under key.
func (c *Catalog) Get(key string) (*pif.ChemicalSystem, error) {
	data, err := c.Raw(key)
	if err != nil {
		return nil, err
	}
	sys := new(pif.ChemicalSystem)
	if err := json.Unmarshal(data, sys); err != nil {
		return nil, fmt.Errorf("Get: %s: %w", key, err)
	}
	return sys, nil
}

// List returns the entries in the catalog, oldest first.
func (c *Catalog) List() ([]Entry, error) {
	var ret []Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("entry %s: %w", k, err)
			}
			ret = append(ret, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	sortEntries(ret)
	return ret, nil
}

func sortEntries(e []Entry) {
	sort.SliceStable(e, func(i, j int) bool { return e[i].Stored.Before(e[j].Stored) })
}

// Delete removes the record stored under key.
func (c *Catalog) Delete(key string) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(recordsBucket).Get([]byte(key)) == nil {
			return ErrNotFound
		}
		if err := tx.Bucket(recordsBucket).Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Bucket(entriesBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("Delete: %s: %w", key, err)
	}
	return nil
}
