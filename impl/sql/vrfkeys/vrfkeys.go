// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vrfkeys stores named VRF key pairs in an SQL database.
package vrfkeys

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
	"github.com/starkvrf/stark-vrf/core/crypto/vrf"

	sqlutil "github.com/starkvrf/stark-vrf/impl/sql"
)

const (
	schema = `
CREATE TABLE IF NOT EXISTS VRFKeys(
Name                  VARCHAR(64) NOT NULL,
Suite                 INTEGER NOT NULL,
SecretKey             BLOB NOT NULL,
PublicKey             BLOB NOT NULL,
PRIMARY KEY(Name)
);`

	getSQL    = `SELECT Name, Suite, SecretKey, PublicKey FROM VRFKeys WHERE Name = ?`
	setSQL    = `INSERT INTO VRFKeys (Name, Suite, SecretKey, PublicKey) VALUES (?, ?, ?, ?);`
	listSQL   = `SELECT Name FROM VRFKeys ORDER BY Name`
	deleteSQL = `DELETE FROM VRFKeys WHERE Name = ?`
)

var (
	// ErrNotFound is returned when no key is stored under a name.
	ErrNotFound = errors.New("vrfkeys: key not found")
	// ErrExists is returned when a key is already stored under a name.
	ErrExists = errors.New("vrfkeys: key already exists")
	// ErrCorrupt is returned when a stored public key does not match its secret key.
	ErrCorrupt = errors.New("vrfkeys: stored public key does not match secret key")
)

// Storage stores VRF keys, backed by an SQL database.
type Storage struct {
	db    *sql.DB
	curve *starkcurve.CurveParams
}

type vrfKey struct {
	Name      string
	Suite     int64
	SecretKey []byte
	PublicKey []byte
}

// New returns a key store for STARK curve keys backed by an SQL table.
func New(db *sql.DB) (*Storage, error) {
	s := &Storage{db: db, curve: starkcurve.Stark()}
	// Create schema.
	if _, err := s.db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create vrf key table: %v", err)
	}
	return s, db.Ping()
}

// Get returns the key stored under name and its suite string.
func (s *Storage) Get(ctx context.Context, name string) (*vrf.PrivateKey, byte, error) {
	readStmt, err := s.db.PrepareContext(ctx, getSQL)
	if err != nil {
		return nil, 0, err
	}
	defer readStmt.Close()
	r := vrfKey{}
	if err := readStmt.QueryRowContext(ctx, name).Scan(
		&r.Name,
		&r.Suite,
		&r.SecretKey,
		&r.PublicKey); err == sql.ErrNoRows {
		return nil, 0, fmt.Errorf("%w: %q", ErrNotFound, name)
	} else if err != nil {
		return nil, 0, err
	}

	sk, err := vrf.ParsePrivateKey(s.curve, r.SecretKey)
	if err != nil {
		return nil, 0, fmt.Errorf("vrfkeys: key %q: %w", name, err)
	}
	if !bytes.Equal(sk.Public().Bytes(), r.PublicKey) {
		return nil, 0, fmt.Errorf("%w: %q", ErrCorrupt, name)
	}
	return sk, byte(r.Suite), nil
}

// Set saves a key under name. Existing keys are never overwritten.
func (s *Storage) Set(ctx context.Context, name string, suite byte, sk *vrf.PrivateKey) error {
	r := vrfKey{
		Name:      name,
		Suite:     int64(suite),
		SecretKey: sk.Bytes(),
		PublicKey: sk.Public().Bytes(),
	}

	// Prepare SQL.
	writeStmt, err := s.db.PrepareContext(ctx, setSQL)
	if err != nil {
		return err
	}
	defer writeStmt.Close()
	_, err = writeStmt.ExecContext(ctx,
		r.Name,
		r.Suite,
		r.SecretKey,
		r.PublicKey)
	if sqlutil.IsDuplicate(err) {
		return fmt.Errorf("%w: %q", ErrExists, name)
	}
	if err != nil {
		return err
	}
	glog.V(2).Infof("vrfkeys: stored key %q with public key %x", name, r.PublicKey)
	return nil
}

// List returns the names of all stored keys in order.
func (s *Storage) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the key stored under name.
func (s *Storage) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, deleteSQL, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
