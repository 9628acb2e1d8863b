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

// Package sql holds helpers shared by the SQL storage backends.
package sql

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Open opens the database specified by driver and dsn and checks that it is
// reachable.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, err
		}

		// MySQL flags that affect storage logic.
		cfg.ClientFoundRows = true // Return number of matching rows instead of rows changed

		db, err := sql.Open(DriverMySQL, cfg.FormatDSN())
		if err != nil {
			return nil, err
		}
		return db, db.Ping()
	case DriverSQLite:
		db, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, err
		}
		// Each connection to an in-memory database sees its own database.
		db.SetMaxOpenConns(1)
		return db, db.Ping()
	default:
		return nil, fmt.Errorf("sql: unsupported driver %q", driver)
	}
}
