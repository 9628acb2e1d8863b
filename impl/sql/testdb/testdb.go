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

// Package testdb provides databases for storage tests.
package testdb

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang/glog"

	sqlutil "github.com/starkvrf/stark-vrf/impl/sql"
)

var mysqlAddr = flag.String("mysql_addr", "", "Run storage tests against the MySQL server at this address as root, in addition to sqlite")

// Drivers returns the drivers tests should run against.
func Drivers() []string {
	if *mysqlAddr == "" {
		return []string{sqlutil.DriverSQLite}
	}
	return []string{sqlutil.DriverSQLite, sqlutil.DriverMySQL}
}

// NewForTest returns an empty database for driver and a function that
// releases it.
func NewForTest(ctx context.Context, t testing.TB, driver string) (*sql.DB, func(context.Context)) {
	t.Helper()
	switch driver {
	case sqlutil.DriverSQLite:
		db, err := sqlutil.Open(driver, ":memory:")
		if err != nil {
			t.Fatalf("sql.Open(): %v", err)
		}
		return db, func(context.Context) { db.Close() }
	case sqlutil.DriverMySQL:
		return newMySQL(ctx, t)
	}
	t.Fatalf("unsupported driver %q", driver)
	return nil, nil
}

func newMySQL(ctx context.Context, t testing.TB) (*sql.DB, func(context.Context)) {
	config := mysql.NewConfig()
	config.User = "root"
	config.Net = "tcp"
	config.Addr = *mysqlAddr

	db, err := sql.Open("mysql", config.FormatDSN())
	if err != nil {
		t.Fatalf("sql.Open(): %v", err)
	}

	dbName := fmt.Sprintf("test_%v", time.Now().UnixNano())
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE `%s`", dbName)); err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Open test database
	db.Close()
	config.DBName = dbName
	db, err = sqlutil.Open(sqlutil.DriverMySQL, config.FormatDSN())
	if err != nil {
		t.Fatal(err)
	}

	done := func(ctx context.Context) {
		defer db.Close()
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP DATABASE `%s`", dbName)); err != nil {
			glog.Errorf("Failed to drop test database %q: %v", dbName, err)
		}
	}
	return db, done
}
