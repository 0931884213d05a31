// Copyright 2025 Quantrace Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import "fmt"

// MySQLConfig holds MySQL connection settings.
type MySQLConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	User     string   `mapstructure:"user"`
	Password string   `mapstructure:"password"`
	DBName   string   `mapstructure:"dbName"`
	Replicas []string `mapstructure:"replicas"` // optional read-replica DSNs
}

// SQLiteConfig holds SQLite settings, used for single-node deployments and tests.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// Database is the top-level database configuration.
type Database struct {
	Driver          string       `mapstructure:"driver"` // mysql or sqlite
	MySQL           MySQLConfig  `mapstructure:"mysql"`
	SQLite          SQLiteConfig `mapstructure:"sqlite"`
	MaxOpenConns    int          `mapstructure:"maxOpenConns"`
	MaxIdleConns    int          `mapstructure:"maxIdleConns"`
	ConnMaxLifetime int          `mapstructure:"connMaxLifetime"` // seconds
	OutPut          bool         `mapstructure:"output"`          // emit gorm SQL logs
}

// SetDefaults fills zero-valued fields with safe defaults.
func (d *Database) SetDefaults() {
	if d.Driver == "" {
		d.Driver = "sqlite"
	}
	if d.MySQL.Host == "" {
		d.MySQL.Host = "127.0.0.1"
	}
	if d.MySQL.Port == 0 {
		d.MySQL.Port = 3306
	}
	if d.SQLite.Path == "" {
		d.SQLite.Path = "quantrace.db"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 50
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 10
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = 3600
	}
}

func buildMySQLDSN(user, password, host string, port int, dbName string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbName)
}
