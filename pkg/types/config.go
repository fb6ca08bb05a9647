// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreBackend identifies the graph store implementation.
type StoreBackend string

const (
	BackendNeo4j  StoreBackend = "neo4j"
	BackendSQLite StoreBackend = "sqlite"
	BackendMemory StoreBackend = "memory"
)

// Neo4jConfig holds connection settings for the Neo4j store.
type Neo4jConfig struct {
	// URI is the Bolt or neo4j:// address (e.g. "neo4j://localhost:7687").
	URI string `json:"uri" yaml:"uri"`

	// User defaults to "neo4j".
	User string `json:"user" yaml:"user"`

	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Database selects a named database; empty uses the server default.
	Database string `json:"database" yaml:"database"`

	// Timeout bounds socket connects and the connectivity check (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxPoolSize is the driver connection pool size (default 50).
	MaxPoolSize int `json:"max_pool_size" yaml:"max_pool_size"`

	// ConnectRetries is how many times a failed connectivity check is
	// retried with exponential backoff before giving up (default 3).
	ConnectRetries int `json:"connect_retries" yaml:"connect_retries"`
}

// SQLiteConfig holds settings for the embedded SQLite graph store.
type SQLiteConfig struct {
	// Path is the database file (default "curriculum.db").
	Path string `json:"path" yaml:"path"`
}

// StoreConfig selects and configures the graph store.
type StoreConfig struct {
	Backend StoreBackend `json:"backend" yaml:"backend"`

	// CypherOut, when set, records every schema and upsert operation as a
	// Cypher script at this path in addition to applying it.
	CypherOut string `json:"cypher_out,omitempty" yaml:"cypher_out,omitempty"`

	Neo4j  Neo4jConfig  `json:"neo4j" yaml:"neo4j"`
	SQLite SQLiteConfig `json:"sqlite" yaml:"sqlite"`
}

// LoadConfig holds settings for a load batch.
type LoadConfig struct {
	// Concurrency is the number of syllabi upserted in parallel (default 1).
	// Values above 1 are only safe when the store's merge is atomic per key.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// SkipInference leaves PREREQUISITE_OF edges untouched.
	SkipInference bool `json:"skip_inference" yaml:"skip_inference"`
}

// LogConfig selects the logger output mode: "dev" or "prod".
type LogConfig struct {
	Mode string `json:"mode" yaml:"mode"`
}

// Config groups all settings read from the config file, environment, and flags.
type Config struct {
	Store StoreConfig `json:"store" yaml:"store"`
	Load  LoadConfig  `json:"load" yaml:"load"`
	Log   LogConfig   `json:"log" yaml:"log"`
}
