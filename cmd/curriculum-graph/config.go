// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/curriculum-graph/pkg/types"
)

// mustBind binds a flag to a viper key. It panics on a nil flag, which
// only happens when a flag name is mistyped.
func mustBind(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding %s: %v", key, err))
	}
}

// resolveConfig reads every setting from viper: flags, environment
// (CURRICULUM_GRAPH_ prefix, dots as underscores), the config file, and
// defaults, in that order of precedence.
func resolveConfig() (types.Config, error) {
	c := types.Config{
		Store: types.StoreConfig{
			Backend:   types.StoreBackend(strings.ToLower(strings.TrimSpace(viper.GetString("store.backend")))),
			CypherOut: viper.GetString("store.cypher_out"),
			Neo4j: types.Neo4jConfig{
				URI:            viper.GetString("neo4j.uri"),
				User:           viper.GetString("neo4j.user"),
				Password:       viper.GetString("neo4j.password"),
				Database:       viper.GetString("neo4j.database"),
				Timeout:        viper.GetDuration("neo4j.timeout"),
				MaxPoolSize:    viper.GetInt("neo4j.max_pool_size"),
				ConnectRetries: viper.GetInt("neo4j.connect_retries"),
			},
			SQLite: types.SQLiteConfig{
				Path: viper.GetString("sqlite.path"),
			},
		},
		Load: types.LoadConfig{
			Concurrency:   viper.GetInt("load.concurrency"),
			SkipInference: viper.GetBool("load.skip_inference"),
		},
		Log: types.LogConfig{
			Mode: viper.GetString("log.mode"),
		},
	}

	switch c.Store.Backend {
	case types.BackendNeo4j, types.BackendSQLite, types.BackendMemory:
	default:
		return c, fmt.Errorf("unknown store backend %q: want neo4j, sqlite, or memory", c.Store.Backend)
	}
	if c.Load.Concurrency < 1 {
		c.Load.Concurrency = 1
	}
	if c.Load.Concurrency > 1 && c.Store.Backend == types.BackendSQLite {
		// The sqlite store serializes on one connection anyway.
		c.Load.Concurrency = 1
	}
	return c, nil
}
