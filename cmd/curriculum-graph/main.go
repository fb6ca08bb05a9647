// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the curriculum-graph CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/curriculum-graph/internal/logger"
	"github.com/pdiddy/curriculum-graph/internal/secrets"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration for the running command.
	cfg types.Config

	// log is the process logger, built once flags and config are read.
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "curriculum-graph",
	Short: "Build a curriculum knowledge graph from schemes of work",
	Long: `curriculum-graph loads syllabi (resource, weeks, and the topics taught each
week) into a property graph. It declares the uniqueness constraints and
lookup indexes, upserts Resource, Week, and Concept nodes with their
HAS_WEEK and TEACHES edges, and infers PREREQUISITE_OF edges between the
concepts of consecutive weeks.

The graph lives in Neo4j, in an embedded SQLite file, or in memory. Any
backend can also record the equivalent Cypher script with --cypher-out.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(viper.GetString("log.mode"))
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		log = l

		c, err := resolveConfig()
		if err != nil {
			return err
		}
		s, err := secrets.Load(secrets.DefaultDir, log)
		if err != nil {
			return err
		}
		if filled := secrets.ApplyNeo4j(&c.Store.Neo4j, s); len(filled) > 0 {
			log.Debug("neo4j credentials read from secrets", "fields", filled)
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./curriculum-graph.yaml or ~/.config/curriculum-graph/curriculum-graph.yaml)")
	pf.String("backend", "", "graph store: neo4j, sqlite, or memory (default sqlite)")
	pf.String("cypher-out", "", "also record every schema and upsert statement as a Cypher script at this path")
	pf.String("log-mode", "", "log output: dev (console) or prod (JSON)")

	mustBind("store.backend", pf.Lookup("backend"))
	mustBind("store.cypher_out", pf.Lookup("cypher-out"))
	mustBind("log.mode", pf.Lookup("log-mode"))

	viper.SetDefault("store.backend", string(types.BackendSQLite))
	viper.SetDefault("sqlite.path", "curriculum.db")
	viper.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	viper.SetDefault("neo4j.connect_retries", 3)
	viper.SetDefault("load.concurrency", 1)
	viper.SetDefault("log.mode", "dev")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("curriculum-graph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "curriculum-graph"))
		}
	}

	viper.SetEnvPrefix("CURRICULUM_GRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
