//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pdiddy/curriculum-graph/internal/container"
	"github.com/pdiddy/curriculum-graph/internal/secrets"
)

// Neo4j groups targets for the local Neo4j container.
type Neo4j mg.Namespace

const (
	neo4jURI          = "neo4j://localhost:7687"
	neo4jReadyTimeout = 90 * time.Second
)

// neo4jPassword reads .secrets/neo4j-password, falling back to a fixed
// development password.
func neo4jPassword() string {
	s, err := secrets.Load(secrets.DefaultDir, nil)
	if err == nil && s[secrets.KeyNeo4jPassword] != "" {
		return s[secrets.KeyNeo4jPassword]
	}
	return "curriculum-dev"
}

// Up starts the Neo4j container (pulling the image if needed) and waits
// until Bolt accepts connections.
func (Neo4j) Up() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	if rt.Running(container.Neo4jContainer) {
		fmt.Printf("%s already exists (%s)\n", container.Neo4jContainer, rt.Name())
		return waitForNeo4j(neo4jPassword())
	}
	if rt.ImageExists(container.Neo4jImage) != nil {
		if err := rt.Pull(container.Neo4jImage, os.Stdout); err != nil {
			return err
		}
	}
	password := neo4jPassword()
	if err := rt.Start(container.Neo4jSpec(password)); err != nil {
		return err
	}
	fmt.Printf("Started %s with %s\n", container.Neo4jContainer, rt.Name())
	return waitForNeo4j(password)
}

// Down removes the Neo4j container.
func (Neo4j) Down() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	if !rt.Running(container.Neo4jContainer) {
		fmt.Printf("%s is not running\n", container.Neo4jContainer)
		return nil
	}
	if err := rt.Stop(container.Neo4jContainer); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", container.Neo4jContainer)
	return nil
}

func waitForNeo4j(password string) error {
	driver, err := neo4j.NewDriverWithContext(neo4jURI, neo4j.BasicAuth("neo4j", password, ""))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), neo4jReadyTimeout)
	defer cancel()
	defer driver.Close(ctx)

	for {
		if err := driver.VerifyConnectivity(ctx); err == nil {
			fmt.Println("Neo4j is ready at", neo4jURI)
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("neo4j not ready after %s", neo4jReadyTimeout)
		case <-time.After(2 * time.Second):
		}
	}
}
