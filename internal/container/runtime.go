// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a docker or podman runtime and manages the
// local Neo4j container used for development and integration tests.
package container

import (
	"fmt"
	"io"
	"os/exec"
	"sort"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime provides the container operations the build tasks need.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available() bool

	// ImageExists returns nil when the named image exists locally.
	ImageExists(image string) error

	// Pull fetches image, streaming progress to out.
	Pull(image string, out io.Writer) error

	// Start runs spec detached.
	Start(spec Spec) error

	// Running reports whether a container named name exists.
	Running(name string) bool

	// Stop force-removes the container named name.
	Stop(name string) error
}

// Spec describes a detached container.
type Spec struct {
	Name  string
	Image string

	// Ports are host:container pairs.
	Ports []string

	Env map[string]string
}

// Args returns the run arguments for s. Environment variables are sorted
// so the command line is stable.
func (s Spec) Args() []string {
	args := []string{"run", "-d", "--name", s.Name}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", k+"="+s.Env[k])
	}
	return append(args, s.Image)
}

const (
	Neo4jContainer = "curriculum-graph-neo4j"
	Neo4jImage     = "neo4j:5"
)

// Neo4jSpec is the local Neo4j container with Bolt on 7687 and the
// browser on 7474, authenticated as neo4j/password.
func Neo4jSpec(password string) Spec {
	return Spec{
		Name:  Neo4jContainer,
		Image: Neo4jImage,
		Ports: []string{"7474:7474", "7687:7687"},
		Env:   map[string]string{"NEO4J_AUTH": "neo4j/" + password},
	}
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return cmd.Run()
}

// runtime implements Runtime for one container binary. Docker and Podman
// differ only in the binary name and the existence-check subcommands.
type runtime struct {
	bin               string
	imageCheckCmd     []string
	containerCheckCmd []string
	exec              executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	if err := r.exec.RunSilent(r.bin, append(append([]string{}, r.imageCheckCmd...), image)...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Pull(image string, out io.Writer) error {
	if err := r.exec.RunPiped(r.bin, []string{"pull", image}, nil, out); err != nil {
		return fmt.Errorf("pulling %s with %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Start(spec Spec) error {
	if err := r.exec.RunSilent(r.bin, spec.Args()...); err != nil {
		return fmt.Errorf("starting %s container %s: %w", r.bin, spec.Name, err)
	}
	return nil
}

func (r *runtime) Running(name string) bool {
	return r.exec.RunSilent(r.bin, append(append([]string{}, r.containerCheckCmd...), name)...) == nil
}

func (r *runtime) Stop(name string) error {
	if err := r.exec.RunSilent(r.bin, "rm", "-f", name); err != nil {
		return fmt.Errorf("removing %s container %s: %w", r.bin, name, err)
	}
	return nil
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{
		bin:               binDocker,
		imageCheckCmd:     []string{"image", "inspect"},
		containerCheckCmd: []string{"container", "inspect"},
		exec:              exec,
	}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{
		bin:               binPodman,
		imageCheckCmd:     []string{"image", "exists"},
		containerCheckCmd: []string{"container", "exists"},
		exec:              exec,
	}
}

var defaultExec = &osExecutor{}

// DetectRuntime tries docker first and falls back to podman.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(defaultExec)
}

func detectRuntime(exec executor) (Runtime, error) {
	docker := newDockerRuntime(exec)
	if docker.Available() {
		return docker, nil
	}

	podman := newPodmanRuntime(exec)
	if podman.Available() {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
