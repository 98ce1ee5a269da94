package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// JobFile is the YAML description of a sequence of shell commands.
//
//	id: deploy
//	delay: 500ms
//	jobs:
//	  - name: build
//	    run: go build ./...
//	  - name: migrate
//	    run: ./migrate up
//	    retries: 3
//	    timeout: 2m
type JobFile struct {
	ID    string        `yaml:"id"`
	Delay time.Duration `yaml:"delay"`
	Jobs  []CommandSpec `yaml:"jobs"`
}

// CommandSpec is one shell command to run.
type CommandSpec struct {
	Name    string            `yaml:"name"`
	Run     string            `yaml:"run"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
	Retries int               `yaml:"retries"`
	Timeout time.Duration     `yaml:"timeout"`
}

var errNoCommands = errors.New("no commands to run")

// loadJobFile reads and validates a job file.
func loadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return parseJobFile(data)
}

func parseJobFile(data []byte) (*JobFile, error) {
	var f JobFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}
	if len(f.Jobs) == 0 {
		return nil, errNoCommands
	}
	for i, j := range f.Jobs {
		if j.Run == "" {
			return nil, fmt.Errorf("job %d (%q): run is required", i+1, j.Name)
		}
		if j.Retries < 0 {
			return nil, fmt.Errorf("job %d (%q): retries must not be negative", i+1, j.Name)
		}
	}
	return &f, nil
}

// commandsFromArgs turns positional arguments into one command each.
func commandsFromArgs(args []string) []CommandSpec {
	specs := make([]CommandSpec, len(args))
	for i, a := range args {
		specs[i] = CommandSpec{Run: a}
	}
	return specs
}
