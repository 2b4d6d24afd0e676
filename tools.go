// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

//go:build tools
// +build tools

// Package main pins test dependencies that are only imported behind build
// tags, so go mod tidy keeps them.
// See https://go.dev/wiki/Modules#how-can-i-track-tool-dependencies-for-a-module
package main

import (
	// Integration suites (//go:build integration)
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"
	_ "github.com/testcontainers/testcontainers-go"
	_ "github.com/testcontainers/testcontainers-go/modules/mongodb"
	_ "github.com/testcontainers/testcontainers-go/modules/postgres"
)
