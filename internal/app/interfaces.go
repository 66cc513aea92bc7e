// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import "context"

// Runner defines the minimal lifecycle contract for runnable applications.
type Runner interface {
	// Run executes the configured command and blocks until it is done.
	Run(ctx context.Context) error
}
