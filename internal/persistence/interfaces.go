// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package persistence

import "time"

//go:generate mockgen -source=interfaces.go -destination=../mock/persistence_mock.go -package=mock

// FileSystem is the storage the Writer reads its file from and flushes to.
//
// ReadFile must return an error matching fs.ErrNotExist when the file is
// missing, so the Writer can tell a missing file from an unreadable one.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// Clock schedules the end of a throttle window.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback scheduled by a Clock.
type Timer interface {
	Stop() bool
}
