// Package utils provides small general-purpose helpers shared by autoenv
// packages.
package utils

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator produces time-ordered identifiers, used to name temporary
// files so concurrent writers never collide.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7 string, or a random UUIDv4 when the clock-based
// generator fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// TempName returns a hidden temporary file name derived from base.
func (g *UUIDGenerator) TempName(base string) string {
	var b strings.Builder
	b.WriteString(".")
	b.WriteString(base)
	b.WriteString(".")
	b.WriteString(g.Generate())
	b.WriteString(".tmp")
	return b.String()
}
