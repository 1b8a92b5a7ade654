package entity

import (
	"strings"
	"time"
)

// Individual is a resident who discards items.
type Individual struct {
	ID         int64
	NationalID string
	FirstName  string
	MiddleName string
	LastName   string
	BirthDate  time.Time
	Email      string
	Phone      string
	Sex        Sex
	AddressID  int64
	CreatedAt  time.Time
}

// FullName joins the name parts, skipping an empty middle name.
func (i *Individual) FullName() string {
	return JoinName(i.FirstName, i.MiddleName, i.LastName)
}

// JoinName joins first, optional middle and last names with single spaces.
func JoinName(first, middle, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, middle, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, " ")
}

// AgeOn returns the age in whole years reached by now for someone born on birth.
func AgeOn(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}

	return age
}
