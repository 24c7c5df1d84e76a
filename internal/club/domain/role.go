package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of club roles. The zero value is RoleAnonymous and
// is never persisted.
type Role int

const (
	RoleAnonymous Role = iota
	RoleMember
	RoleFinancialSecretary
	RoleAdmin
)

var roleCodes = map[Role]string{
	RoleMember:             "MEM",
	RoleFinancialSecretary: "FS",
	RoleAdmin:              "ADM",
}

var roleLabels = map[Role]string{
	RoleAnonymous:          "Anonymous",
	RoleMember:             "Member",
	RoleFinancialSecretary: "Financial Secretary",
	RoleAdmin:              "Admin",
}

// Code is the storage and wire form: ADM, FS or MEM.
func (r Role) Code() string { return roleCodes[r] }

func (r Role) String() string { return roleLabels[r] }

// Valid reports whether r can be assigned to a profile.
func (r Role) Valid() bool {
	_, ok := roleCodes[r]
	return ok
}

// ParseRole accepts the storage codes and the long names, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adm", "admin":
		return RoleAdmin, nil
	case "fs", "financial_secretary", "financial secretary":
		return RoleFinancialSecretary, nil
	case "mem", "member":
		return RoleMember, nil
	}
	return RoleAnonymous, fmt.Errorf("unknown role %q", s)
}

// Status is the membership standing of a profile.
type Status string

const (
	StatusActive    Status = "ACT"
	StatusSuspended Status = "SUS"
	StatusRemoved   Status = "REM"
)

// Label is the human readable form used in reports.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusSuspended:
		return "Suspended"
	case StatusRemoved:
		return "Removed"
	}
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusRemoved:
		return true
	}
	return false
}

// ParseStatus accepts the storage codes and the labels, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "act", "active":
		return StatusActive, nil
	case "sus", "suspended":
		return StatusSuspended, nil
	case "rem", "removed":
		return StatusRemoved, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}
