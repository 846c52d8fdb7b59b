// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/cadence/internal/config"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(&config.SecurityConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return e
}

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{RoleViewer, "pages", ActionRead, true},
		{RoleViewer, "account", ActionWrite, true},
		{RoleViewer, "session", ActionRead, true},
		{RoleViewer, "admin/cache", ActionDelete, false},
		{RoleViewer, "pages", ActionDelete, false},
		{RoleAdmin, "admin/cache", ActionDelete, true},
		{RoleAdmin, "pages", ActionRead, true},
		{RoleAdmin, "account", ActionWrite, true},
		{"stranger", "pages", ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"_"+tt.object+"_"+tt.action, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforcer_PolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	policy := "p, viewer, pages, read\np, viewer, admin/cache, delete\n"
	if err := os.WriteFile(path, []byte(policy), 0o600); err != nil {
		t.Fatal(err)
	}

	e, err := NewEnforcer(&config.SecurityConfig{CasbinPolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if ok, _ := e.Enforce(RoleViewer, "admin/cache", ActionDelete); !ok {
		t.Error("policy file should grant viewer cache clear")
	}
	if ok, _ := e.Enforce(RoleAdmin, "pages", ActionRead); ok {
		t.Error("policy file has no admin grouping")
	}
}

func TestNewEnforcer_MissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := NewEnforcer(&config.SecurityConfig{CasbinModelPath: missing}); err == nil {
		t.Error("expected error for missing model file")
	}
	if _, err := NewEnforcer(&config.SecurityConfig{CasbinPolicyPath: missing}); err == nil {
		t.Error("expected error for missing policy file")
	}
}

func TestRoleFor(t *testing.T) {
	tests := []struct {
		user, admin, want string
	}{
		{"root", "root", RoleAdmin},
		{"alice", "root", RoleViewer},
		{"", "", RoleViewer},
		{"alice", "", RoleViewer},
	}
	for _, tt := range tests {
		if got := RoleFor(tt.user, tt.admin); got != tt.want {
			t.Errorf("RoleFor(%q, %q) = %q, want %q", tt.user, tt.admin, got, tt.want)
		}
	}
}

func TestLoadPolicyText_Malformed(t *testing.T) {
	e := newTestEnforcer(t)
	if err := loadPolicyText(e.enforcer, "p, viewer, pages\n"); err == nil {
		t.Error("expected error for short policy line")
	}
}
