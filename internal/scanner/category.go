// Copyright 2026 The Preflight Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scanner

import (
	"fmt"
	"strings"
)

// Category is the risk bucket assigned to a known command name,
// ordered from least to most privileged.
type Category int

const (
	// CategorySafe covers read-only and output commands with no
	// write, network, or privilege capability.
	CategorySafe Category = iota

	// CategoryFilesystem covers commands that create, copy, or modify
	// files within the user's own filesystem.
	CategoryFilesystem

	// CategoryNetwork covers commands that open outbound connections.
	CategoryNetwork

	// CategoryPackageManagers covers package-manager front ends.
	CategoryPackageManagers

	// CategorySystem covers commands that touch system state: services,
	// processes, mounts, ownership.
	CategorySystem

	// CategoryDangerous covers commands that execute arbitrary code.
	// No enforcement tier ever allows this category.
	CategoryDangerous
)

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{
		CategorySafe,
		CategoryFilesystem,
		CategoryNetwork,
		CategoryPackageManagers,
		CategorySystem,
		CategoryDangerous,
	}
}

// String returns the category's wire name.
func (c Category) String() string {
	switch c {
	case CategorySafe:
		return "safe"
	case CategoryFilesystem:
		return "filesystem"
	case CategoryNetwork:
		return "network"
	case CategoryPackageManagers:
		return "package_managers"
	case CategorySystem:
		return "system"
	case CategoryDangerous:
		return "dangerous"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory converts a wire name back to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safe":
		return CategorySafe, nil
	case "filesystem":
		return CategoryFilesystem, nil
	case "network":
		return CategoryNetwork, nil
	case "package_managers":
		return CategoryPackageManagers, nil
	case "system":
		return CategorySystem, nil
	case "dangerous":
		return CategoryDangerous, nil
	default:
		return CategorySafe, fmt.Errorf("scanner: unknown category %q", s)
	}
}

// commandCategories is the fixed classification table. Lookups are exact
// and case-insensitive; names are stored lowercase.
//
// Destructive and download binaries (rm, dd, mkfs, curl, wget, nc) are
// deliberately absent: an absent name is rejected by every tier unless the
// caller opts into unknown commands, and the signature lists in patterns.go
// catch their raw-text shapes regardless of tier. Listing them under a
// category would let a loose tier allow them wholesale.
var commandCategories = map[string]Category{
	// Read-only / output.
	"echo": CategorySafe, "printf": CategorySafe, "cat": CategorySafe,
	"ls": CategorySafe, "pwd": CategorySafe, "cd": CategorySafe,
	"head": CategorySafe, "tail": CategorySafe, "grep": CategorySafe,
	"find": CategorySafe, "wc": CategorySafe, "sort": CategorySafe,
	"uniq": CategorySafe, "cut": CategorySafe, "tr": CategorySafe,
	"date": CategorySafe, "whoami": CategorySafe, "which": CategorySafe,
	"test": CategorySafe, "true": CategorySafe, "false": CategorySafe,
	"sleep": CategorySafe, "basename": CategorySafe, "dirname": CategorySafe,
	"realpath": CategorySafe, "readlink": CategorySafe, "file": CategorySafe,
	"stat": CategorySafe, "diff": CategorySafe, "du": CategorySafe,
	"df": CategorySafe, "uname": CategorySafe, "env": CategorySafe,

	// Filesystem mutation within the user's own tree.
	"mkdir": CategoryFilesystem, "rmdir": CategoryFilesystem,
	"touch": CategoryFilesystem, "cp": CategoryFilesystem,
	"mv": CategoryFilesystem, "ln": CategoryFilesystem,
	"tar": CategoryFilesystem, "zip": CategoryFilesystem,
	"unzip": CategoryFilesystem, "gzip": CategoryFilesystem,
	"gunzip": CategoryFilesystem, "tee": CategoryFilesystem,
	"sed": CategoryFilesystem, "awk": CategoryFilesystem,
	"patch": CategoryFilesystem, "install": CategoryFilesystem,

	// Outbound network.
	"ping": CategoryNetwork, "ssh": CategoryNetwork, "scp": CategoryNetwork,
	"sftp": CategoryNetwork, "rsync": CategoryNetwork, "git": CategoryNetwork,
	"dig": CategoryNetwork, "nslookup": CategoryNetwork, "host": CategoryNetwork,

	// Package managers.
	"brew": CategoryPackageManagers, "apt": CategoryPackageManagers,
	"apt-get": CategoryPackageManagers, "dnf": CategoryPackageManagers,
	"yum": CategoryPackageManagers, "pacman": CategoryPackageManagers,
	"apk": CategoryPackageManagers, "zypper": CategoryPackageManagers,
	"npm": CategoryPackageManagers, "pnpm": CategoryPackageManagers,
	"yarn": CategoryPackageManagers, "pip": CategoryPackageManagers,
	"pip3": CategoryPackageManagers, "gem": CategoryPackageManagers,
	"cargo": CategoryPackageManagers, "go": CategoryPackageManagers,
	"composer": CategoryPackageManagers, "flatpak": CategoryPackageManagers,
	"snap": CategoryPackageManagers,

	// System state.
	"systemctl": CategorySystem, "service": CategorySystem,
	"launchctl": CategorySystem, "ps": CategorySystem,
	"kill": CategorySystem, "killall": CategorySystem,
	"mount": CategorySystem, "umount": CategorySystem,
	"chmod": CategorySystem, "chown": CategorySystem,
	"sysctl": CategorySystem, "defaults": CategorySystem,

	// Arbitrary code execution. Classified so the name is *known* yet
	// never allowed, rather than falling into the unknown-command bucket.
	"eval": CategoryDangerous, "exec": CategoryDangerous,
	"source": CategoryDangerous, "bash": CategoryDangerous,
	"sh": CategoryDangerous, "zsh": CategoryDangerous,
	"dash": CategoryDangerous, "ksh": CategoryDangerous,
}

// Classify returns the category for a command name. The lookup trims
// whitespace and ignores case but is otherwise exact: "rm" hidden inside
// a longer token does not match, and prefixes never match.
func Classify(name string) (Category, bool) {
	c, ok := commandCategories[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// IsAllowed reports whether a command name is permitted given a set of
// allowed categories. Unknown names are rejected unless allowUnknown is
// set; this is the fail-closed default and callers should not relax it
// outside of tests.
func IsAllowed(name string, allowed map[Category]bool, allowUnknown bool) bool {
	c, ok := Classify(name)
	if !ok {
		return allowUnknown
	}
	return allowed[c]
}
