/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package version exposes the build version. Version is overridden at link time:
//
//	go build -ldflags "-X github.com/droppybuilder/Buildify2.0-sub000/internal/version.Version=1.2.3"
package version

import "runtime/debug"

// Version is the semantic version of the build.
var Version = "0.4.0-dev"

// Commit is the VCS revision, filled from build info when available.
var Commit = ""

// String returns "<version>" or "<version> (<commit>)".
func String() string {
	c := Commit
	if c == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					c = s.Value[:7]
				}
			}
		}
	}
	if c == "" {
		return Version
	}
	return Version + " (" + c + ")"
}
