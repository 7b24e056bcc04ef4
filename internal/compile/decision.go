// Package compile decides whether a kernel source needs (re)building and
// drives the external compiler when it does.
package compile

import (
	"fmt"
	"os"
)

// Action is the outcome kind of a build decision.
type Action int

const (
	// Reuse runs an existing artifact as-is.
	Reuse Action = iota
	// Rebuild compiles the kernel source before running.
	Rebuild
)

func (a Action) String() string {
	if a == Rebuild {
		return "rebuild"
	}
	return "reuse"
}

// Decision names the artifact to run and whether it must be built first.
// Scratch marks an artifact living at the caller-supplied scratch path, which
// must be removed once the benchmark finishes.
type Decision struct {
	Action  Action
	Path    string
	Scratch bool
}

// Inputs are the facts the decision is made from. Filesystem state is passed
// in explicitly so the state machine stays testable without touching disk;
// ArtifactExists and SourceNewer only matter when OutPath is set and Compile
// is nil.
type Inputs struct {
	SourcePath  string
	OutPath     string // explicit artifact path; empty when not given
	ScratchPath string
	Compile     *bool // nil means auto

	ArtifactExists bool
	SourceNewer    bool
}

// Decide maps the six-way (artifact path given × compile flag tri-state)
// space onto a Decision:
//
//	out given, compile=true   -> Rebuild(out)
//	out given, compile=false  -> Reuse(out)
//	out given, compile=auto   -> Reuse(out) when it exists and is not stale
//	out absent, compile=true  -> Rebuild(scratch)
//	out absent, compile=false -> Reuse(source), source must export the symbol
//	out absent, compile=auto  -> Rebuild(scratch)
func Decide(in Inputs) Decision {
	if in.OutPath == "" {
		if in.Compile != nil && !*in.Compile {
			return Decision{Action: Reuse, Path: in.SourcePath}
		}
		return Decision{Action: Rebuild, Path: in.ScratchPath, Scratch: true}
	}

	if in.Compile != nil {
		if *in.Compile {
			return Decision{Action: Rebuild, Path: in.OutPath}
		}
		return Decision{Action: Reuse, Path: in.OutPath}
	}

	if in.ArtifactExists && !in.SourceNewer {
		return Decision{Action: Reuse, Path: in.OutPath}
	}
	return Decision{Action: Rebuild, Path: in.OutPath}
}

// Probe gathers the filesystem facts for an auto-mode decision with an
// explicit artifact path: whether the artifact exists and whether the kernel
// source has been modified after it was built.
func Probe(sourcePath, outPath string) (artifactExists, sourceNewer bool, err error) {
	src, err := os.Stat(sourcePath)
	if err != nil {
		return false, false, fmt.Errorf("kernel source not found: %w", err)
	}

	out, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to query artifact metadata: %w", err)
	}

	return true, src.ModTime().After(out.ModTime()), nil
}
