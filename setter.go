package branchvers

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// VersionSetter applies a computed version, e.g. by rewriting build files.
type VersionSetter interface {
	SetVersion(version string, backup bool) error
}

// SetterFunc adapts a function to VersionSetter
type SetterFunc func(version string, backup bool) error

func (f SetterFunc) SetVersion(version string, backup bool) error {
	return f(version, backup)
}

// WriterSetter prints the version on its own line
type WriterSetter struct {
	W io.Writer
}

func (s WriterSetter) SetVersion(version string, _ bool) error {
	_, err := fmt.Fprintln(s.W, version)
	return err
}

type commandFunc func(name string, args ...string) *exec.Cmd

var execCommand commandFunc = exec.Command

// MavenSetter hands the version to the versions-maven-plugin
type MavenSetter struct {
	// Dir is the project directory (default: current directory)
	Dir string

	// Binary is the maven executable (default: "mvn")
	Binary string
}

func (s MavenSetter) SetVersion(version string, backup bool) error {
	binary := s.Binary
	if binary == "" {
		binary = "mvn"
	}

	cmd := execCommand(binary,
		"-q",
		"versions:set",
		"-DnewVersion="+version,
		"-DgenerateBackupPoms="+strconv.FormatBool(backup),
	)
	cmd.Dir = s.Dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("running %s versions:set: %w: %s", binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}
