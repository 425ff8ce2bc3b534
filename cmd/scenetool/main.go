// scenetool loads 3D models into flat scenes and manages GRF archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/logger"
)

// errUsage marks a command invoked with the wrong arguments. run prints the
// command's usage line for it.
var errUsage = errors.New("invalid usage")

type command struct {
	usage string
	run   func(args []string, stdout, stderr io.Writer) error
}

var commands = map[string]command{
	"info":    {"info [flags] <model>", cmdInfo},
	"tree":    {"tree [flags] <model>", cmdTree},
	"dump":    {"dump [flags] [-o file] <model>", cmdDump},
	"ls":      {"ls [-n N] <file.grf> [pattern]", cmdList},
	"extract": {"extract <file.grf> <path|pattern> [output_dir]", cmdExtract},
	"pack":    {"pack [-C dir] <out.grf> <file|dir>...", cmdPack},
	"config":  {"config [flags] [path]", cmdConfig},
}

var aliases = map[string]string{
	"list": "ls",
	"x":    "extract",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	name := args[0]
	switch name {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		printUsage(stderr)
		return 1
	}

	err := cmd.run(args[1:], stdout, stderr)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Usage: scenetool %s\n", cmd.usage)
		return 2
	case errors.Is(err, flag.ErrHelp):
		return 0
	default:
		logger.Error("command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scenetool - flatten 3D models and manage GRF archives

Usage:
  scenetool <command> [options]

Commands:
  info <model>                       Show scene statistics
  tree <model>                       Print the node hierarchy
  dump [-o file] <model>             Write a YAML summary of the flat scene
  ls <file.grf> [pattern]            List archive files (optional glob pattern)
  extract <file.grf> <path> [dir]    Extract file(s) to a directory
  pack [-C dir] <out.grf> <files...> Build an archive from files or directories
  config [path]                      Print or write the effective configuration

Model flags:
  -config file   Config file (default ./scenekit.yaml, then the user config dir)
  -flags list    Post-processing steps, e.g. "default" or "triangulate,gen_normals"
  -workers n     Parallel extraction workers
  -strict        Fail on malformed embedded texture references
  -grf list      GRF archives searched for models not on disk
  -debug         Debug logging

Examples:
  scenetool info model.glb
  scenetool tree -grf data.grf data/model/prontera/house01.rsm
  scenetool dump -o house.yaml house.rsm
  scenetool ls data.grf "data/model/*/*.rsm"`)
}
