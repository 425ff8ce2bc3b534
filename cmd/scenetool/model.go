package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/flatten"
	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/importer/gltfimport"
	"github.com/Faultbox/scenekit/pkg/importer/rsmimport"
	"github.com/Faultbox/scenekit/pkg/scene"
)

// modelCommand holds the state shared by commands that load a model.
type modelCommand struct {
	fs    *flag.FlagSet
	flags *config.Flags
}

func newModelCommand(name string, stderr io.Writer) *modelCommand {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return &modelCommand{fs: fs, flags: config.RegisterFlags(fs)}
}

// setup parses args, loads the configuration and initializes logging.
func (mc *modelCommand) setup(args []string) (*config.Config, error) {
	if err := mc.fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(mc.flags)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logFileConfig(cfg), true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logFileConfig(cfg *config.Config) logger.FileConfig {
	if cfg.Logging.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(cfg.Logging.LogFile)
}

// load parses args and loads the single model argument.
func (mc *modelCommand) load(args []string) (*scene.Scene, error) {
	cfg, err := mc.setup(args)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	if mc.fs.NArg() != 1 {
		return nil, errUsage
	}

	flags, err := cfg.ImportFlags()
	if err != nil {
		return nil, err
	}

	s := newLoader(cfg).Load(mc.fs.Arg(0), flags)
	if !s.Success {
		return nil, fmt.Errorf("loading %s: %s", mc.fs.Arg(0), s.ErrorMessage)
	}
	return s, nil
}

// newRegistry registers every importer.
func newRegistry(cfg *config.Config) *importer.Registry {
	r := importer.NewRegistry()
	gltfimport.New(gltfimport.WithLogger(logger.Named("gltf"))).Register(r)
	rsmimport.New(
		rsmimport.WithLogger(logger.Named("rsm")),
		rsmimport.WithArchives(cfg.Data.GRFPaths...),
	).Register(r)
	return r
}

func newLoader(cfg *config.Config) *flatten.Loader {
	return flatten.NewLoader(newRegistry(cfg),
		flatten.WithLogger(logger.Named("flatten")),
		flatten.WithWorkers(cfg.Import.Workers),
		flatten.WithStrictTextures(cfg.Import.StrictTextures),
	)
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	s, err := newModelCommand("info", stderr).load(args)
	if err != nil {
		return err
	}

	st := s.Stats()
	fmt.Fprintf(stdout, "Scene:     %s\n", s.Name)
	fmt.Fprintf(stdout, "Nodes:     %d (depth %d)\n", st.Nodes, st.MaxDepth)
	fmt.Fprintf(stdout, "Meshes:    %d\n", st.Meshes)
	fmt.Fprintf(stdout, "Materials: %d\n", st.Materials)
	fmt.Fprintf(stdout, "Vertices:  %d\n", st.Vertices)
	fmt.Fprintf(stdout, "Indices:   %d\n", st.Indices)
	fmt.Fprintf(stdout, "Textures:  %d (%d embedded)\n", st.Textures, st.EmbeddedTextures)

	if err := s.Validate(); err != nil {
		logger.Warn("scene failed validation", zap.Error(err))
		return err
	}
	return nil
}

func cmdTree(args []string, stdout, stderr io.Writer) error {
	s, err := newModelCommand("tree", stderr).load(args)
	if err != nil {
		return err
	}

	s.Walk(func(_, depth int, n *scene.Node) {
		name := n.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(stdout, "%s%s", strings.Repeat("  ", depth), name)
		if len(n.Meshes) > 0 {
			names := make([]string, len(n.Meshes))
			for i, mi := range n.Meshes {
				names[i] = s.Meshes[mi].Name
			}
			fmt.Fprintf(stdout, " [%s]", strings.Join(names, ", "))
		}
		fmt.Fprintln(stdout)
	})
	return nil
}

func cmdDump(args []string, stdout, stderr io.Writer) error {
	mc := newModelCommand("dump", stderr)
	output := mc.fs.String("o", "", "Write to file instead of stdout")

	s, err := mc.load(args)
	if err != nil {
		return err
	}

	data, err := marshalScene(s)
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}

	if *output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	fmt.Fprintf(stderr, "Wrote %s (%d bytes)\n", *output, len(data))
	return nil
}

func cmdConfig(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return errUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if fs.NArg() == 1 {
		if err := cfg.SaveTo(fs.Arg(0)); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(stderr, "Wrote %s\n", fs.Arg(0))
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
