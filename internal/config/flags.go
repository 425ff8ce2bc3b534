package config

import (
	"flag"
	"strings"
)

// Flags holds the command-line overrides registered by RegisterFlags.
type Flags struct {
	config  *string
	debug   *bool
	steps   *string
	workers *int
	strict  *bool
	grf     *string
}

// RegisterFlags adds the shared configuration flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:  fs.String("config", "", "Path to config file"),
		debug:   fs.Bool("debug", false, "Enable debug logging"),
		steps:   fs.String("flags", "", "Comma-separated post-processing steps (e.g. default,gen_normals)"),
		workers: fs.Int("workers", 0, "Parallel extraction workers"),
		strict:  fs.Bool("strict", false, "Fail the load on malformed texture references"),
		grf:     fs.String("grf", "", "Comma-separated GRF archives to search"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.steps != "" {
		cfg.Import.Flags = splitList(*f.steps)
	}
	if *f.workers > 0 {
		cfg.Import.Workers = *f.workers
	}
	if *f.strict {
		cfg.Import.StrictTextures = true
	}
	if *f.grf != "" {
		cfg.Data.GRFPaths = splitList(*f.grf)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
