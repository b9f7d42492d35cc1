// Command firing-range mounts configured weapons on a test emplacement, holds every
// trigger for a fixed simulated duration and reports what the shots did
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"

	"github.com/lixenwraith/ordnance/audio"
	"github.com/lixenwraith/ordnance/catalog"
	"github.com/lixenwraith/ordnance/config"
	"github.com/lixenwraith/ordnance/core"
	"github.com/lixenwraith/ordnance/parameter"
)

type options struct {
	configPath string
	weapons    string
	view       string
	seed       uint64
	duration   time.Duration
	audio      bool
	audioOut   string
	list       bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("firing-range", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "configuration file (yaml, toml or json)")
	fs.StringVar(&o.weapons, "weapon", "", "comma-separated weapon names to mount, default all")
	fs.StringVar(&o.view, "view", "", "plot or none, overrides range.view")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed, overrides range.seed")
	fs.DurationVar(&o.duration, "duration", 0, "simulated duration, overrides range.duration")
	fs.BoolVar(&o.audio, "audio", false, "play weapon sounds on the speaker")
	fs.StringVar(&o.audioOut, "audio-out", "", "write the sound mix to a WAV file")
	fs.BoolVar(&o.list, "list", false, "list catalogued weapons and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// apply folds flags over the loaded file; flags win
func (o options) apply(f *config.File) {
	if o.view != "" {
		f.Range.View = o.view
	}
	if o.seed != 0 {
		f.Range.Seed = o.seed
	}
	if o.duration > 0 {
		f.Range.Duration = o.duration
	}
	if o.audio {
		f.Range.Audio = true
	}
	if o.audioOut != "" {
		f.Range.AudioOut = o.audioOut
	}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "firing-range: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var console io.Writer = stderr
	if cfg.Range.View == config.ViewPlot {
		console = nil
	}
	log, logFile, err := setupLogging(cfg.Log, console)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx := context.Background()
	store, err := catalog.Open(cfg.Catalog, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(cfg.Weapons) > 0 {
		if err := store.Import(ctx, cfg.Weapons); err != nil {
			return err
		}
	}

	if opts.list {
		defs, err := store.List(ctx, "")
		if err != nil {
			return err
		}
		for _, d := range defs {
			fmt.Fprintf(stdout, "%-16s %-9s %-12s sockets %d\n", d.Name, d.Launcher, d.Mode, len(d.Sockets))
		}
		return nil
	}

	defs, err := selectWeapons(ctx, store, opts.weapons)
	if err != nil {
		return err
	}

	var sounds *audio.Engine
	if cfg.Range.Audio || cfg.Range.AudioOut != "" {
		sounds = audio.NewEngine(audio.NewBank(beep.SampleRate(parameter.AudioSampleRate)))
		preloadSounds(sounds, defs)
	}

	r, err := newRange(cfg.Range, defs, log, sounds)
	if err != nil {
		return err
	}
	defer r.Close()

	if cfg.Range.Audio {
		if err := sounds.OpenSpeaker(); err != nil {
			log.Warn().Err(err).Msg("speaker unavailable, continuing silent")
		} else {
			defer sounds.CloseSpeaker()
		}
	}

	start := time.Now()
	switch cfg.Range.View {
	case config.ViewPlot:
		if err := runTerminal(r, cfg.Range.Duration); err != nil {
			return err
		}
	default:
		steps := r.Run(cfg.Range.Duration)
		log.Debug().Int("steps", steps).Dur("wall", time.Since(start)).Msg("headless run complete")
	}

	if cfg.Range.AudioOut != "" {
		if err := writeAudio(r, cfg.Range.AudioOut); err != nil {
			return err
		}
		log.Info().Str("file", cfg.Range.AudioOut).Msg("sound mix written")
	}

	printSummary(stdout, r)
	return nil
}

// selectWeapons loads the named definitions from the catalog, or all of them
func selectWeapons(ctx context.Context, store *catalog.Store, names string) ([]config.Definition, error) {
	if strings.TrimSpace(names) == "" {
		defs, err := store.List(ctx, "")
		if err != nil {
			return nil, err
		}
		if len(defs) == 0 {
			return nil, fmt.Errorf("catalog is empty, configure weapons first")
		}
		return defs, nil
	}
	var defs []config.Definition
	for _, n := range strings.Split(names, ",") {
		d, err := store.Get(ctx, strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("weapon %q: %w", n, err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func preloadSounds(e *audio.Engine, defs []config.Definition) {
	for _, d := range defs {
		e.Bank().Preload(d.Data.Visuals.ImpactSound, d.Data.Visuals.BounceSound)
		for _, o := range d.Overrides {
			e.Bank().Preload(o.Visuals.ImpactSound, o.Visuals.BounceSound)
		}
	}
}

func writeAudio(r *firingRange, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	if err := r.WriteAudio(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runTerminal(r *firingRange, d time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	core.SetCrashRestore(screen.Fini)
	defer core.SetCrashRestore(nil)

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	screen.Clear()
	runPlot(screen, r, d)
	return nil
}
