// Command dmgcore runs the DMG emulator core against a ROM file, either
// interactively (terminal or SDL2 window) or headlessly for batch/test
// runs.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/tnystrom/dmgcore/internal/backend"
	"github.com/tnystrom/dmgcore/internal/backend/headless"
	"github.com/tnystrom/dmgcore/internal/backend/sdl2"
	"github.com/tnystrom/dmgcore/internal/backend/terminal"
	"github.com/tnystrom/dmgcore/internal/input"
	"github.com/tnystrom/dmgcore/internal/machine"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Description = "A Game Boy (DMG) emulator core"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "headless", Usage: "run without a graphical interface"},
		cli.BoolFlag{Name: "terminal", Usage: "run with the terminal (tcell) backend instead of SDL2"},
		cli.IntFlag{Name: "frames", Usage: "number of frames to run in headless mode (0 = no limit; only a breakpoint stops it)"},
		cli.StringFlag{Name: "snapshot-dir", Usage: "directory for periodic headless PNG snapshots"},
		cli.IntFlag{Name: "snapshot-interval", Usage: "save a snapshot every N frames in headless mode"},
		cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn, or error"},
		cli.StringSliceFlag{Name: "breakpoint", Usage: "PC address (hex) to stop execution at; may be repeated"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with an error", "error", err)
		os.Exit(exitCodeFor(err))
	}
}

type exitCoder interface{ ExitCode() int }

func exitCodeFor(err error) int {
	var ec exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

type usageError struct{ msg string }

func (e *usageError) Error() string  { return e.msg }
func (e *usageError) ExitCode() int { return 2 }

func run(c *cli.Context) error {
	if err := configureLogging(c.String("log-level")); err != nil {
		return err
	}

	romPath := c.Args().First()
	if romPath == "" {
		cli.ShowAppHelp(c)
		return &usageError{"no ROM path provided"}
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	m := machine.New(slog.Default())
	if err := m.LoadROM(data); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	for _, hexAddr := range c.StringSlice("breakpoint") {
		addr, err := strconv.ParseUint(strings.TrimPrefix(hexAddr, "0x"), 16, 16)
		if err != nil {
			return &usageError{fmt.Sprintf("invalid breakpoint address %q", hexAddr)}
		}
		m.Breakpoints[uint16(addr)] = true
	}

	if c.Bool("headless") {
		return runHeadless(c, m, romPath)
	}
	return runInteractive(c, m)
}

func configureLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return &usageError{fmt.Sprintf("invalid log level %q", level)}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func runHeadless(c *cli.Context, m *machine.Machine, romPath string) error {
	frames := c.Int("frames")
	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))

	snap := headless.SnapshotConfig{
		Enabled:   c.Int("snapshot-interval") > 0,
		Interval:  c.Int("snapshot-interval"),
		Directory: c.String("snapshot-dir"),
		ROMName:   romName,
	}
	if snap.Enabled && snap.Directory == "" {
		dir, err := os.MkdirTemp("", "dmgcore-snapshots-*")
		if err != nil {
			return fmt.Errorf("creating snapshot dir: %w", err)
		}
		snap.Directory = dir
	}

	b := headless.New(snap)
	if err := b.Init(backend.Config{Title: romName}); err != nil {
		return err
	}
	defer b.Close()

	for i := 0; frames == 0 || i < frames; i++ {
		if hit := m.RunFrame(); hit {
			slog.Info("stopped at breakpoint", "pc", fmt.Sprintf("%04X", m.CPU.PC))
			break
		}
		if _, err := b.Update(m.PPU.Framebuffer[:]); err != nil {
			return err
		}
	}
	return nil
}

func runInteractive(c *cli.Context, m *machine.Machine) error {
	var be backend.Backend
	if c.Bool("terminal") {
		be = terminal.New()
	} else {
		be = sdl2.New(m.Bus.Audio().Ring())
	}

	if err := be.Init(backend.Config{Title: "dmgcore", Scale: 4}); err != nil {
		return err
	}
	defer be.Close()

	mgr := input.NewManager(m.Bus)
	quit := false
	mgr.On(input.EmulatorQuit, input.Press, func() { quit = true })

	for !quit {
		if hit := m.RunFrame(); hit {
			slog.Info("stopped at breakpoint", "pc", fmt.Sprintf("%04X", m.CPU.PC))
			break
		}
		events, err := be.Update(m.PPU.Framebuffer[:])
		if err != nil {
			return err
		}
		for _, e := range events {
			mgr.Trigger(e.Action, e.Event)
		}
	}
	return nil
}
