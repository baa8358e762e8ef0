// Package main plays a formula slide's animation timeline in the terminal.
// It evaluates the slide with the given inputs, then redraws the element's
// position after every step. Ctrl-C resets the animation and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/phrazzld/kinetic-api/internal/animation"
	"github.com/phrazzld/kinetic-api/internal/config"
	"github.com/phrazzld/kinetic-api/internal/deck"
	"github.com/phrazzld/kinetic-api/internal/platform/logger"
	"github.com/phrazzld/kinetic-api/internal/service"
)

// trackWidth is the number of terminal cells one side of the track spans.
const trackWidth = 30

// inputFlags collects repeated -input name=value flags.
type inputFlags map[string]float64

func (f inputFlags) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, f[k])
	}
	return strings.Join(parts, ",")
}

func (f inputFlags) Set(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("input %q is not name=value", s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("input %s: %w", name, err)
	}
	f[name] = v
	return nil
}

func main() {
	inputs := inputFlags{}
	deckPath := flag.String("deck", "", "YAML deck to load (default: embedded physics deck)")
	slideID := flag.String("slide", "", "formula slide to play")
	logLevel := flag.String("log-level", "warn", "log level (debug|info|warn|error)")
	flag.Var(inputs, "input", "formula input as name=value; may be repeated")
	flag.Parse()

	l, err := logger.Setup(config.ServerConfig{LogLevel: *logLevel})
	if err != nil {
		log.Fatalf("playback: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, *deckPath, *slideID, inputs, l); err != nil {
		l.Error("playback failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	out io.Writer,
	deckPath, slideID string,
	inputs map[string]float64,
	l *slog.Logger,
) error {
	if slideID == "" {
		return errors.New("-slide is required")
	}

	catalog, err := loadDeck(deckPath)
	if err != nil {
		return err
	}

	formulas, err := service.NewFormulaService(catalog, animation.DefaultSpring())
	if err != nil {
		return err
	}

	res, err := formulas.Evaluate(ctx, slideID, inputs)
	if err != nil {
		return err
	}
	slide, err := catalog.Slide(slideID)
	if err != nil {
		return err
	}
	trackLength := slide.Formula.Visual.TrackLength

	fmt.Fprintf(out, "%s  %s = %.4g %s\n", res.Formula.Expression, res.Formula.Name, res.Reading.Result, res.Reading.Unit)
	fmt.Fprintf(out, "offset %.1f of %.1f over %s\n", res.Offset, trackLength, res.Timeline.Total())

	done := make(chan struct{})
	player := animation.NewPlayer(nil)
	player.Play(res.Timeline, func(ev animation.StepEvent) {
		fmt.Fprintf(out, "%-10s %s\n", ev.Step.Name, renderTrack(ev.Position, trackLength, trackWidth))
	}, func() {
		close(done)
	})

	select {
	case <-done:
		l.Debug("animation finished", slog.String("slide_id", slideID))
		fmt.Fprintf(out, "%-10s %s\n", "settled", renderTrack(res.Frames[len(res.Frames)-1], trackLength, trackWidth))
		return nil
	case <-ctx.Done():
		player.Reset()
		fmt.Fprintf(out, "%-10s %s\n", "reset", renderTrack(player.Snapshot().Position, trackLength, trackWidth))
		return nil
	}
}

func loadDeck(path string) (*deck.Registry, error) {
	if path == "" {
		return deck.Default()
	}
	return deck.LoadFile(path)
}

// renderTrack draws the element at position on a track centred on zero
// that extends trackLength in each direction.
func renderTrack(position, trackLength float64, width int) string {
	cells := []rune(strings.Repeat("-", 2*width+1))
	cells[width] = '|'

	idx := width
	if trackLength > 0 {
		ratio := math.Max(-1, math.Min(1, position/trackLength))
		idx = width + int(math.Round(ratio*float64(width)))
	}
	cells[idx] = 'o'

	return fmt.Sprintf("[%s] %7.1f", string(cells), position)
}
