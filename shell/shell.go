// Package shell is an interactive session for trying preprocessing
// pipelines on single recordings.
package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/preprocessing"
	"github.com/juruen/hwrt/trainingset"
)

// ShellCtxt is the state shared by all commands.
type ShellCtxt struct {
	records  []handwriting.Record
	current  int
	sample   *handwriting.HandwrittenData
	steps    []config.Step
	pipeline preprocessing.Pipeline
	source   string
	skipped  []trainingset.Failure
}

func (ctx *ShellCtxt) prompt() string {
	if ctx.sample == nil {
		return "[hwrt]>"
	}
	return fmt.Sprintf("[%s %d/%d]>", filepath.Base(ctx.source), ctx.current+1, len(ctx.records))
}

// load reads records from a JSON dataset, a bare pointlist, a reMarkable
// page or a SQLite store and selects the record at index.
func (ctx *ShellCtxt) load(path string, index int) error {
	records, failed, err := trainingset.ReadRecords(context.Background(), path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s holds no records", path)
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("index %d out of range [0, %d)", index, len(records))
	}
	ctx.records = records
	ctx.source = path
	ctx.skipped = failed
	return ctx.selectRecord(index)
}

func (ctx *ShellCtxt) selectRecord(index int) error {
	if index < 0 || index >= len(ctx.records) {
		return fmt.Errorf("index %d out of range [0, %d)", index, len(ctx.records))
	}
	ctx.current = index
	ctx.sample = ctx.records[index].Handwriting.Clone()
	return nil
}

// setPipeline builds a pipeline from a config file or from algorithm names
// with default parameters.
func (ctx *ShellCtxt) setPipeline(args []string) error {
	var steps []config.Step
	if len(args) == 1 && isConfigFile(args[0]) {
		f, err := config.Load(args[0])
		if err != nil {
			return err
		}
		steps = f.Preprocessing
	} else {
		for _, name := range args {
			steps = append(steps, config.S(name, nil))
		}
	}
	p, err := preprocessing.GetPreprocessingQueue(steps)
	if err != nil {
		return err
	}
	ctx.steps = steps
	ctx.pipeline = p
	return nil
}

func isConfigFile(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yml", ".yaml", ".toml":
		return true
	}
	return false
}

func (ctx *ShellCtxt) apply() error {
	if ctx.sample == nil {
		return errNoSample
	}
	return ctx.pipeline.Apply(ctx.sample)
}

func (ctx *ShellCtxt) reset() error {
	if ctx.sample == nil {
		return errNoSample
	}
	return ctx.selectRecord(ctx.current)
}

// stats describes the extent, size and timing of the current sample.
func (ctx *ShellCtxt) stats() (string, error) {
	if ctx.sample == nil {
		return "", errNoSample
	}
	var sb strings.Builder
	b := ctx.sample.BoundingBox()
	cx, cy := ctx.sample.CenterOfMass()
	fmt.Fprintf(&sb, "x: [%g, %g]\ny: [%g, %g]\ntime: [%d, %d]\n", b.MinX, b.MaxX, b.MinY, b.MaxY, b.MinTime, b.MaxTime)
	fmt.Fprintf(&sb, "duration: %d ms\n", ctx.sample.Duration())
	fmt.Fprintf(&sb, "width: %g height: %g area: %g\n", b.Width(), b.Height(), ctx.sample.Area())
	fmt.Fprintf(&sb, "center of mass: (%g, %g)\n", cx, cy)
	fmt.Fprintf(&sb, "dots: %d\n", ctx.sample.CountSingleDots())
	return sb.String(), nil
}

// strokes lists the strokes of the current sample in drawing order.
func (ctx *ShellCtxt) strokes() (string, error) {
	if ctx.sample == nil {
		return "", errNoSample
	}
	var sb strings.Builder
	for i, stroke := range ctx.sample.SortedPointlist() {
		if len(stroke) == 0 {
			fmt.Fprintf(&sb, "  stroke %d: empty\n", i)
			continue
		}
		fmt.Fprintf(&sb, "  stroke %d: %d points from %d ms\n", i, len(stroke), stroke[0].Time)
	}
	return sb.String(), nil
}

// record returns the current sample as a record carrying the label of the
// loaded one.
func (ctx *ShellCtxt) record() handwriting.Record {
	r := ctx.records[ctx.current]
	r.Handwriting = ctx.sample.Clone()
	return r
}

var errNoSample = errors.New("no sample loaded, use load first")

func parseIndex(args []string, i int) (int, error) {
	if len(args) <= i {
		return 0, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", args[i])
	}
	return n, nil
}

func setCustomCompleter(shell *ishell.Shell) {
	cmdCompleter := make(cmdToCompleter)
	for _, cmd := range shell.Cmds() {
		cmdCompleter[cmd.Name] = cmd.Completer
	}

	completer := shellPathCompleter{cmdCompleter}
	shell.CustomCompleter(completer)
}

type cmdToCompleter map[string]func([]string) []string

type shellPathCompleter struct {
	cmdCompleter cmdToCompleter
}

func (c shellPathCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	text := string(line[:pos])
	fields := strings.Fields(text)
	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(text, " ")) {
		prefix := ""
		if len(fields) == 1 {
			prefix = fields[0]
		}
		var names []string
		for name := range c.cmdCompleter {
			names = append(names, name)
		}
		return suffixes(names, prefix), len(prefix)
	}

	completer, ok := c.cmdCompleter[fields[0]]
	if !ok || completer == nil {
		return nil, 0
	}
	prefix := ""
	if !strings.HasSuffix(text, " ") {
		prefix = fields[len(fields)-1]
	}
	return suffixes(completer(fields[1:]), prefix), len(prefix)
}

func suffixes(candidates []string, prefix string) [][]rune {
	var out [][]rune
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, []rune(c[len(prefix):]+" "))
		}
	}
	return out
}

// RunShell starts the session. With args it runs them as a single command
// and exits.
func RunShell(args []string) error {
	ctx := &ShellCtxt{}
	shell := ishell.New()
	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(loadCmd(ctx))
	shell.AddCmd(selectCmd(ctx))
	shell.AddCmd(showCmd(ctx))
	shell.AddCmd(bboxCmd(ctx))
	shell.AddCmd(pipelineCmd(ctx))
	shell.AddCmd(applyCmd(ctx))
	shell.AddCmd(resetCmd(ctx))
	shell.AddCmd(algorithmsCmd(ctx))
	shell.AddCmd(renderCmd(ctx))
	shell.AddCmd(saveCmd(ctx))

	setCustomCompleter(shell)

	if len(args) > 0 {
		return shell.Process(args...)
	}
	shell.Printf("hwrt shell, %d preprocessing algorithms available\n", len(preprocessing.Registry().Names()))
	shell.Run()
	return nil
}
