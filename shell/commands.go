package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/multiplication"
	"github.com/juruen/hwrt/preprocessing"
	"github.com/juruen/hwrt/render"
)

func loadCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "load",
		Help: "load recordings from a dataset, pointlist, .rm page or .db store",
		LongHelp: `Usage: load <file> [index]

Accepted files:
  *.json      list of records or a single pointlist
  *.rm        reMarkable page, one recording
  *.db        hwrt record store`,
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing file"))
				return
			}
			index, err := parseIndex(c.Args, 1)
			if err != nil {
				c.Err(err)
				return
			}
			if err := ctx.load(c.Args[0], index); err != nil {
				c.Err(err)
				return
			}
			c.SetPrompt(ctx.prompt())
			c.Printf("loaded %d record(s), selected %s\n", len(ctx.records), ctx.sample.RawDataID())
			for _, f := range ctx.skipped {
				c.Println("skipped", f.Error())
			}
		},
	}
}

func selectCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "select",
		Help: "select a loaded record by index, or the next one",
		Func: func(c *ishell.Context) {
			if ctx.sample == nil {
				c.Err(errNoSample)
				return
			}
			index := (ctx.current + 1) % len(ctx.records)
			if len(c.Args) > 0 {
				var err error
				if index, err = parseIndex(c.Args, 0); err != nil {
					c.Err(err)
					return
				}
			}
			if err := ctx.selectRecord(index); err != nil {
				c.Err(err)
				return
			}
			c.SetPrompt(ctx.prompt())
		},
	}
}

func showCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "show",
		Help: "print the current recording, --json for its pointlist",
		Func: func(c *ishell.Context) {
			if ctx.sample == nil {
				c.Err(errNoSample)
				return
			}
			if len(c.Args) > 0 && c.Args[0] == "--json" {
				out, err := json.MarshalIndent(ctx.sample, "", "  ")
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			out, err := ctx.strokes()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(ctx.sample.String())
			c.Print(out)
		},
	}
}

func bboxCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "bbox",
		Help: "print bounding box, duration, size and center of mass",
		Func: func(c *ishell.Context) {
			out, err := ctx.stats()
			if err != nil {
				c.Err(err)
				return
			}
			c.Print(out)
		},
	}
}

func pipelineCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "pipeline",
		Help: "set the pipeline from a config file or algorithm names",
		LongHelp: `Usage: pipeline [config.yml | algorithm ...]

Without arguments the current pipeline is printed. Algorithms named on the
command line use their default parameters.`,
		Completer: func([]string) []string {
			return preprocessing.Registry().Names()
		},
		Func: func(c *ishell.Context) {
			if len(c.Args) > 0 {
				if err := ctx.setPipeline(c.Args); err != nil {
					c.Err(err)
					return
				}
			}
			if len(ctx.pipeline) == 0 {
				c.Println("empty pipeline")
				return
			}
			for i, step := range ctx.steps {
				params := ""
				if len(step.Params) > 0 {
					params = fmt.Sprintf(" %v", step.Params)
				}
				c.Printf("%d. %s%s\n", i+1, step.Name, params)
			}
		},
	}
}

func applyCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "apply",
		Help: "run the pipeline on the current recording",
		Func: func(c *ishell.Context) {
			if err := ctx.apply(); err != nil {
				c.Err(err)
				return
			}
			c.Println(ctx.sample.String())
		},
	}
}

func resetCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "reset",
		Help: "discard applied preprocessing",
		Func: func(c *ishell.Context) {
			if err := ctx.reset(); err != nil {
				c.Err(err)
			}
		},
	}
}

func algorithmsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "algorithms",
		Help: "list preprocessing algorithms and multipliers",
		Func: func(c *ishell.Context) {
			c.Println("preprocessing:")
			for _, name := range preprocessing.Registry().Names() {
				c.Println("  " + name)
			}
			c.Println("multiplication:")
			for _, name := range multiplication.Registry().Names() {
				c.Println("  " + name)
			}
		},
	}
}

func renderCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "render",
		Help: "write the current recording as PNG",
		LongHelp: `Usage: render <out.png> [size]`,
		Func: func(c *ishell.Context) {
			if ctx.sample == nil {
				c.Err(errNoSample)
				return
			}
			if len(c.Args) == 0 {
				c.Err(errors.New("missing output file"))
				return
			}
			opt := render.DefaultOptions()
			if len(c.Args) > 1 {
				size, err := strconv.Atoi(c.Args[1])
				if err != nil || size <= 0 {
					c.Err(fmt.Errorf("invalid size %q", c.Args[1]))
					return
				}
				opt.Size = size
			}
			if err := writePNG(c.Args[0], ctx.sample, opt); err != nil {
				c.Err(err)
				return
			}
			c.Printf("wrote %s\n", c.Args[0])
		},
	}
}

func saveCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "save",
		Help: "write the current recording as a one record dataset",
		Func: func(c *ishell.Context) {
			if ctx.sample == nil {
				c.Err(errNoSample)
				return
			}
			if len(c.Args) == 0 || !strings.HasSuffix(c.Args[0], ".json") {
				c.Err(errors.New("missing .json output file"))
				return
			}
			f, err := os.Create(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			defer f.Close()
			if err := handwriting.WriteRecords(f, []handwriting.Record{ctx.record()}); err != nil {
				c.Err(err)
				return
			}
			c.Printf("wrote %s\n", c.Args[0])
		},
	}
}

func writePNG(path string, h *handwriting.HandwrittenData, opt render.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, render.Render(h, opt)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
