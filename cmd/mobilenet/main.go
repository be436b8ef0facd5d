// Package main provides the mobilenet CLI: inspect and run width-scaled
// inverted-residual classifiers.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/born-ml/mobilenet/backend/cpu"
	"github.com/born-ml/mobilenet/mobilenet"
	"github.com/born-ml/mobilenet/tensor"
)

const version = "v0.1.0-dev"

var errUsage = errors.New("usage")

type options struct {
	classes int
	width   float64
	round   int
	config  string
	batch   int
	size    int
	seed    uint64

	explicit map[string]bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("mobilenet: ")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "version":
		fmt.Fprintf(out, "mobilenet %s\n", version)
		return nil
	case "help", "-h", "--help":
		usage(out)
		return nil
	case "summary", "plan", "infer":
	default:
		usage(out)
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}

	opts, err := parseFlags(cmd, rest, out)
	if err != nil {
		return err
	}
	cfg, err := opts.networkConfig()
	if err != nil {
		return err
	}

	switch cmd {
	case "plan":
		return printPlan(cfg, out)
	case "summary":
		return printSummary(cfg, out)
	default:
		return infer(cfg, opts, out)
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: mobilenet <command> [flags]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  summary    Build the network and print its layer table")
	fmt.Fprintln(out, "  plan       Print the resolved block plan")
	fmt.Fprintln(out, "  infer      Run a forward pass on a random batch")
	fmt.Fprintln(out, "  version    Show version")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Run 'mobilenet <command> -h' for flags.")
}

func parseFlags(cmd string, args []string, out io.Writer) (options, error) {
	def := mobilenet.DefaultConfig()
	var opts options

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.IntVar(&opts.classes, "classes", def.NumClasses, "number of output classes")
	fs.Float64Var(&opts.width, "width", def.WidthMultiplier, "width multiplier")
	fs.IntVar(&opts.round, "round", def.RoundTo, "channel rounding granularity")
	fs.StringVar(&opts.config, "config", "", "JSON config file (flags set explicitly override it)")
	fs.IntVar(&opts.batch, "batch", 1, "batch size for infer")
	fs.IntVar(&opts.size, "size", 224, "input height and width for infer")
	fs.Uint64Var(&opts.seed, "seed", def.Seed, "seed for weights and the input batch")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errUsage
		}
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments %v: %w", fs.Args(), errUsage)
	}

	opts.explicit = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opts.explicit[f.Name] = true })

	if opts.batch <= 0 || opts.size <= 0 {
		return opts, fmt.Errorf("batch and size must be positive: %w", errUsage)
	}
	return opts, nil
}

// networkConfig merges the config file, if any, with explicitly set flags.
func (o options) networkConfig() (mobilenet.Config, error) {
	cfg := mobilenet.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = mobilenet.LoadConfig(o.config); err != nil {
			return cfg, err
		}
	}

	if o.config == "" || o.explicit["classes"] {
		cfg.NumClasses = o.classes
	}
	if o.config == "" || o.explicit["width"] {
		cfg.WidthMultiplier = o.width
	}
	if o.config == "" || o.explicit["round"] {
		cfg.RoundTo = o.round
	}
	if o.config == "" || o.explicit["seed"] {
		cfg.Seed = o.seed
	}
	return cfg, cfg.Validate()
}

func printPlan(cfg mobilenet.Config, out io.Writer) error {
	plan, err := cfg.Plan()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "stem: %d -> %d, stride 2\n", plan.InputChannels, plan.StemChannels)
	for i, stage := range plan.Stages {
		s := stage.Spec
		fmt.Fprintf(out, "stage %d (t=%d c=%d n=%d s=%d) -> %d channels\n",
			i, s.Expansion, s.Channels, s.Repeats, s.Stride, stage.OutChannels)
		for _, b := range stage.Blocks {
			fmt.Fprintf(out, "  block %3d -> %3d  stride %d  hidden %4d  shortcut %v\n",
				b.InChannels, b.OutChannels, b.Stride, b.HiddenChannels(), b.UsesShortcut())
		}
	}
	fmt.Fprintf(out, "head: %d -> %d\n", plan.LastChannels(), plan.HeadChannels)
	fmt.Fprintf(out, "classifier: %d -> %d\n", plan.HeadChannels, plan.NumClasses)
	fmt.Fprintf(out, "blocks: %d, shortcuts: %d, output stride: %d\n",
		plan.NumBlocks(), plan.NumShortcuts(), plan.OutputStride())
	return nil
}

func printSummary(cfg mobilenet.Config, out io.Writer) error {
	net, err := mobilenet.New(cfg, cpu.New())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, net)
	return nil
}

func infer(cfg mobilenet.Config, opts options, out io.Writer) error {
	backend := cpu.New()

	start := time.Now()
	net, err := mobilenet.New(cfg, backend)
	if err != nil {
		return err
	}
	log.Printf("built network with %d parameters in %v", net.NumParameters(), time.Since(start).Round(time.Millisecond))

	shape := tensor.Shape{opts.batch, cfg.InputChannels, opts.size, opts.size}
	images := tensor.Randn[float32](shape, cfg.Seed+1, backend)

	start = time.Now()
	logits := net.Forward(images)
	log.Printf("forward %v in %v", shape, time.Since(start).Round(time.Millisecond))

	fmt.Fprintf(out, "output shape: %v\n", logits.Shape())
	for n, class := range argmax(logits.Data(), cfg.NumClasses) {
		fmt.Fprintf(out, "image %d: class %d\n", n, class)
	}
	return nil
}

// argmax returns the index of the largest value in each row of width classes.
func argmax(data []float32, classes int) []int {
	rows := len(data) / classes
	best := make([]int, rows)
	for r := 0; r < rows; r++ {
		row := data[r*classes : (r+1)*classes]
		for c, v := range row {
			if v > row[best[r]] {
				best[r] = c
			}
		}
	}
	return best
}
