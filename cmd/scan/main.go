package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/Abraxas-365/resumescan/recruitment/screening/screeningsrv"
	"github.com/urfave/cli/v3"
)

var (
	name    = "scan"
	version = "v0.0.1-default"
)

type options struct {
	resume      string
	coverLetter string
	roles       []string
	modelPath   string
	asJSON      bool
}

func main() {
	logx.Configure("warn", "console")

	cmd := &cli.Command{
		Name:    name,
		Version: version,
		Usage:   "Screen a resume against one or more roles without running the server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "resume",
				Aliases:  []string{"r"},
				Usage:    "Path to the resume (.docx or .pdf)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "cover-letter",
				Aliases: []string{"c"},
				Usage:   "Path to the cover letter (optional, any text encoding, .docx or .pdf)",
			},
			&cli.StringSliceFlag{
				Name:     "role",
				Usage:    "Role to screen for, repeat for several roles",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "model",
				Usage:   "Path to a suitability model YAML (optional, rules are used without it)",
				Sources: cli.EnvVars("MODEL_PATH"),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full result as JSON",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Prints verbose logs",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				logx.Configure("debug", "console")
			}
			return run(ctx, options{
				resume:      cmd.String("resume"),
				coverLetter: cmd.String("cover-letter"),
				roles:       cmd.StringSlice("role"),
				modelPath:   cmd.String("model"),
				asJSON:      cmd.Bool("json"),
			}, os.Stdout)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, w io.Writer) error {
	roles, err := screening.ParseRoles(opts.roles)
	if err != nil {
		return err
	}

	scorer, err := newScorer(opts.modelPath)
	if err != nil {
		return err
	}

	resume, err := readFile(opts.resume)
	if err != nil {
		return err
	}
	var coverLetter *screening.UploadedFile
	if opts.coverLetter != "" {
		if coverLetter, err = readFile(opts.coverLetter); err != nil {
			return err
		}
	}

	eval, err := screeningsrv.Evaluate(ctx, scorer, resume, coverLetter, roles)
	if err != nil {
		return err
	}
	logx.Debugf("Screened %s with %s", opts.resume, eval.Method)

	if opts.asJSON {
		return writeJSON(w, eval)
	}
	return writeTable(w, eval)
}

func newScorer(modelPath string) (screening.Scorer, error) {
	if modelPath == "" {
		return screening.NewScorer(screening.MethodRules, nil, nil)
	}
	model, err := screening.LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	return screening.NewScorer(screening.MethodModel, model, nil)
}

func readFile(path string) (*screening.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &screening.UploadedFile{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func writeJSON(w io.Writer, eval *screeningsrv.Evaluation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"fields":       eval.Profile.Fields,
		"cover_letter": eval.Profile.CoverLetter,
		"method":       eval.Method,
		"results":      eval.Results,
	})
}

func writeTable(w io.Writer, eval *screeningsrv.Evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, f := range screening.AllFields() {
		if v := eval.Profile.Fields.Get(f); v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", f, v)
		}
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ROLE\tRESULT\tSCORE\tMETHOD")
	for _, r := range eval.Results {
		fmt.Fprintf(tw, "%s\t%s\t%.2f%%\t%s\n", r.Role, r.Label, r.Percentage, r.Method)
	}
	return tw.Flush()
}
