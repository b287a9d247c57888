package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/label-verify/internal/verify"
)

// checkOptions are the flags of the check subcommand.
type checkOptions struct {
	textFile string
	declared verify.DeclaredFields
	jsonOut  bool
	parallel int
}

// labelReport pairs a result with the label it came from.
type labelReport struct {
	Source string `json:"source"`
	*verify.Result
}

func newCheckCmd(opts *globalOptions) *cobra.Command {
	co := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [IMAGE...]",
		Short: "Check label photos or extracted text against declared fields",
		Long: `Check one or more label photos (PNG, JPG or JPEG) against the declared
fields, or check text that was already extracted with --text-file.

Every label gets five checks: brand name, product class/type, alcohol
content (ABV), net contents and the government warning statement.

Examples:
  label-verify check label.jpg --brand "Old Tom Distillery" \
      --class "Kentucky Straight Bourbon Whiskey" --abv 45 --net "750 mL"

  # Several photos of the same product, checked concurrently
  label-verify check front.jpg back.jpg --brand "Old Tom Distillery"

  # Text from another OCR tool; "-" reads stdin
  label-verify check --text-file label.txt --brand "Old Tom Distillery"

Exit status:
  0  every label verified
  1  at least one label failed a check or could not be read
  2  usage or configuration error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && co.textFile == "" {
				return errors.New("provide at least one IMAGE or --text-file")
			}
			if len(args) > 0 && co.textFile != "" {
				return errors.New("IMAGE arguments and --text-file are mutually exclusive")
			}

			a, err := opts.setup(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			var reports []labelReport
			if co.textFile != "" {
				text, err := readTextFile(cmd.InOrStdin(), co.textFile)
				if err != nil {
					return err
				}
				reports = []labelReport{{Source: co.textFile, Result: a.svc.CheckText(co.declared, text)}}
			} else {
				reports, err = checkImages(cmd, a, args, co)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if co.jsonOut {
				if err := writeJSON(out, reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					printReport(out, r)
				}
			}

			for _, r := range reports {
				if !r.Passed() {
					return errLabelFailed
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&co.textFile, "text-file", "", "Check text from this file instead of a photo (\"-\" for stdin)")
	f.StringVar(&co.declared.BrandName, "brand", "", "Declared brand name")
	f.StringVar(&co.declared.ProductClass, "class", "", "Declared product class/type")
	f.StringVar(&co.declared.AlcoholContent, "abv", "", "Declared alcohol content, e.g. 45 or \"45% ABV\"")
	f.StringVar(&co.declared.NetContents, "net", "", "Declared net contents, e.g. \"750 mL\"")
	f.BoolVar(&co.jsonOut, "json", false, "Print one JSON object per label instead of a checklist")
	f.IntVar(&co.parallel, "parallel", runtime.NumCPU(), "Maximum labels read at once")
	return cmd
}

// checkImages reads and verifies every image, at most co.parallel at a time.
// Reports keep the order of paths.
func checkImages(cmd *cobra.Command, a *app, paths []string, co *checkOptions) ([]labelReport, error) {
	reports := make([]labelReport, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	if co.parallel > 0 {
		g.SetLimit(co.parallel)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = labelReport{Source: path, Result: a.svc.CheckFile(ctx, path, co.declared)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func readTextFile(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(b), nil
}

func writeJSON(w io.Writer, reports []labelReport) error {
	enc := json.NewEncoder(w)
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}
	return nil
}

func printReport(w io.Writer, r labelReport) {
	bold := color.New(color.Bold)
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	bold.Fprintln(w, r.Source)
	if r.Error != nil {
		fail.Fprintf(w, "  ✗ %s\n", *r.Error)
	}
	for _, c := range r.Checks {
		if c.Matched {
			pass.Fprintf(w, "  ✓ %-22s %s\n", c.Field, c.Message)
		} else {
			fail.Fprintf(w, "  ✗ %-22s %s\n", c.Field, c.Message)
		}
	}
	if r.Passed() {
		pass.Add(color.Bold).Fprintln(w, "  PASS")
	} else {
		fail.Add(color.Bold).Fprintln(w, "  FAIL")
	}
	fmt.Fprintln(w)
}
