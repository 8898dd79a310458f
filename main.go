package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const afterHelp = `Default output file: oklch(l c h).png or oklch(l c h ∕ a).png (L normalized to 0..1).
Negative hues must follow "--", e.g. oklch-pixel -- 0.7 0.1 -30.`

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		fmt.Fprintln(os.Stderr, "Run with --help for usage.")
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		bitDepth   int
		outputFile string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "oklch-pixel L C H [A]",
		Short:         "Generate a 1x1 PNG in Display P3 from OKLCH.",
		Long:          "Generate a 1x1 PNG in Display P3 from OKLCH.\n\n" + afterHelp,
		Version:       version,
		Args:          cobra.RangeArgs(3, 4),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			SetLogger(newCLILogger(stderr, verbose))
			return run(stdout, args, bitDepth, outputFile)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.Flags().IntVar(&bitDepth, "bit-depth", 8, "Output bit depth (8 or 16)")
	root.Flags().StringVar(&outputFile, "output-file", "", `Explicit output file path ("-" for standard output)`)
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log conversion and encoding details")

	root.AddCommand(newCompletionsCmd(stdout))
	return root
}

func newCompletionsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:       "generate-completions shell",
		Short:     "Generate shell completions",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "fish", "powershell", "zsh"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			case "powershell", "power-shell":
				return root.GenPowerShellCompletionWithDesc(stdout)
			case "zsh":
				return root.GenZshCompletion(stdout)
			}
			return fmt.Errorf("unsupported shell %q (want bash, fish, powershell or zsh)", args[0])
		},
	}
}

// run converts the positional color arguments and writes the PNG.
func run(stdout io.Writer, args []string, bitDepth int, outputFile string) error {
	c, err := parseColor(args)
	if err != nil {
		return err
	}
	if bitDepth, err = parseBitDepth(bitDepth); err != nil {
		return err
	}
	if outputFile == "" {
		outputFile = defaultOutputName(c)
	}

	s, err := Convert(c)
	if err != nil {
		return err
	}
	opts := Options{BitDepth: bitDepth, IncludeAlpha: c.HasAlpha}

	if outputFile == "-" {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errors.New("refusing to write PNG data to a terminal")
		}
		if err := Encode(stdout, s, opts); err != nil {
			return fmt.Errorf("failed to write PNG: %w", err)
		}
		return nil
	}

	if err := WriteFile(outputFile, s, opts); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	Logger().Info("wrote", "path", outputFile, "bit_depth", bitDepth, "alpha", c.HasAlpha)
	return nil
}
