package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/extractor"
	"github.com/giygas/medibot-api/knowledge"
)

// runWithApp resolves the App and a timeout-bound context for a one-shot command
func runWithApp(fn func(ctx context.Context, cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), app.Timeout)
		defer cancel()
		return fn(ctx, cmd, app, args)
	}
}

func newExtractCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Extract drugs, dosages and frequencies from prescription text",
		Long:  "Extract reads the prescription from the arguments, from --file, or from stdin.",
		RunE: runWithApp(func(ctx context.Context, cmd *cobra.Command, app *App, args []string) error {
			text, err := prescriptionText(cmd, file, args)
			if err != nil {
				return err
			}
			if err := app.Validator.ValidatePrescriptionText(text); err != nil {
				return err
			}

			records := app.Extractor.Extract(ctx, text)
			plain := extractor.PlainText(records)
			if len(records) == 0 {
				plain = "No medications found"
			}
			return printResult(cmd, app, records, plain)
		}),
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", `read the prescription from a file ("-" for stdin)`)
	return cmd
}

func prescriptionText(cmd *cobra.Command, file string, args []string) (string, error) {
	switch {
	case len(args) > 0 && file != "":
		return "", fmt.Errorf("give the prescription as arguments or with --file, not both")
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file != "" && file != "-":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read prescription: %w", err)
		}
		return string(b), nil
	}

	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read prescription from stdin: %w", err)
	}
	return string(b), nil
}

func newDosageCmd() *cobra.Command {
	var age int

	cmd := &cobra.Command{
		Use:   "dosage <drug>",
		Short: "Show the dosage of a drug for an age",
		Args:  cobra.MinimumNArgs(1),
		RunE: runWithApp(func(ctx context.Context, cmd *cobra.Command, app *App, args []string) error {
			drug := strings.Join(args, " ")
			if err := app.Validator.ValidateDrugName(drug); err != nil {
				return err
			}
			if err := app.Validator.ValidateAge(age); err != nil {
				return err
			}

			dosage := app.Resolver.ResolveDosage(ctx, drug, age)
			return printResult(cmd, app, map[string]string{"dosage": dosage}, dosage)
		}),
	}

	cmd.Flags().IntVar(&age, "age", 30, "patient age in years")
	return cmd
}

func newAlternativesCmd() *cobra.Command {
	var withInteractions bool

	cmd := &cobra.Command{
		Use:   "alternatives <drug>",
		Short: "Suggest alternatives to a drug",
		Args:  cobra.MinimumNArgs(1),
		RunE: runWithApp(func(ctx context.Context, cmd *cobra.Command, app *App, args []string) error {
			drug := strings.Join(args, " ")
			if err := app.Validator.ValidateDrugName(drug); err != nil {
				return err
			}

			if withInteractions {
				both := app.Resolver.ResolveAlternativesAndInteractions(ctx, drug)
				text := "Alternatives:\n" + bulletList(both.Alternatives) + "\nInteractions:\n" + bulletList(both.Interactions)
				return printResult(cmd, app, both, text)
			}

			alternatives := app.Resolver.ResolveAlternatives(ctx, drug)
			return printResult(cmd, app, map[string][]string{"alternatives": alternatives}, bulletList(alternatives))
		}),
	}

	cmd.Flags().BoolVar(&withInteractions, "with-interactions", false, "also list interactions, from a single lookup")
	return cmd
}

func newInteractionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactions <drug> [drug...]",
		Short: "Check interactions among drugs",
		Args:  cobra.MinimumNArgs(1),
		RunE: runWithApp(func(ctx context.Context, cmd *cobra.Command, app *App, args []string) error {
			if err := app.Validator.ValidateDrugList(args); err != nil {
				return err
			}

			result := app.Resolver.ResolveInteractions(ctx, args)
			return printResult(cmd, app, map[string]entities.InteractionResult{"interactions": result}, interactionText(result))
		}),
	}
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <drug>",
		Short: "Show the knowledge base entry of a drug",
		Args:  cobra.MinimumNArgs(1),
		RunE: runWithApp(func(ctx context.Context, cmd *cobra.Command, app *App, args []string) error {
			drug := strings.Join(args, " ")
			if err := app.Validator.ValidateDrugName(drug); err != nil {
				return err
			}

			entry, ok := app.KB.Lookup(knowledge.Normalize(drug))
			if !ok {
				return fmt.Errorf("%q is not in the knowledge base", drug)
			}
			return printResult(cmd, app, entry, entryText(entry))
		}),
	}
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

func interactionText(result entities.InteractionResult) string {
	if len(result) == 0 {
		return "No drugs to check"
	}

	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	blocks := make([]string, 0, len(keys))
	for _, k := range keys {
		blocks = append(blocks, k+":\n"+bulletList(result[k]))
	}
	return strings.Join(blocks, "\n\n")
}

func entryText(e entities.KnowledgeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", e.CanonicalName)
	for _, band := range []entities.AgeBand{entities.BandAdult, entities.BandChild} {
		if d, ok := e.DosageByBand[band]; ok {
			fmt.Fprintf(&b, "Dosage (%s): %s\n", band, d)
		}
	}
	fmt.Fprintf(&b, "Alternatives: %s\n", strings.Join(e.Alternatives, ", "))
	fmt.Fprintf(&b, "Interactions: %s\n", strings.Join(e.Interactions, ", "))
	fmt.Fprintf(&b, "Uses: %s", strings.Join(e.Uses, ", "))
	return b.String()
}
