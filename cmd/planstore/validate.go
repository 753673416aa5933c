package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogotex/planstore/internal/plan"
	"github.com/gogotex/planstore/internal/plan/schema"
	"github.com/spf13/cobra"
)

var errInvalidPlan = errors.New("plan is invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Normalize and validate a plan document offline",
		Long: `Run a document through the same normalization and schema checks the
service applies on POST /v1/plan. Prints the canonical document and its ETag,
or the list of violations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			return validateDocument(cmd.OutOrStdout(), data)
		},
	}
}

func validateDocument(w io.Writer, data []byte) error {
	sch, err := schema.NewPlanSchema()
	if err != nil {
		return err
	}
	doc, err := plan.WritePipeline(sch).Process(data)
	if err != nil {
		var ve *plan.ValidationError
		if errors.As(err, &ve) {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(ve.Errors); encErr != nil {
				return encErr
			}
			return errInvalidPlan
		}
		return err
	}
	body, err := plan.Canonical(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\nETag: %s\n", body, plan.Fingerprint(body))
	return err
}
