package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/viewmodels"
)

const (
	formatJSON = "json"
	formatText = "text"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

func writeTreeText(w io.Writer, tree *viewmodels.StaffingTree) error {
	for _, n := range tree.Nodes {
		label := n.Denomination
		if n.Acronym != "" {
			label = n.Acronym + " " + label
		}
		if _, err := fmt.Fprintf(w, "%s%s  %s  %s  %s pts\n",
			strings.Repeat("  ", n.Indent), n.Code, strings.TrimSpace(label), n.CumulativeValue, n.CumulativePts); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "total  %s  %s pts  (rejected %d)\n", tree.TotalValue, tree.TotalPoints, tree.Rejected)
	return err
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatText:
		return nil
	default:
		return withCode(exitUsage, fmt.Errorf("invalid --format %q (expected json|text)", format))
	}
}
