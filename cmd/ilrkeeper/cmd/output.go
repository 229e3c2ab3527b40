package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/solatis/ilrkeeper/internal/rules"
	"github.com/solatis/ilrkeeper/internal/validation"
)

func writeReportJSON(w io.Writer, report *rules.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeReportText(w io.Writer, report *rules.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEV\tLEARNER\tAIM\tPARAMETERS")
	for _, v := range report.Violations {
		aim := "-"
		if v.AimSequenceNumber != nil {
			aim = fmt.Sprint(*v.AimSequenceNumber)
		}
		learner := v.LearnRefNumber
		if learner == "" {
			learner = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.RuleName, v.Severity, learner, aim, formatParams(v.Parameters))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	// Counts are grouped for reading: 12,345 learners.
	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w, "\n%d learners, %d errors, %d warnings (run %s, %s)\n",
		report.Learners, report.Errors(), report.Warnings(), string(report.RunID), report.Duration.Round(time.Millisecond).String())
	return err
}

func formatParams(params []validation.ErrorMessageParameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + "=" + formatValue(p.Value)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "(null)"
	case time.Time:
		return x.Format(time.DateOnly)
	case *time.Time:
		if x == nil {
			return "(null)"
		}
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}
