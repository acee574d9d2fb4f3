package journal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"
)

// PrintRun writes the end-of-horizon summary of a run.
func PrintRun(w io.Writer, r RunRecord) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Stop-Loss Simulation")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Source:        %s\n", r.Source)
	if r.StressEnabled {
		fmt.Fprintf(w, "Seed:          %d\n", r.Seed)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	if !r.Start.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.DateOnly))
		fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.DateOnly))
	}
	fmt.Fprintf(w, "Days:          %d\n", r.Steps)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parameters")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Protected:     %.0f%% of peak\n", r.ProtectedFraction*100)
	fmt.Fprintf(w, "Tax Rate:      %.1f%%\n", r.TaxRate*100)
	fmt.Fprintf(w, "Switch Cost:   %.2f%%\n", r.TransactionCost*100)
	fmt.Fprintf(w, "Mgmt Fee:      %.2f%% / year (safe asset)\n", r.AnnualManagementFee*100)
	fmt.Fprintf(w, "Inflation:     %.2f%% / year\n", r.DailyInflation*252*100)
	fmt.Fprintf(w, "Lock-in:       %d days\n", r.LockInDays)
	fmt.Fprintf(w, "Latency:       %d days\n", r.BehavioralLatencyDays)
	fmt.Fprintf(w, "Stress:        %t\n", r.StressEnabled)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Results")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Final Gross:   %.3f\n", r.FinalGross)
	fmt.Fprintf(w, "Final Net:     %.3f\n", r.FinalNet)
	fmt.Fprintf(w, "Final Floor:   %.3f\n", r.FinalFloor)
	fmt.Fprintf(w, "Gross Gain:    %.3f\n", r.GrossGain)
	fmt.Fprintf(w, "Tax Paid:      %.3f\n", r.TaxPaid)
	fmt.Fprintf(w, "Net vs Floor:  %.3f\n", r.NetSurplus)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Switches:      %d\n", r.Switches)
	fmt.Fprintf(w, "Days in Safe:  %d\n", r.DaysInSafe)
	if r.StressEnabled {
		fmt.Fprintf(w, "Shocks:        %d\n", r.Shocks)
	}

	fmt.Fprintln(w)
}

var runOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"annual": func(x float64) float64 { return x * 252 * 100.0 },
	"day": func(t time.Time) string {
		if t.IsZero() {
			return "(n/a)"
		}
		return t.Format("2006-01-02")
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTemplate = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// FormatRunOrg renders a run as an Org-mode entry.
func FormatRunOrg(r RunRecord) (string, error) {
	buf := new(bytes.Buffer)
	if err := runOrgTemplate.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteRunOrg writes the Org-mode entry of a run to path.
func WriteRunOrg(path string, r RunRecord) error {
	s, err := FormatRunOrg(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const RunOrgTemplate = `* STOP-LOSS: {{.Source}} {{printf "%.0f" (mul100 .ProtectedFraction)}}% floor
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:SOURCE:      {{.Source}}
:START_DATE:  {{day .Start}}
:END_DATE:    {{day .End}}
:DAYS:        {{.Steps}}
:FINAL_GROSS: {{printf "%.3f" .FinalGross}}
:FINAL_NET:   {{printf "%.3f" .FinalNet}}
:FINAL_FLOOR: {{printf "%.3f" .FinalFloor}}
:SWITCHES:    {{.Switches}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Parameters
| Parameter            | Value |
|----------------------+-------|
| Protected fraction % | {{printf "%.1f" (mul100 .ProtectedFraction)}} |
| Tax rate %           | {{printf "%.1f" (mul100 .TaxRate)}} |
| Transaction cost %   | {{printf "%.2f" (mul100 .TransactionCost)}} |
| Management fee %/yr  | {{printf "%.2f" (mul100 .AnnualManagementFee)}} |
| Inflation %/yr       | {{printf "%.2f" (annual .DailyInflation)}} |
| Lock-in (days)       | {{.LockInDays}} |
| Latency (days)       | {{.BehavioralLatencyDays}} |
| Stress shocks        | {{.StressEnabled}} |

** Results
- Final gross value:     *{{printf "%.3f" .FinalGross}}*
- Final net after tax:   *{{printf "%.3f" .FinalNet}}*
- Final floor:           *{{printf "%.3f" .FinalFloor}}*
- Gross gain:            *{{printf "%.3f" .GrossGain}}*
- Tax paid:              *{{printf "%.3f" .TaxPaid}}*
- Net surplus vs floor:  *{{printf "%.3f" .NetSurplus}}*
- Days in safe asset:    {{.DaysInSafe}}
{{- if .StressEnabled }}
- Stress shocks:         {{.Shocks}} (seed {{.Seed}})
{{- end }}
`
