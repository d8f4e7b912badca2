package output

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/pacerlabs/pacer/internal/metrics"
	"github.com/pacerlabs/pacer/internal/threshold"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt      string
	Report           metrics.PerformanceReport
	ThresholdSummary *ThresholdSummary
	StepNames        []string
}

// ThresholdSummary aggregates threshold outcomes for the report header.
type ThresholdSummary struct {
	Total   int
	Passed  int
	Failed  int
	Results []threshold.Result
}

// WriteHTML renders a standalone HTML report.
func WriteHTML(w io.Writer, report metrics.PerformanceReport, thresholdResults []threshold.Result) error {
	var summary *ThresholdSummary
	if len(thresholdResults) > 0 {
		summary = &ThresholdSummary{
			Total:   len(thresholdResults),
			Results: thresholdResults,
		}
		for _, r := range thresholdResults {
			if r.Pass {
				summary.Passed++
			} else {
				summary.Failed++
			}
		}
	}

	// Step names sorted by transaction count, busiest first.
	stepNames := make([]string, 0, len(report.Steps))
	for name := range report.Steps {
		stepNames = append(stepNames, name)
	}
	sort.Slice(stepNames, func(i, j int) bool {
		a, b := report.Steps[stepNames[i]], report.Steps[stepNames[j]]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return stepNames[i] < stepNames[j]
	})

	data := HTMLReportData{
		GeneratedAt:      time.Now().Format(time.RFC3339),
		Report:           report,
		ThresholdSummary: summary,
		StepNames:        stepNames,
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
		"formatPercent": func(part, total int) string {
			if total == 0 {
				return "0.0"
			}
			return fmt.Sprintf("%.1f", (float64(part)/float64(total))*100)
		},
		"formatTime": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Pacer Performance Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 {
            font-size: 2rem;
            margin-bottom: 10px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #667eea;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value {
            font-size: 2rem;
            font-weight: bold;
            color: #2c3e50;
        }
        .card .subvalue {
            font-size: 0.85rem;
            color: #6c757d;
            margin-top: 5px;
        }
        .card.success {
            border-left-color: #10b981;
        }
        .card.error {
            border-left-color: #ef4444;
        }
        .section {
            margin-bottom: 40px;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
        }
        th, td {
            text-align: left;
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        tr:hover {
            background: #f8f9fa;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85rem;
            font-weight: 600;
        }
        .badge-success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge-error {
            background: #fee2e2;
            color: #991b1b;
        }
        .latency-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(130px, 1fr));
            gap: 15px;
            margin-top: 20px;
        }
        .latency-item {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 6px;
            text-align: center;
        }
        .latency-item .label {
            font-size: 0.85rem;
            color: #6c757d;
            margin-bottom: 5px;
        }
        .latency-item .value {
            font-size: 1.3rem;
            font-weight: bold;
            color: #2c3e50;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Pacer Performance Report: {{.Report.TestName}}</h1>
            <div class="meta">Run {{.Report.RunID}}</div>
            <div class="meta">Started: {{formatTime .Report.StartTime}} | Finished: {{formatTime .Report.EndTime}} | Generated: {{.GeneratedAt}}</div>
        </header>

        <div class="content">
            <!-- Summary Cards -->
            <div class="grid">
                <div class="card">
                    <h3>Total Transactions</h3>
                    <div class="value">{{.Report.TotalTransactions}}</div>
                </div>
                <div class="card success">
                    <h3>Passed</h3>
                    <div class="value">{{.Report.PassedTransactions}}</div>
                    <div class="subvalue">{{formatPercent .Report.PassedTransactions .Report.TotalTransactions}}%</div>
                </div>
                <div class="card error">
                    <h3>Failed</h3>
                    <div class="value">{{.Report.FailedTransactions}}</div>
                    <div class="subvalue">{{formatFloat .Report.ErrorRate}}% error rate</div>
                </div>
                <div class="card">
                    <h3>Throughput</h3>
                    <div class="value">{{formatFloat .Report.Throughput}}</div>
                    <div class="subvalue">ops/sec</div>
                </div>
            </div>

            <!-- Duration Statistics -->
            <div class="section">
                <h2>Transaction Duration (ms)</h2>
                <div class="latency-grid">
                    <div class="latency-item">
                        <div class="label">Min</div>
                        <div class="value">{{.Report.Duration.Min}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">Max</div>
                        <div class="value">{{.Report.Duration.Max}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">Avg</div>
                        <div class="value">{{.Report.Duration.Avg}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">p50</div>
                        <div class="value">{{.Report.Duration.P50}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">p90</div>
                        <div class="value">{{.Report.Duration.P90}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">p95</div>
                        <div class="value">{{.Report.Duration.P95}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">p99</div>
                        <div class="value">{{.Report.Duration.P99}}</div>
                    </div>
                </div>
            </div>

            <!-- Thresholds -->
            {{if .ThresholdSummary}}
            <div class="section">
                <h2>Thresholds ({{.ThresholdSummary.Passed}}/{{.ThresholdSummary.Total}} Passed)</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Threshold</th>
                            <th>Metric</th>
                            <th>Expected</th>
                            <th>Actual</th>
                            <th>Status</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .ThresholdSummary.Results}}
                        <tr>
                            <td>{{.Threshold.Raw}}</td>
                            <td>{{.Threshold.Metric}} ({{.Threshold.Aggregate}})</td>
                            <td>{{.Threshold.Operator}} {{formatFloat .Threshold.Value}}</td>
                            <td>{{formatFloat .Actual}}</td>
                            <td>
                                {{if .Pass}}
                                <span class="badge badge-success">&#10003; PASS</span>
                                {{else}}
                                <span class="badge badge-error">&#10007; FAIL</span>
                                {{end}}
                            </td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            <!-- Step Breakdown -->
            {{if .StepNames}}
            <div class="section">
                <h2>Step Breakdown</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Step</th>
                            <th>Total</th>
                            <th>Passed</th>
                            <th>Failed</th>
                            <th>Avg (ms)</th>
                            <th>p95 (ms)</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .StepNames}}
                        {{$s := index $.Report.Steps .}}
                        <tr>
                            <td><strong>{{.}}</strong></td>
                            <td>{{$s.Total}} ({{formatPercent $s.Total $.Report.TotalTransactions}}%)</td>
                            <td>{{$s.Passed}}</td>
                            <td>{{$s.Failed}}</td>
                            <td>{{$s.AvgMs}}</td>
                            <td>{{$s.P95Ms}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>
</body>
</html>
`
