package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/fixora-ai/fixora/internal/analysis"
)

// Report is everything shown in the exported PDF.
type Report struct {
	ResumeFilename string
	Purpose        string
	JobDescription string
	GeneratedAt    time.Time
	Result         analysis.Result
}

func (r Report) PurposeLabel() string {
	if r.Purpose == analysis.PurposeBeforeApplying {
		return "Before Applying"
	}
	return "After Rejection"
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("January 2, 2006, 03:04 PM") },
	"deref": func(n *int) int { return *n },
}).Parse(reportHTML))

// RenderHTML renders r as a standalone HTML document. All values are escaped.
func RenderHTML(r Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("rendering report html: %w", err)
	}
	return buf.String(), nil
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Resume Analysis Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; border-bottom: 2px solid #3b82f6; padding-bottom: 20px; margin-bottom: 30px; }
        .header h1 { color: #3b82f6; margin: 0; font-size: 2.5em; }
        .header p { color: #666; margin: 10px 0 0 0; }
        .section { margin-bottom: 30px; padding: 20px; border-radius: 8px; background: #f8fafc; border-left: 4px solid #3b82f6; }
        .section h2 { color: #1e40af; margin-top: 0; font-size: 1.5em; }
        .score-section { text-align: center; background: linear-gradient(135deg, #3b82f6, #1d4ed8); color: white; border-left: none; }
        .score-section h2 { color: white; }
        .score { font-size: 3em; font-weight: bold; margin: 10px 0; }
        .keywords { display: flex; flex-wrap: wrap; gap: 8px; margin-top: 10px; }
        .keyword { background: #ef4444; color: white; padding: 4px 12px; border-radius: 20px; font-size: 0.9em; }
        .suggestions { list-style: none; padding: 0; }
        .suggestions li { background: white; margin: 10px 0; padding: 15px; border-radius: 6px; border-left: 3px solid #10b981; }
        .rewrite-example { margin: 20px 0; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .original, .improved { padding: 15px; }
        .original { background: #fef2f2; border-left: 4px solid #ef4444; }
        .improved { background: #f0fdf4; border-left: 4px solid #10b981; }
        .original h4, .improved h4 { margin: 0 0 10px 0; font-size: 1em; }
        .original h4 { color: #dc2626; }
        .improved h4 { color: #059669; }
        .meta-info { background: #f1f5f9; padding: 15px; border-radius: 6px; margin-bottom: 20px; font-size: 0.9em; color: #64748b; }
        .job-description { font-size: 0.9em; color: #666; white-space: pre-wrap; }
        .footer { text-align: center; margin-top: 40px; padding-top: 20px; border-top: 1px solid #e2e8f0; color: #64748b; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Resume Analysis Report</h1>
        <p>AI-Powered Resume Optimization</p>
    </div>

    <div class="meta-info">
        <strong>Resume File:</strong> {{.ResumeFilename}}<br>
        <strong>Analysis Purpose:</strong> {{.PurposeLabel}}<br>
        <strong>Generated:</strong> {{date .GeneratedAt}}
    </div>

    <div class="section score-section">
        <h2>Match Score</h2>
        <div class="score">{{.Result.MatchScore}}%</div>
        <p>Resume alignment with job requirements</p>
    </div>
{{with .Result.ATSScore}}
    <div class="section">
        <h2>ATS Score</h2>
        <div class="score">{{deref .}}%</div>
    </div>
{{end}}
    <div class="section">
        <h2>Missing Keywords</h2>
        <p>These important keywords from the job description are missing from your resume:</p>
        <div class="keywords">
            {{range .Result.MissingKeywords}}<span class="keyword">{{.}}</span>{{end}}
        </div>
    </div>

    <div class="section">
        <h2>Improvement Suggestions</h2>
        <ul class="suggestions">
            {{range .Result.Suggestions}}<li>{{.}}</li>{{end}}
        </ul>
    </div>
{{if .Result.RewriteExamples}}
    <div class="section">
        <h2>Rewrite Examples</h2>
        {{range .Result.RewriteExamples}}
        <div class="rewrite-example">
            <div class="original">
                <h4>Original</h4>
                <p>{{.Original}}</p>
            </div>
            <div class="improved">
                <h4>Improved</h4>
                <p>{{.Improved}}</p>
            </div>
        </div>
        {{end}}
    </div>
{{end}}{{if .Result.ATSOptimizations}}
    <div class="section">
        <h2>ATS Optimizations</h2>
        <ul class="suggestions">
            {{range .Result.ATSOptimizations}}<li>{{.}}</li>{{end}}
        </ul>
    </div>
{{end}}
    <div class="section">
        <h2>Overall Feedback</h2>
        <p>{{.Result.OverallFeedback}}</p>
    </div>
{{if .Result.CoverLetter}}
    <div class="section">
        <h2>Cover Letter</h2>
        <p class="job-description">{{.Result.CoverLetter}}</p>
    </div>
{{end}}
    <div class="section">
        <h2>Job Description Reference</h2>
        <p class="job-description">{{.JobDescription}}</p>
    </div>

    <div class="footer">
        <p>Generated by Fixora.ai - Resume Analysis Tool</p>
    </div>
</body>
</html>`
