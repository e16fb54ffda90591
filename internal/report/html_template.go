package report

import "html/template"

// htmlTemplate renders an htmlView as a single self-contained document.
// All styling is inline so the file can be mailed or archived as-is.
var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateText))

const htmlTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>CRO Audit Report - {{.SiteName}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; color: #1e293b; background: #f8fafc; line-height: 1.5; }
.container { max-width: 1080px; margin: 0 auto; padding: 0 1.5rem 3rem; }
.header { background: linear-gradient(135deg, #1e293b 0%, #334155 100%); color: #fff; padding: 2.5rem 1.5rem; margin-bottom: 2rem; }
.header-inner { max-width: 1080px; margin: 0 auto; }
.header h1 { font-size: 1.6rem; font-weight: 700; }
.header-meta { color: rgba(255,255,255,0.8); font-size: 0.9rem; margin-top: 0.35rem; }
.header-meta a { color: rgba(255,255,255,0.8); }
.header-stats { display: flex; gap: 2.5rem; margin-top: 1.5rem; }
.stat-value { display: block; font-size: 1.8rem; font-weight: 700; }
.stat-label { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: rgba(255,255,255,0.7); }
.card { background: #fff; border: 1px solid #e2e8f0; border-radius: 10px; padding: 1.5rem; margin-bottom: 1.5rem; }
.card h2 { font-size: 1.1rem; margin-bottom: 1rem; }
.score-badge { display: inline-block; color: #fff; font-weight: 700; border-radius: 8px; padding: 0.5rem 1rem; font-size: 1.4rem; }
.score-caption { margin-left: 0.75rem; font-weight: 600; color: #475569; }
table { border-collapse: collapse; width: 100%; font-size: 0.9rem; }
th, td { text-align: left; padding: 0.5rem 0.75rem; border-bottom: 1px solid #e2e8f0; }
th { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: #64748b; }
.bar-track { background: #f1f5f9; border-radius: 4px; height: 10px; min-width: 120px; }
.bar-fill { height: 10px; border-radius: 4px; }
.priority-badge { display: inline-block; color: #fff; border-radius: 5px; padding: 0.1rem 0.5rem; font-size: 0.75rem; font-weight: 600; }
.finding { border: 1px solid #e2e8f0; border-radius: 8px; padding: 1rem; margin-bottom: 0.75rem; }
.finding-head { display: flex; align-items: center; gap: 0.6rem; margin-bottom: 0.4rem; }
.finding-criterion { font-weight: 600; }
.finding-lens { color: #64748b; font-size: 0.8rem; }
.finding-score { margin-left: auto; color: #fff; border-radius: 5px; padding: 0.1rem 0.5rem; font-size: 0.8rem; font-weight: 700; }
.finding-issue { color: #475569; font-size: 0.9rem; }
.finding-rec { background: #f8fafc; border-left: 3px solid #3b82f6; padding: 0.5rem 0.75rem; margin-top: 0.5rem; font-size: 0.9rem; }
.page-section { margin-bottom: 2rem; }
.page-head { display: flex; align-items: baseline; gap: 0.75rem; margin-bottom: 0.5rem; }
.page-head h2 { font-size: 1.2rem; }
.page-url { font-size: 0.85rem; margin-bottom: 1rem; }
.screens { display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 1rem; }
.screen { border: 1px solid #e2e8f0; border-radius: 8px; overflow: hidden; background: #f1f5f9; }
.screen img { display: block; max-width: 420px; width: 100%; }
.screen-missing { display: flex; align-items: center; justify-content: center; width: 420px; height: 140px; color: #94a3b8; font-size: 0.85rem; }
.plan-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(280px, 1fr)); gap: 1rem; }
.plan-cell h3 { font-size: 0.95rem; }
.plan-cell .subtitle { color: #64748b; font-size: 0.8rem; margin-bottom: 0.6rem; }
.plan-cell ul { list-style: none; }
.plan-cell li { padding: 0.3rem 0; font-size: 0.88rem; border-bottom: 1px solid #f1f5f9; }
.notes { background: #fffbeb; border: 1px solid #fde68a; border-radius: 8px; padding: 0.75rem 1rem; font-size: 0.85rem; color: #92400e; margin-bottom: 1.5rem; }
.footer { text-align: center; color: #94a3b8; font-size: 0.8rem; padding-top: 1.5rem; border-top: 1px solid #e2e8f0; }
</style>
</head>
<body>
<div class="header">
  <div class="header-inner">
    <h1>CRO Audit Report</h1>
    <div class="header-meta">{{.SiteName}} &bull; <a href="{{.SiteURL}}" target="_blank" rel="noopener">{{.SiteURL}}</a>{{if .Platform}} &bull; {{.Platform}}{{end}}{{if .AuditDate}} &bull; {{.AuditDate}}{{end}}</div>
    <div class="header-stats">
      <div><span class="stat-value">{{.OverallScore}}</span><span class="stat-label">Overall Score</span></div>
      <div><span class="stat-value">{{.TotalFindings}}</span><span class="stat-label">Findings</span></div>
      <div><span class="stat-value">{{.UrgentFindings}}</span><span class="stat-label">Critical/High</span></div>
      <div><span class="stat-value">{{.PageCount}}</span><span class="stat-label">Pages Audited</span></div>
    </div>
  </div>
</div>
<div class="container">

{{if .MetadataNotes}}
<div class="notes">
  {{range .MetadataNotes}}<div>{{.}}</div>{{end}}
</div>
{{end}}

<div class="card">
  <h2>Overall</h2>
  <span class="score-badge" style="background:{{.OverallColor}};">{{.OverallScore}}</span>
  <span class="score-caption">{{.OverallLabel}}</span>
  {{if .ExecutiveSummary}}<p style="margin-top:1rem;color:#475569;">{{.ExecutiveSummary}}</p>{{end}}
</div>

<div class="card">
  <h2>Page Scores</h2>
  <table>
    <tr><th>Page</th><th>Score</th><th>Rating</th></tr>
    {{range .Pages}}
    <tr>
      <td>{{.Label}}</td>
      <td><span class="priority-badge" style="background:{{.ScoreColor}};">{{.Score}}</span></td>
      <td>{{if .Defined}}{{else}}No findings{{end}}</td>
    </tr>
    {{end}}
  </table>
</div>

{{if .Lenses}}
<div class="card">
  <h2>Scores by Lens</h2>
  <table>
    <tr><th>Lens</th><th>Average</th><th></th><th>Findings</th></tr>
    {{range .Lenses}}
    <tr>
      <td>{{.Label}}</td>
      <td>{{.Average}}</td>
      <td><div class="bar-track"><div class="bar-fill" style="width:{{.Percent}}%;background:#3b82f6;"></div></div></td>
      <td>{{.Count}}</td>
    </tr>
    {{end}}
  </table>
</div>
{{end}}

<div class="card">
  <h2>Distributions</h2>
  <table>
    <tr><th>Score</th><th>Count</th><th></th></tr>
    {{range .ScoreDist}}
    <tr>
      <td>{{.Label}}</td>
      <td>{{.Count}}</td>
      <td><div class="bar-track"><div class="bar-fill" style="width:{{.Percent}}%;background:{{.Color}};"></div></div></td>
    </tr>
    {{end}}
  </table>
  <table style="margin-top:1rem;">
    <tr><th>Priority</th><th>Count</th><th></th></tr>
    {{range .PriorityDist}}
    <tr>
      <td>{{.Label}}</td>
      <td>{{.Count}}</td>
      <td><div class="bar-track"><div class="bar-fill" style="width:{{.Percent}}%;background:{{.Color}};"></div></div></td>
    </tr>
    {{end}}
  </table>
</div>

{{if .TopFindings}}
<div class="card">
  <h2>Top Findings</h2>
  {{range .TopFindings}}
  <div class="finding">
    <div class="finding-head">
      <span class="priority-badge" style="background:{{.PriorityColor}};">{{.Priority}} &middot; {{.PriorityLabel}}</span>
      <span class="finding-criterion">{{.CriterionID}}{{if .CriterionName}} &mdash; {{.CriterionName}}{{end}}</span>
      <span class="finding-lens">{{.Lens}} &bull; {{.Page}}</span>
      <span class="finding-score" style="background:{{.ScoreColor}};">{{.Score}}/5</span>
    </div>
    {{if .Issue}}<div class="finding-issue">{{.Issue}}</div>{{end}}
    {{if .Recommendation}}<div class="finding-rec"><strong>Recommendation:</strong> {{.Recommendation}}</div>{{end}}
  </div>
  {{end}}
</div>
{{end}}

{{range .Pages}}
<div class="card page-section" id="page-{{.ID}}">
  <div class="page-head">
    <h2>{{.Label}}</h2>
    <span class="priority-badge" style="background:{{.ScoreColor}};">{{.Score}}</span>
  </div>
  <p class="page-url"><a href="{{.URL}}" target="_blank" rel="noopener">{{.URL}}</a></p>
  {{if or .Desktop .Mobile}}
  <div class="screens">
    {{if .Desktop}}<div class="screen"><img src="{{.Desktop}}" alt="{{.Label}} desktop view" loading="lazy"></div>{{end}}
    {{if .Mobile}}<div class="screen"><img src="{{.Mobile}}" alt="{{.Label}} mobile view" loading="lazy"></div>{{end}}
  </div>
  {{else}}
  <div class="screens"><div class="screen"><div class="screen-missing">No screenshot available</div></div></div>
  {{end}}
  {{if .Findings}}
  {{range .Findings}}
  <div class="finding">
    <div class="finding-head">
      <span class="priority-badge" style="background:{{.PriorityColor}};">{{.Priority}}</span>
      <span class="finding-criterion">{{.CriterionID}}{{if .CriterionName}} &mdash; {{.CriterionName}}{{end}}</span>
      <span class="finding-lens">{{.Lens}}</span>
      <span class="finding-score" style="background:{{.ScoreColor}};">{{.Score}}/5</span>
    </div>
    {{if .Issue}}<div class="finding-issue">{{.Issue}}</div>{{end}}
    {{if .Recommendation}}<div class="finding-rec"><strong>Recommendation:</strong> {{.Recommendation}}</div>{{end}}
  </div>
  {{end}}
  {{else}}
  <p style="color:#64748b;font-size:0.9rem;">No findings recorded for this page.</p>
  {{end}}
</div>
{{end}}

{{if .CrossCutting}}
<div class="card">
  <h2>Cross-Cutting Issues</h2>
  {{range .CrossCutting}}
  <div class="finding">
    <div class="finding-head">
      <span class="priority-badge" style="background:{{.PriorityColor}};">{{.Priority}}</span>
      <span class="finding-criterion">{{.Title}}</span>
    </div>
    {{if .Description}}<div class="finding-issue">{{.Description}}</div>{{end}}
    {{if .Affected}}<div class="finding-lens" style="margin-top:0.35rem;">Affects: {{.Affected}}</div>{{end}}
  </div>
  {{end}}
</div>
{{end}}

{{if .ActionPlan}}
<div class="card">
  <h2>Action Plan</h2>
  <div class="plan-grid">
    {{range .ActionPlan}}
    <div class="plan-cell">
      <h3>{{.Title}}</h3>
      <div class="subtitle">{{.Subtitle}}</div>
      <ul>
        {{range .Findings}}
        <li><span class="priority-badge" style="background:{{.PriorityColor}};">{{.Priority}}</span> {{.CriterionID}} ({{.Page}})</li>
        {{end}}
      </ul>
    </div>
    {{end}}
  </div>
</div>
{{end}}

<div class="footer">
  {{if .GeneratedAt}}Generated {{.GeneratedAt}} by croaudit{{else}}Generated by croaudit{{end}}
</div>
</div>
</body>
</html>
`
