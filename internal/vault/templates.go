package vault

const reportTemplate = `---
title: Farcaster Companion - {{ compact .Date }}
date: {{ .Date }}
fid: {{ .FID }}
tags: [companion, farcaster, engagement]
---

# Farcaster Companion - {{ compact .Date }}

## Summary

- **Opportunities Found:** {{ .Summary.Count }}
- **Average Score:** {{ .Summary.AverageScore }}
- **Contexts Needed:** {{ .Summary.ContextsNeeded }}

---

## Engagement Opportunities

{{ if not .Opportunities -}}
_No high-scoring engagement opportunities found today. Try lowering the minimum score._

{{ end -}}
{{ range $i, $o := .Opportunities -}}
### {{ inc $i }}. @{{ $o.Item.Author.Username }}{{ if $o.Item.Author.DisplayName }} ({{ $o.Item.Author.DisplayName }}){{ end }}

**Score:** {{ $o.Score }}

**Why:** {{ join $o.Reasons ", " }}

**Engagement:** {{ $o.Item.Replies }} replies, {{ $o.Item.Likes }} likes, {{ $o.Item.Recasts }} recasts

{{ with $o.Quality -}}
**Quality:** {{ printf "%.2f" .Score }} ({{ .Classification }})

{{ end -}}
**Cast:**

{{ quote $o.Item.Text }}

**Link:** [View on Warpcast]({{ $o.URL }})

{{ with $o.Context -}}
{{ if and .NeedsExplanation .SuggestedContext -}}
**Context Needed:**

{{ range .SuggestedContext -}}
- {{ . }}
{{ end }}
{{ end -}}
{{ end -}}
---

{{ end -}}
_Generated: {{ .GeneratedAt.Format "2006-01-02T15:04:05Z07:00" }}_
`

const glossaryTemplate = `# Farcaster Glossary

{{ range .Groups -}}
## {{ title .Type }}

{{ range .Entries -}}
### {{ .Title }}

{{ .Description }}

{{ .Explanation }}
{{ if .WhyMatters }}
**Why it matters:** {{ .WhyMatters }}
{{ end }}
{{- if .Examples }}
**Examples:**
{{ range .Examples }}
- {{ . }}
{{- end }}
{{ end }}
_Confidence: {{ printf "%.1f" .Confidence }} · {{ len .Sources }} sources_

{{ end -}}
{{ end -}}
`
