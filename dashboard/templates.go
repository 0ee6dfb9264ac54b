package dashboard

import (
	"html/template"
	"time"

	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/corridormap/internal/heatmap"
)

type corridorView struct {
	Corridor    domain.CorridorRecord
	Period      string
	Liquidity   string
	Volume      string
	Latency     string
	SuccessRate string
	UpdatedAt   time.Time
}

func newCorridorView(c domain.CorridorRecord, period domain.Period, updatedAt time.Time) corridorView {
	return corridorView{
		Corridor:    c,
		Period:      period.String(),
		Liquidity:   heatmap.FormatUSD(c.LiquidityDepthUSD),
		Volume:      heatmap.FormatUSD(c.VolumeUSD),
		Latency:     heatmap.FormatLatency(c.AvgSettlementLatencyMs),
		SuccessRate: heatmap.FormatSuccessRate(c.SuccessRate),
		UpdatedAt:   updatedAt,
	}
}

const pageStyle = `
    :root { --bg:#ffffff; --ink:#111111; --ink-mid:#4d4d4d; --ink-soft:#9c9c9c; --panel:#f6f6f6; }
    * { box-sizing:border-box; }
    body { margin:0; padding:2rem; background:var(--bg); color:var(--ink); font-family:'Space Mono','JetBrains Mono',monospace; }
    #app { max-width:1400px; margin:0 auto; background:var(--panel); border:3px solid var(--ink); padding:2rem; box-shadow:12px 12px 0 rgba(0,0,0,.15); }
    header { display:flex; justify-content:space-between; align-items:flex-start; gap:1rem; margin-bottom:1.5rem; }
    h1 { margin:0; font-size:1.4rem; letter-spacing:.05em; }
    .sub { color:var(--ink-mid); font-size:.8rem; margin:.3rem 0 0; }
    .periods a { display:inline-block; padding:.35rem .9rem; border:2px solid var(--ink); margin-left:.3rem; color:var(--ink); text-decoration:none; font-size:.75rem; font-weight:700; background:#fff; }
    .periods a.active { background:var(--ink); color:#fff; }
    .legend { display:flex; align-items:center; gap:.4rem; font-size:.65rem; text-transform:uppercase; color:var(--ink-soft); margin-bottom:1.5rem; }
    .legend span.sw { width:16px; height:16px; display:inline-block; }
    table { border-collapse:separate; border-spacing:4px; }
    th { font-size:.7rem; color:var(--ink-mid); text-transform:uppercase; }
    th.row { text-align:right; padding-right:.8rem; }
    td { width:84px; height:64px; padding:0; }
    .cell { position:relative; display:flex; width:100%; height:100%; align-items:center; justify-content:center; color:#fff; font-weight:700; font-size:.75rem; text-decoration:none; border:2px solid var(--ink); }
    .cell:hover { transform:scale(1.05); z-index:10; }
    .empty { width:100%; height:100%; border:2px dashed var(--ink-soft); }
    .tip { display:none; position:absolute; left:50%; bottom:calc(100% + 10px); transform:translateX(-50%); min-width:240px; background:#0f172a; color:#fff; padding:1rem; font-weight:400; z-index:100; pointer-events:none; }
    .cell:hover .tip { display:block; }
    .tip .pair { font-weight:700; display:flex; justify-content:space-between; border-bottom:1px solid rgba(255,255,255,.1); padding-bottom:.5rem; margin-bottom:.5rem; }
    .tip .line { display:flex; justify-content:space-between; font-size:.7rem; margin:.3rem 0; }
    .tip .line span:first-child { color:#9ca3af; text-transform:uppercase; }
    .tip .hint { text-align:center; font-size:.6rem; color:#3b82f6; text-transform:uppercase; margin-top:.6rem; }
    .nodata { color:var(--ink-soft); }
    dl { display:grid; grid-template-columns:max-content 1fr; gap:.5rem 2rem; }
    dt { color:var(--ink-mid); text-transform:uppercase; font-size:.75rem; }
`

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Liquidity Distribution</title>
  <style>` + pageStyle + `</style>
</head>
<body>
<div id="app">
  <header>
    <div>
      <h1>Liquidity Distribution</h1>
      <p class="sub">Visualizing liquidity depth across market corridors{{if .UpdatedAt}} · updated {{.UpdatedAt.Format "2006-01-02 15:04 MST"}}{{end}}</p>
    </div>
    <nav class="periods">{{range .Periods}}<a href="/?period={{.Period}}"{{if .Active}} class="active"{{end}}>{{.Period}}</a>{{end}}</nav>
  </header>
  <div class="legend">Liquidity density · thin {{range .Legend}}<span class="sw" style="{{.}}"></span>{{end}} deep</div>
  {{if .Rows}}
  <table>
    <tr><th></th>{{range .Sources}}<th>{{.}}</th>{{end}}</tr>
    {{range .Rows}}
    <tr>
      <th class="row">{{.Destination}}</th>
      {{range .Cells}}
      <td>{{if .}}<a class="cell" href="{{.Path}}" style="{{.Style}}">{{.Label}}
        <span class="tip">
          <span class="pair"><span>{{.Source}} → {{.Destination}}</span><span>{{.SuccessRate}}</span></span>
          <span class="line"><span>Liquidity depth</span><span>{{.LiquidityFull}}</span></span>
          <span class="line"><span>Volume</span><span>{{.Volume}}</span></span>
          <span class="line"><span>Avg latency</span><span>{{.Latency}}</span></span>
          <span class="hint">Click to explore corridor →</span>
        </span>
      </a>{{else}}<div class="empty"></div>{{end}}</td>
      {{end}}
    </tr>
    {{end}}
  </table>
  {{else}}
  <p class="nodata">No corridor data for {{.Period}} yet.</p>
  {{end}}
</div>
</body>
</html>
`))

var corridorTemplate = template.Must(template.New("corridor").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Corridor.SourceAsset}} → {{.Corridor.DestinationAsset}}</title>
  <style>` + pageStyle + `</style>
</head>
<body>
<div id="app">
  <header>
    <div>
      <h1>{{.Corridor.SourceAsset}} → {{.Corridor.DestinationAsset}}</h1>
      <p class="sub">{{.Corridor.CorridorKey}} · {{.Period}} · updated {{.UpdatedAt.Format "2006-01-02 15:04 MST"}}</p>
    </div>
    <nav class="periods"><a href="/?period={{.Period}}">← heatmap</a></nav>
  </header>
  <dl>
    <dt>Liquidity depth</dt><dd>{{.Liquidity}}</dd>
    <dt>Volume</dt><dd>{{.Volume}}</dd>
    <dt>Success rate</dt><dd>{{.SuccessRate}}</dd>
    <dt>Avg settlement latency</dt><dd>{{.Latency}}</dd>
  </dl>
</div>
</body>
</html>
`))
