package web

import "html/template"

var (
	loginTemplate     = template.Must(template.New("login").Parse(loginHTML))
	dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))
)

const loginHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Login</title>
<link href="https://fonts.googleapis.com/css2?family=Roboto:wght@400;700&display=swap" rel="stylesheet">
<style>
body { font-family: 'Roboto', sans-serif; background: #f8f9fa; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; }
.card { background: #fff; width: 400px; padding: 20px; border-radius: 10px; box-shadow: 0 4px 8px rgba(0,0,0,0.1); }
.card h3 { text-align: center; color: #333; }
label { display: block; margin-bottom: 5px; color: #333; }
input { width: 100%; padding: 8px; margin-bottom: 10px; border: 1px solid #ced4da; border-radius: 6px; box-sizing: border-box; }
input.invalid { border: 1px solid red; }
.error { color: red; margin-bottom: 10px; min-height: 1em; }
button { display: block; width: 50%; margin: 30px auto 0; padding: 10px; border: none; border-radius: 6px; color: #fff; background: #007bff; cursor: pointer; }
button:disabled { background: #c0c0c0; cursor: default; }
</style>
</head>
<body>
<div class="card">
<h3>Login</h3>
<form method="post" action="/login">
<label for="username">Username</label>
<input id="username" name="username" type="text" placeholder="Enter your username"
  value="{{.Username}}" {{if .UsernameError}}class="invalid"{{end}}>
<div class="error">{{.UsernameError}}</div>
<label for="password">Password</label>
<input id="password" name="password" type="password" placeholder="Enter your password"
  {{if .PasswordError}}class="invalid"{{end}}>
<div class="error">{{.PasswordError}}</div>
<button id="login-button" type="submit" disabled>Login</button>
</form>
</div>
<script>
var u = document.getElementById('username');
var p = document.getElementById('password');
var b = document.getElementById('login-button');
function sync() { b.disabled = !(u.value && p.value); }
u.addEventListener('input', sync);
p.addEventListener('input', sync);
sync();
</script>
</body>
</html>
`

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Data Consumption Tool</title>
<link href="https://fonts.googleapis.com/css2?family=Roboto:wght@400;700&display=swap" rel="stylesheet">
<style>
body { font-family: 'Roboto', sans-serif; background: #f8f9fa; margin: 0; }
.container { max-width: 1400px; margin: 0 auto; padding: 30px; }
h1 { text-align: center; color: #007BFF; }
.nav { display: flex; border: 1px solid #ddd; border-radius: 8px; margin: 20px 0 30px; background: #fff; box-shadow: 0 4px 8px rgba(0,0,0,0.1); }
.nav a { flex: 1; text-align: center; padding: 15px; margin: 5px; cursor: pointer; text-decoration: none; border-radius: 6px; background: #b3e5fc; color: #333; }
.nav a.active { background: #4fc3f7; color: #fff; }
.card { background: #fff; border-radius: 10px; box-shadow: 0 4px 8px rgba(0,0,0,0.1); padding: 25px; margin-bottom: 25px; }
.card h5 { color: #0056D2; text-align: center; margin-top: 0; }
.muted { color: #666; }
.warn { color: #dc3545; }
.alert { padding: 12px; border-radius: 8px; margin: 15px 0; }
.alert.success { background: #d4edda; color: #155724; }
.alert.danger { background: #f8d7da; color: #721c24; }
canvas { width: 100%; height: 400px; border: 1px solid #e9ecef; border-radius: 8px; background: #fff; }
button, .btn { padding: 10px 16px; border: none; border-radius: 8px; cursor: pointer; color: #fff; }
.btn-primary { background: #00A1D6; }
.btn-danger { background: #dc3545; }
input, select { padding: 8px; border: 1px solid #ced4da; border-radius: 6px; }
.hidden { display: none; }
label.check { margin-right: 15px; }
</style>
</head>
<body>
<div class="container">
<h1>Data Consumption Tool</h1>
<div class="nav">
{{range .Tabs}}<a href="/dashboard?tab={{.ID}}" {{if .Active}}class="active"{{end}}>{{.Title}}</a>{{end}}
</div>

{{if eq .ActiveTab "dashboard"}}
  {{if .HasDataset}}
    {{if .NoDetected}}<p class="muted">Available columns in dataset: {{range $i, $c := .AllColumns}}{{if $i}}, {{end}}{{$c}}{{end}}</p>{{end}}
    {{if .Overlap}}<p class="warn">Columns matching multiple categories: {{range $i, $c := .Overlap}}{{if $i}}, {{end}}{{$c}}{{end}}</p>{{end}}
    {{range .Sections}}
    <div class="card">
      <h5>{{.Title}}</h5>
      {{if .Columns}}
      <div data-kind="{{.Kind}}" class="col-checklist">
        {{range .Columns}}<label class="check"><input type="checkbox" value="{{.}}" checked> {{.}}</label>{{end}}
      </div>
      {{else}}<p class="warn">No columns detected for {{.Title}}.</p>{{end}}
      <canvas id="chart-{{.Kind}}" width="1200" height="400"></canvas>
    </div>
    {{end}}
  {{else}}
  <div class="card">
    <h3>Dashboard</h3>
    <p class="muted">Upload a dataset to view visualizations.</p>
  </div>
  {{end}}
{{end}}

{{if eq .ActiveTab "upload"}}
<div class="card">
  <p class="warn">Upload only .csv files</p>
  <form method="post" action="/dashboard/upload" enctype="multipart/form-data">
    <input type="file" name="file" accept=".csv">
    <button type="submit" class="btn-primary">Upload</button>
  </form>
  <form method="post" action="/dashboard/reset" style="margin-top: 15px;">
    <button type="submit" class="btn-danger">Reset Dataset</button>
  </form>
  {{with .Upload}}
  <div style="margin-top: 25px;">
    {{if .Cleared}}<p class="warn">Dataset cleared. Please upload a new file.</p>{{end}}
    {{if .Error}}<p class="warn">{{.Error}}</p>{{if .Detail}}<p class="warn">{{.Detail}}</p>{{end}}{{end}}
    {{if .Previous}}
    <p class="muted">Previously uploaded file is still available.</p>
    <p class="muted">Dataset has {{.Rows}} rows and {{.Cols}} columns.</p>
    {{end}}
    {{if .Filename}}
    <p><b>Successfully uploaded: {{.Filename}}</b></p>
    <p class="muted">Dataset has {{.Rows}} rows and {{.Cols}} columns.</p>
    <p class="muted">Detected Chiller Power columns: {{if .Power}}{{range $i, $c := .Power}}{{if $i}}, {{end}}{{$c}}{{end}}{{else}}None{{end}}</p>
    <p class="muted">Detected Supply Temp columns: {{if .Supply}}{{range $i, $c := .Supply}}{{if $i}}, {{end}}{{$c}}{{end}}{{else}}None{{end}}</p>
    <p class="muted">Detected Return Temp columns: {{if .Return}}{{range $i, $c := .Return}}{{if $i}}, {{end}}{{$c}}{{end}}{{else}}None{{end}}</p>
    <p class="muted">All columns in dataset: {{range $i, $c := .AllColumns}}{{if $i}}, {{end}}{{$c}}{{end}}</p>
    {{end}}
  </div>
  {{end}}
</div>
{{end}}

{{if eq .ActiveTab "weather"}}
<div class="card">
  <h2 style="color: #0056D2;">Weather Data</h2>
  <p class="muted">Location: {{.Location}}</p>
  <div>
    <label>Select Date Range</label>
    <input type="date" id="weather-start" value="{{.WeatherStart}}">
    <input type="date" id="weather-end" value="{{.WeatherEnd}}">
    <label style="margin-left: 20px;">Select Preset</label>
    <select id="weather-preset">
      <option value="">—</option>
      <option value="7days">Last 7 Days</option>
      <option value="30days">Last 30 Days</option>
      <option value="1year">Last Year</option>
    </select>
  </div>
  <div style="margin-top: 15px;">
    <label>Select Metrics</label>
    <label class="check"><input type="checkbox" class="weather-metric" value="temp" checked> Temperature (°C)</label>
    <label class="check"><input type="checkbox" class="weather-metric" value="humidity"> Humidity (%)</label>
    <label class="check"><input type="checkbox" class="weather-metric" value="windspeed"> Wind Speed (m/s)</label>
  </div>
  <div id="weather-alert"></div>
  <button id="weather-retry" class="btn-primary hidden">Retry</button>
  <canvas id="chart-weather" width="1200" height="450" style="margin-top: 15px;"></canvas>
</div>
{{end}}

{{if eq .ActiveTab "settings"}}
<div class="card">
  <h3 style="color: #0056D2;">Settings</h3>
  <p class="muted">Manage your session below:</p>
  <a class="btn btn-danger" href="/logout">Logout</a>
</div>
{{end}}
</div>

<script>
// Minimal line renderer for the declarative figures served by the backend.
var palette = ['#00A1D6', '#FF6B6B', '#28A745'];

function drawFigure(canvasId, fig) {
  var canvas = document.getElementById(canvasId);
  if (!canvas) return;
  var ctx = canvas.getContext('2d');
  var w = canvas.width, h = canvas.height;
  ctx.clearRect(0, 0, w, h);

  ctx.fillStyle = '#0056D2';
  ctx.font = '18px Roboto, sans-serif';
  ctx.fillText(fig.title, 20, 28);

  if (fig.noData || !fig.series || fig.series.length === 0) {
    ctx.fillStyle = '#666';
    ctx.font = '14px Roboto, sans-serif';
    ctx.fillText(fig.annotation || 'No data to display.', w / 2 - 100, h / 2);
    return;
  }

  var min = Infinity, max = -Infinity, maxLen = 0;
  fig.series.forEach(function (s) {
    s.y.forEach(function (v) { if (v < min) min = v; if (v > max) max = v; });
    if (s.x.length > maxLen) maxLen = s.x.length;
  });
  if (min === max) { min -= 1; max += 1; }

  var pad = 50, plotW = w - 2 * pad, plotH = h - 2 * pad;
  ctx.strokeStyle = '#e9ecef';
  ctx.strokeRect(pad, pad, plotW, plotH);

  fig.series.forEach(function (s, si) {
    ctx.strokeStyle = palette[si % palette.length];
    ctx.beginPath();
    s.y.forEach(function (v, i) {
      var x = pad + plotW * (s.y.length > 1 ? i / (s.y.length - 1) : 0.5);
      var y = pad + plotH * (1 - (v - min) / (max - min));
      if (i === 0) ctx.moveTo(x, y); else ctx.lineTo(x, y);
    });
    ctx.stroke();
    ctx.fillStyle = palette[si % palette.length];
    ctx.font = '13px Roboto, sans-serif';
    ctx.fillText(s.name, pad + si * 180, h - 12);
  });

  ctx.fillStyle = '#333';
  ctx.font = '13px Roboto, sans-serif';
  ctx.fillText(fig.xTitle, w / 2 - 30, h - 30);
  ctx.save();
  ctx.translate(14, h / 2 + 30);
  ctx.rotate(-Math.PI / 2);
  ctx.fillText(fig.yTitle, 0, 0);
  ctx.restore();
}

function loadTelemetry(kind) {
  var list = document.querySelector('.col-checklist[data-kind="' + kind + '"]');
  var cols = [];
  if (list) {
    list.querySelectorAll('input:checked').forEach(function (cb) { cols.push(cb.value); });
  }
  fetch('/dashboard/chart?kind=' + kind + '&cols=' + encodeURIComponent(cols.join(',')))
    .then(function (r) { return r.json(); })
    .then(function (fig) { drawFigure('chart-' + kind, fig); });
}

document.querySelectorAll('.col-checklist').forEach(function (list) {
  var kind = list.getAttribute('data-kind');
  list.querySelectorAll('input').forEach(function (cb) {
    cb.addEventListener('change', function () { loadTelemetry(kind); });
  });
});
['power', 'supply', 'return'].forEach(function (kind) {
  if (document.getElementById('chart-' + kind)) loadTelemetry(kind);
});

function loadWeather(preset) {
  var start = document.getElementById('weather-start');
  var end = document.getElementById('weather-end');
  if (!start) return;
  var metrics = [];
  document.querySelectorAll('.weather-metric:checked').forEach(function (cb) { metrics.push(cb.value); });

  var q = preset
    ? 'preset=' + encodeURIComponent(preset)
    : 'start=' + encodeURIComponent(start.value) + '&end=' + encodeURIComponent(end.value);
  q += '&metrics=' + encodeURIComponent(metrics.join(','));

  fetch('/dashboard/weather/data?' + q)
    .then(function (r) { return r.json(); })
    .then(function (resp) {
      var box = document.getElementById('weather-alert');
      box.innerHTML = '';
      var div = document.createElement('div');
      div.className = 'alert ' + (resp.alert.level === 'danger' ? 'danger' : 'success');
      div.textContent = resp.alert.message;
      box.appendChild(div);
      if (resp.start) start.value = resp.start;
      if (resp.end) end.value = resp.end;
      document.getElementById('weather-retry').className = resp.retry ? 'btn-primary' : 'btn-primary hidden';
      if (resp.figure) drawFigure('chart-weather', resp.figure);
    });
}

if (document.getElementById('chart-weather')) {
  document.getElementById('weather-start').addEventListener('change', function () { loadWeather(); });
  document.getElementById('weather-end').addEventListener('change', function () { loadWeather(); });
  document.getElementById('weather-preset').addEventListener('change', function () {
    loadWeather(this.value);
  });
  document.querySelectorAll('.weather-metric').forEach(function (cb) {
    cb.addEventListener('change', function () { loadWeather(); });
  });
  document.getElementById('weather-retry').addEventListener('click', function () { loadWeather(); });
  loadWeather();
}
</script>
</body>
</html>
`
