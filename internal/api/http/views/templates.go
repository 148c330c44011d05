package views

const layout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Ticket Console</title>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f5f6f8;color:#222}
header{background:#1f2937;color:#fff;padding:12px 24px;display:flex;justify-content:space-between;align-items:center}
main{padding:24px;max-width:1100px;margin:auto}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{padding:8px;border-bottom:1px solid #e5e7eb;text-align:left}
.notice{background:#fee2e2;color:#991b1b;padding:8px 12px;margin-bottom:16px}
.badge{padding:2px 8px;border-radius:8px;font-size:12px}
.badge-open{background:#dcfce7}.badge-closed{background:#e5e7eb}.badge-other{background:#fef9c3}
.panel{background:#fff;padding:16px;margin:16px 0;border:1px solid #e5e7eb}
.tabs a{margin-right:12px}
form.inline{display:inline}
</style>
</head>
<body>
{{template "content" .}}
</body>
</html>`

const loginPage = `{{define "content"}}
<main>
<h1>Sign in</h1>
{{with .Notice}}<div class="notice">{{.}}</div>{{end}}
<form method="post" action="/login">
<p><label>Email <input type="email" name="email" value="{{.Email}}" required></label></p>
<p><label>Password <input type="password" name="password" required></label></p>
<p><button type="submit">Login</button></p>
</form>
<p>No account? <a href="/signup">Sign up</a></p>
</main>
{{end}}`

const signupPage = `{{define "content"}}
<main>
<h1>Create an account</h1>
{{with .Notice}}<div class="notice">{{.}}</div>{{end}}
<form method="post" action="/signup">
<p><label>Full name <input name="fullname" value="{{.FullName}}" required></label></p>
<p><label>Username <input name="username" value="{{.Username}}" required></label></p>
<p><label>Email <input type="email" name="email" value="{{.Email}}" required></label></p>
<p><label>Password <input type="password" name="password" required></label></p>
<p><label>Phone <input name="phone" value="{{.Phone}}"></label></p>
<p><label>Address <input name="address" value="{{.Address}}"></label></p>
<p><button type="submit">Sign up</button></p>
</form>
<p>Already registered? <a href="/login">Sign in</a></p>
</main>
{{end}}`

const pagerBlock = `{{define "pager"}}
<div class="pager">
<form class="inline" method="post" action="{{.Action}}/page"><input type="hidden" name="dir" value="prev"><button {{if not .Snap.HasPrev}}disabled{{end}}>Previous</button></form>
<span>Page {{.Snap.Page}} of {{.Snap.TotalPages}} ({{.Snap.TotalCount}} total)</span>
<form class="inline" method="post" action="{{.Action}}/page"><input type="hidden" name="dir" value="next"><button {{if not .Snap.HasNext}}disabled{{end}}>Next</button></form>
<form class="inline" method="post" action="{{.Action}}/filter"><input name="q" value="{{.Snap.FilterText}}" placeholder="Search"><button>Filter</button></form>
</div>
{{end}}`

const adminPage = pagerBlock + `{{define "content"}}
<header><strong>Admin dashboard</strong>
<span>{{.Profile.Email}} <form class="inline" method="post" action="/logout"><button>Logout</button></form></span></header>
<main>
{{with .Notice}}<div class="notice">{{.}}</div>{{end}}
<nav class="tabs"><a href="/admin-dashboard?tab=users">Users</a><a href="/admin-dashboard?tab=tickets">Tickets</a></nav>
{{if eq .Tab "tickets"}}
<p>Open <span class="badge badge-open">{{.Summary.Open}}</span>
Closed <span class="badge badge-closed">{{.Summary.Closed}}</span>
Other <span class="badge badge-other">{{.Summary.Other}}</span></p>
{{template "pager" (pager "/admin-dashboard/tickets" .Tickets)}}
<table>
<tr><th>ID</th><th>Title</th><th>Status</th><th>Created by</th><th></th></tr>
{{range .Tickets.Visible}}
<tr><td>{{.TicketID}}</td><td>{{.Title}}</td><td><span class="badge {{badge .Status}}">{{.Status}}</span></td><td>{{.CreatedBy}}</td>
<td>
<form class="inline" method="post" action="/admin-dashboard/tickets/{{.TicketID}}/view"><button>View</button></form>
<form class="inline" method="post" action="/admin-dashboard/tickets/{{.TicketID}}/status">
<select name="status">{{$cur := .Status}}{{range $.Statuses}}<option value="{{.}}" {{if eq . $cur}}selected{{end}}>{{.}}</option>{{end}}</select><button>Update</button></form>
<form class="inline" method="post" action="/admin-dashboard/tickets/{{.TicketID}}/delete"><button>Delete</button></form>
</td></tr>
{{else}}<tr><td colspan="5">No tickets</td></tr>{{end}}
</table>
{{with .Tickets.Selected}}
<div class="panel"><h3>{{.Title}}</h3><p>{{.Description}}</p>
<p>Status: <span class="badge {{badge .Status}}">{{.Status}}</span></p><p>Created by: {{.CreatedBy}}</p>
<form method="post" action="/admin-dashboard/panel/close"><button>Close</button></form></div>
{{end}}
{{else}}
{{template "pager" (pager "/admin-dashboard/users" .Users)}}
<table>
<tr><th></th><th>Full name</th><th>Username</th><th>Email</th><th>Joined</th><th></th></tr>
{{range .Users.Visible}}
<tr><td>{{initial .FullName}}</td><td>{{.FullName}}</td><td>{{.Username}}</td><td>{{.Email}}</td><td>{{date .CreatedAt}}</td>
<td>
<form class="inline" method="post" action="/admin-dashboard/users/{{.ID}}/view"><button>View</button></form>
<form class="inline" method="post" action="/admin-dashboard/users/{{.ID}}/delete"><button>Delete</button></form>
</td></tr>
{{else}}<tr><td colspan="6">No users</td></tr>{{end}}
</table>
{{with .Users.Selected}}
<div class="panel"><h3>{{.FullName}}</h3><p>{{.Username}} &middot; {{.Email}}</p><p>Joined {{date .CreatedAt}}</p>
<form method="post" action="/admin-dashboard/panel/close"><button>Close</button></form></div>
{{end}}
{{end}}
</main>
{{end}}`

const userPage = pagerBlock + `{{define "content"}}
<header><strong>My tickets</strong>
<span>{{.Profile.Email}} <form class="inline" method="post" action="/logout"><button>Logout</button></form></span></header>
<main>
{{with .Notice}}<div class="notice">{{.}}</div>{{end}}
<form method="post" action="/user-dashboard/tickets/new"><button>New ticket</button></form>
{{template "pager" (pager "/user-dashboard/tickets" .Tickets)}}
<table>
<tr><th>Title</th><th>Status</th><th></th></tr>
{{range .Tickets.Visible}}
<tr><td>{{.Title}}</td><td><span class="badge {{badge .Status}}">{{.Status}}</span></td>
<td>
<form class="inline" method="post" action="/user-dashboard/tickets/{{.TicketID}}/view"><button>View</button></form>
<form class="inline" method="post" action="/user-dashboard/tickets/{{.TicketID}}/edit"><button>Edit</button></form>
<form class="inline" method="post" action="/user-dashboard/tickets/{{.TicketID}}/delete"><button>Delete</button></form>
</td></tr>
{{else}}<tr><td colspan="3">No tickets yet</td></tr>{{end}}
</table>
{{$panel := panel .Tickets.Panel}}
{{if eq $panel "view"}}{{with .Tickets.Selected}}
<div class="panel"><h3>{{.Title}}</h3><p>{{.Description}}</p><p>Status: <span class="badge {{badge .Status}}">{{.Status}}</span></p>
<form method="post" action="/user-dashboard/panel/close"><button>Close</button></form></div>
{{end}}{{end}}
{{if or (eq $panel "edit") (eq $panel "create")}}
<div class="panel">
<form method="post" action="/user-dashboard/tickets">
{{with .Tickets.Selected}}<input type="hidden" name="id" value="{{.TicketID}}">{{end}}
<p><label>Title <input name="title" value="{{with .Tickets.Selected}}{{.Title}}{{end}}" required></label></p>
<p><label>Description <textarea name="description" required>{{with .Tickets.Selected}}{{.Description}}{{end}}</textarea></label></p>
{{with .Tickets.Selected}}{{$cur := .Status}}<p><label>Status <select name="status">{{range $.Statuses}}<option value="{{.}}" {{if eq . $cur}}selected{{end}}>{{.}}</option>{{end}}</select></label></p>{{end}}
<button type="submit">Save</button>
</form>
<form method="post" action="/user-dashboard/panel/close"><button>Cancel</button></form>
</div>
{{end}}
</main>
{{end}}`

const errorPage = `{{define "content"}}
<main>
<h1>{{.Status}}</h1>
<p>{{.Message}}</p>
<p><small>{{.Code}}</small></p>
<p><a href="/">Back to the console</a></p>
</main>
{{end}}`
