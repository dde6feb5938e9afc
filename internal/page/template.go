package page

import "html/template"

var gridTemplate = template.Must(template.New("grid").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <style nonce="{{.Nonce}}">
        * { margin: 0; padding: 0; box-sizing: border-box; }
        html, body { background: #000; color: #fff; overflow-x: hidden; }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; }
        .settings {
            position: fixed;
            top: 0;
            left: 0;
            right: 0;
            z-index: 10;
            display: flex;
            flex-wrap: wrap;
            gap: 0.5rem;
            align-items: center;
            padding: 0.5rem 0.75rem;
            background: rgba(10, 22, 40, 0.92);
            transition: opacity 0.3s;
        }
        .settings.hidden { opacity: 0; pointer-events: none; }
        .settings form { display: inline-flex; gap: 0.25rem; align-items: center; }
        .settings input[type=text] { width: 22rem; max-width: 60vw; }
        .settings input, .settings select, .settings button {
            font: inherit;
            font-size: 0.875rem;
            padding: 0.25rem 0.5rem;
            border-radius: 4px;
            border: 1px solid #334155;
            background: #1e293b;
            color: #fff;
        }
        .settings button { cursor: pointer; }
        .settings button.active { background: #00b67a; border-color: #00b67a; }
        .diagnostics {
            position: fixed;
            bottom: 0;
            left: 0;
            right: 0;
            z-index: 10;
            padding: 0.5rem 0.75rem;
            background: rgba(127, 29, 29, 0.92);
            font-size: 0.8125rem;
            list-style: none;
        }
        .grid { display: grid; }
        .empty { padding: 6rem 2rem; text-align: center; color: #94a3b8; }
        .cell { position: relative; overflow: hidden; }
        .cell iframe { position: absolute; inset: 0; width: 100%; height: 100%; border: 0; }
        .cell iframe.debug { background: skyblue; }
        .overlay {
            position: absolute;
            inset: 0;
            display: flex;
            align-items: center;
            justify-content: center;
            background: rgba(0, 0, 0, 0.35);
        }
        .cell.highlighted .overlay { background: rgba(0, 182, 122, 0.45); }
        .overlay .delete { position: absolute; top: 0.5rem; right: 0.5rem; }
        .overlay button {
            font: inherit;
            padding: 0.25rem 0.6rem;
            border-radius: 4px;
            border: 0;
            cursor: pointer;
        }
        .overlay .delete button { background: #dc2626; color: #fff; }
        .picker { display: grid; gap: 4px; }
        .picker button { width: 100%; height: 100%; background: #cbd5e1; }
        .picker button.current { background: #00b67a; color: #fff; }
        {{.GridCSS}}
    </style>
</head>
<body data-query="{{.Query}}" data-wall="{{.WallID}}" data-settings-delay="{{.SettingsDelayMS}}" data-vw="{{.ViewportWidth}}" data-vh="{{.ViewportHeight}}">
    <div class="settings hidden" id="settings">
        <form method="post" action="{{.Action}}">
            <input type="hidden" name="q" value="{{.Query}}">
            <input type="hidden" name="op" value="add">
            <input type="text" name="text" maxlength="{{.MaxTextLength}}" placeholder="YouTube links or IDs" autocomplete="off">
            <button type="submit">Add</button>
        </form>
        <form method="post" action="{{.Action}}">
            <input type="hidden" name="q" value="{{.Query}}">
            <input type="hidden" name="op" value="size">
            <select name="mode" aria-label="Size">
                {{range .Modes}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
            </select>
            <button type="submit">Apply</button>
        </form>
        <form method="post" action="{{.Action}}">
            <input type="hidden" name="q" value="{{.Query}}">
            <input type="hidden" name="op" value="edit">
            <input type="hidden" name="on" value="{{if .Edit}}false{{else}}true{{end}}">
            <button type="submit"{{if .Edit}} class="active"{{end}}>{{if .Edit}}Done{{else}}Edit{{end}}</button>
        </form>
        <form method="post" action="{{.Action}}" class="player">
            <input type="hidden" name="q" value="{{.Query}}">
            <input type="hidden" name="op" value="player">
            <button type="submit" name="action" value="play">Play all</button>
            <button type="submit" name="action" value="pause">Pause all</button>
            {{if .Mute}}<button type="submit" name="action" value="unmute">Unmute all</button>{{else}}<button type="submit" name="action" value="mute">Mute all</button>{{end}}
            <button type="submit" name="action" value="live">Live</button>
        </form>
        {{if .Count}}<form method="post" action="{{.Action}}">
            <input type="hidden" name="q" value="{{.Query}}">
            <input type="hidden" name="op" value="clear">
            <button type="submit">Clear</button>
        </form>{{end}}
        <form method="post" action="{{.Action}}" id="resize-form" hidden>
            <input type="hidden" name="q" value="{{.Query}}">
            <input type="hidden" name="op" value="resize">
            <input type="hidden" name="width" value="">
            <input type="hidden" name="height" value="">
        </form>
    </div>
    {{if .Diagnostics}}<ul class="diagnostics" id="diagnostics">
        {{range .Diagnostics}}<li>{{.}}</li>
        {{end}}
    </ul>{{end}}
    {{with .Stats}}<p class="stats" id="stats">layout recomputes {{.LayoutRecomputes}}, picker rebuilds {{.PickerRebuilds}}</p>{{end}}
    {{if .Cells}}<main class="grid" id="grid">
        {{range .Cells}}<div class="cell{{if .Featured}} featured{{end}}{{if .Highlighted}} highlighted{{end}}" data-slot="{{.Slot}}" data-key="{{.Key}}">
            {{if .SrcDoc}}<iframe class="debug" data-key="{{.Key}}" title="{{.VideoID}}" srcdoc="{{.SrcDoc}}"></iframe>{{else}}<iframe data-key="{{.Key}}" title="{{.VideoID}}" src="{{.Src}}" allow="accelerometer; autoplay; encrypted-media; gyroscope; picture-in-picture; fullscreen" allowfullscreen></iframe>{{end}}
            {{if .EditMode}}<div class="overlay">
                {{if .ShowDeleteControl}}<form method="post" action="{{$.Action}}" class="delete">
                    <input type="hidden" name="q" value="{{$.Query}}">
                    <input type="hidden" name="op" value="remove">
                    <input type="hidden" name="slot" value="{{.Slot}}">
                    <button type="submit" title="Remove">&#x2715;</button>
                </form>{{end}}
                {{with .Picker}}<form method="post" action="{{$.Action}}" class="picker">
                    <input type="hidden" name="q" value="{{$.Query}}">
                    <input type="hidden" name="op" value="choose">
                    {{range .Buttons}}<button type="submit" name="slot" value="{{.Slot}}" data-slot="{{.Slot}}"{{if .Current}} class="current"{{end}}>{{.Slot}}</button>{{end}}
                </form>{{else}}<form method="post" action="{{$.Action}}">
                    <input type="hidden" name="q" value="{{$.Query}}">
                    <input type="hidden" name="op" value="pick">
                    <input type="hidden" name="slot" value="{{.Slot}}">
                    <button type="submit">Move</button>
                </form>{{end}}
            </div>{{end}}
        </div>
        {{end}}
    </main>{{else}}<p class="empty">Add YouTube links or video IDs to start watching.</p>{{end}}
    <script nonce="{{.Nonce}}">
    (function () {
        var body = document.body;
        var settings = document.getElementById("settings");
        var wallID = body.dataset.wall;
        var delay = Number(body.dataset.settingsDelay) || 3000;
        var hideTimer = null;
        var socket = null;
        var lastPointer = 0;

        function showSettings(visible) {
            settings.classList.toggle("hidden", !visible);
        }

        function send(msg) {
            if (socket && socket.readyState === WebSocket.OPEN) {
                socket.send(JSON.stringify(msg));
                return true;
            }
            return false;
        }

        function callPlayers(key, func, args) {
            var selector = key ? 'iframe[data-key="' + key + '"]' : "iframe[data-key]";
            document.querySelectorAll(selector).forEach(function (frame) {
                if (frame.contentWindow) {
                    frame.contentWindow.postMessage(JSON.stringify({event: "command", func: func, args: args || []}), "*");
                }
            });
        }

        var actions = {
            play: ["playVideo", []],
            pause: ["pauseVideo", []],
            live: ["seekTo", [1e9, true]]
        };

        document.querySelectorAll("form.player").forEach(function (form) {
            form.addEventListener("submit", function (e) {
                var action = e.submitter ? e.submitter.value : "";
                if (wallID) {
                    e.preventDefault();
                    send({type: "command", command: {op: "player", action: action}});
                    return;
                }
                if (actions[action]) {
                    e.preventDefault();
                    callPlayers("", actions[action][0], actions[action][1]);
                }
            });
        });

        document.querySelectorAll(".picker button").forEach(function (button) {
            var target = document.querySelector('.cell[data-slot="' + button.dataset.slot + '"]');
            if (!target || button.classList.contains("current")) {
                return;
            }
            button.addEventListener("mouseenter", function () { target.classList.add("highlighted"); });
            button.addEventListener("mouseleave", function () { target.classList.remove("highlighted"); });
        });

        function reportViewport() {
            var w = window.innerWidth;
            var h = window.innerHeight;
            var vw = Number(body.dataset.vw);
            var vh = Number(body.dataset.vh);
            if (vw === w && vh === h) {
                return;
            }
            if (wallID) {
                if (vw === 0) {
                    send({type: "command", command: {op: "resize", width: w, height: h}});
                }
                return;
            }
            var form = document.getElementById("resize-form");
            form.elements.width.value = w;
            form.elements.height.value = h;
            form.submit();
        }

        var resizeTimer = null;
        window.addEventListener("resize", function () {
            clearTimeout(resizeTimer);
            resizeTimer = setTimeout(reportViewport, 250);
        });

        document.addEventListener("mousemove", function () {
            if (wallID) {
                var now = Date.now();
                if (now - lastPointer > 500) {
                    lastPointer = now;
                    send({type: "pointer"});
                }
                return;
            }
            showSettings(true);
            clearTimeout(hideTimer);
            hideTimer = setTimeout(function () { showSettings(false); }, delay);
        });

        if (!wallID) {
            reportViewport();
            return;
        }

        var scheme = location.protocol === "https:" ? "wss://" : "ws://";
        socket = new WebSocket(scheme + location.host + "/ws/walls/" + encodeURIComponent(wallID));
        socket.addEventListener("open", reportViewport);
        socket.addEventListener("message", function (e) {
            var msg = JSON.parse(e.data);
            if (msg.type === "state" && msg.state && msg.state.query !== body.dataset.query) {
                location.reload();
            } else if (msg.type === "settings") {
                showSettings(!!msg.visible);
            } else if (msg.type === "player" && msg.player) {
                callPlayers(msg.player.key, msg.player.func, msg.player.args);
            }
        });
        socket.addEventListener("close", function () {
            setTimeout(function () { location.reload(); }, 3000);
        });
    })();
    </script>
</body>
</html>
`))
