package internal

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
)

//go:embed live.html
var templatesFS embed.FS

type RoomRow struct {
	Room  string
	Count int
}

type RoomsProvider func() []RoomRow
type StatsProvider func() map[string]any

type PageData struct {
	Rooms []RoomRow
	Stats map[string]any
}

// NewDebugMux serves the live dashboard: current rooms with presence
// counts plus coordinator counters, as HTML on /debug/live and as JSON on
// /debug/live.json. Read-only, internal network only.
func NewDebugMux(rooms RoomsProvider, stats StatsProvider) *http.ServeMux {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "live.html"))

	collect := func() PageData {
		data := PageData{Stats: make(map[string]any)}
		if rooms != nil {
			data.Rooms = rooms()
			sort.Slice(data.Rooms, func(i, j int) bool { return data.Rooms[i].Room < data.Rooms[j].Room })
		}
		if stats != nil {
			data.Stats = stats()
		}
		return data
	}

	mux.HandleFunc("/debug/live", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, collect())
	})

	mux.HandleFunc("/debug/live.json", func(w http.ResponseWriter, r *http.Request) {
		data := collect()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rooms": data.Rooms,
			"stats": data.Stats,
		})
	})

	return mux
}
