package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"

	"github.com/mastercactapus/stagectl/stage"
)

const numberOfAxes = 1

type api struct {
	http.Handler
	ctrl    *stage.Controller
	dataDir string
	sse     *sse.Server
	hub     *wsHub
}

type deviceTypeResponse struct {
	Type string `json:"type"`
}
type axisCountResponse struct {
	NumberOfAxes int `json:"numberOfAxes"`
}
type positionResponse struct {
	Axes     []int     `json:"axes"`
	Units    []string  `json:"units"`
	Position []float64 `json:"position"`
}
type homeCheckResponse struct {
	AxesChecked []int  `json:"axesChecked"`
	HomeStatus  []bool `json:"homeStatus"`
}
type limitsResponse struct {
	Axes   []int     `json:"axes"`
	Limits []float64 `json:"limits"`
	Units  []string  `json:"units"`
}
type setPositionRequest struct {
	Position []float64 `json:"position"`
}

func newAPI(ctrl *stage.Controller, dir string) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		ctrl:    ctrl,
		dataDir: dir,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
		hub: newWSHub(ctrl),
	}

	r.HandleFunc("/getDeviceType", a.getDeviceType).Methods("GET")
	r.HandleFunc("/getNumberOfAxes", a.getNumberOfAxes).Methods("GET")
	r.HandleFunc("/getPosition", a.getPosition).Methods("GET")
	r.HandleFunc("/homeAxis", a.homeAxis).Methods("POST")
	r.HandleFunc("/axisHomeCheck", a.axisHomeCheck).Methods("GET")
	r.HandleFunc("/setPosition", a.setPosition).Methods("POST")
	r.HandleFunc("/getAxesLimits", a.getAxesLimits).Methods("GET")

	r.HandleFunc("/ws", a.hub.serve)
	r.PathPrefix("/events/").Handler(a.sse)

	r.HandleFunc("/", a.index).Methods("GET")
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))

	go a.pump()

	return a
}

// pump forwards controller state changes to SSE subscribers and,
// whenever the indicator changes, to every WebSocket client.
func (a *api) pump() {
	var lastLED bool
	for state := range a.ctrl.State() {
		data, err := json.Marshal(state)
		if err != nil {
			log.Printf("ERROR: marshal json: %+v", err)
			continue
		}
		a.sse.SendMessage("/events/state", sse.SimpleMessage(string(data)))

		if state.LED != lastLED {
			lastLED = state.LED
			a.hub.broadcastStatus(state.LED)
		}
	}
}

func (a *api) getDeviceType(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, deviceTypeResponse{Type: "1d"})
}

func (a *api) getNumberOfAxes(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, axisCountResponse{NumberOfAxes: numberOfAxes})
}

func (a *api) getPosition(w http.ResponseWriter, req *http.Request) {
	state := a.ctrl.Snapshot()
	writeJSON(w, positionResponse{
		Axes:     []int{numberOfAxes},
		Units:    []string{"mm"},
		Position: []float64{state.Position},
	})
}

func (a *api) homeAxis(w http.ResponseWriter, req *http.Request) {
	a.ctrl.Home()
}

func (a *api) axisHomeCheck(w http.ResponseWriter, req *http.Request) {
	state := a.ctrl.Snapshot()
	writeJSON(w, homeCheckResponse{
		AxesChecked: []int{numberOfAxes},
		HomeStatus:  []bool{state.Homed},
	})
}

func (a *api) setPosition(w http.ResponseWriter, req *http.Request) {
	var body setPositionRequest
	err := json.NewDecoder(req.Body).Decode(&body)
	if err != nil {
		log.Println("ERROR: decode:", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// a missing position key is a no-op, still a success
	if len(body.Position) > 0 {
		a.ctrl.SetPosition(body.Position[0])
	}
}

func (a *api) getAxesLimits(w http.ResponseWriter, req *http.Request) {
	state := a.ctrl.Snapshot()
	writeJSON(w, limitsResponse{
		Axes:   []int{numberOfAxes},
		Limits: []float64{state.Limit},
		Units:  []string{"mm"},
	})
}

// index serves the UI entry page with the %STATE% placeholder
// replaced by the current indicator state.
func (a *api) index(w http.ResponseWriter, req *http.Request) {
	data, err := ioutil.ReadFile(filepath.Join(a.dataDir, "index.html"))
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		log.Println("ERROR: read index:", err)
		http.Error(w, err.Error(), 500)
		return
	}

	state := "off"
	if a.ctrl.Snapshot().LED {
		state = "on"
	}
	data = bytes.Replace(data, []byte("%STATE%"), []byte(state), -1)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}
