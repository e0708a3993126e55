package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/mastercactapus/stagectl/axis"
	"github.com/mastercactapus/stagectl/bridge"
	"github.com/mastercactapus/stagectl/button"
	"github.com/mastercactapus/stagectl/stage"
)

func main() {
	log.SetFlags(log.Lshortfile)

	addr := flag.String("addr", ":9091", "Address to bind the stagectl server to.")
	port := flag.String("port", "/dev/ttyUSB0", "Serial port of the pin bridge.")
	baud := flag.Int("baud", 115200, "Baud rate of the pin bridge.")
	dir := flag.String("dir", "./data", "Directory with the web UI files.")
	limit := flag.Float64("limit", axis.DefaultLimit, "Axis travel limit, in millimeters.")
	tick := flag.Duration("tick", stage.DefaultTick, "Control loop tick period.")
	debounce := flag.Duration("debounce", button.DefaultDebounce, "Button debounce threshold.")
	sim := flag.Bool("sim", false, "Use a simulated pin bridge instead of a serial port.")
	flag.Parse()

	var line button.Line
	var led stage.LED
	if *sim {
		b := bridge.NewSim()
		line, led = b, b
	} else {
		b, err := bridge.Open(*port, *baud)
		if err != nil {
			log.Fatal(err)
		}
		line, led = b, b
	}

	ctrl := stage.New(stage.Config{
		Limit:    *limit,
		Tick:     *tick,
		Debounce: *debounce,
	}, line, led)
	go ctrl.Run(context.Background())

	api := newAPI(ctrl, *dir)

	err := http.ListenAndServe(*addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
	if err != nil {
		log.Fatal(err)
	}
}
