package main

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

type stats struct {
	connected   atomic.Int64
	connectErrs atomic.Int64
	streamErrs  atomic.Int64
	heatmaps    atomic.Int64
	noData      atomic.Int64
	heartbeats  atomic.Int64
}

// observe counts one line of the heatmap event stream.
func (s *stats) observe(line string) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == "event: heatmap":
		s.heatmaps.Add(1)
	case line == "event: no_data":
		s.noData.Add(1)
	case strings.HasPrefix(line, ":"):
		s.heartbeats.Add(1)
	}
}

func (s *stats) String() string {
	return fmt.Sprintf("connected=%s connect_errs=%s stream_errs=%s heatmaps=%s no_data=%s heartbeats=%s",
		humanize.Comma(s.connected.Load()),
		humanize.Comma(s.connectErrs.Load()),
		humanize.Comma(s.streamErrs.Load()),
		humanize.Comma(s.heatmaps.Load()),
		humanize.Comma(s.noData.Load()),
		humanize.Comma(s.heartbeats.Load()),
	)
}

func (s *stats) rate(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	return float64(s.heatmaps.Load()) / elapsed.Seconds()
}

// rampInterval spreads connection starts across ramp. High connection counts
// without an explicit ramp get one second per 500 connections, at least one second.
func rampInterval(conns int, ramp time.Duration) (time.Duration, time.Duration) {
	if ramp == 0 && conns > 100 {
		ramp = time.Duration(conns/500) * time.Second
		if ramp < time.Second {
			ramp = time.Second
		}
	}
	if ramp <= 0 || conns <= 0 {
		return ramp, 0
	}
	return ramp, ramp / time.Duration(conns)
}
